package venue

import (
	"context"
	"fmt"
)

// GetPositions fetches the signed position per instrument. Instruments
// never traded may be absent; a missing key reads as zero.
func (c *Client) GetPositions(ctx context.Context) (map[string]int, error) {
	var resp positionsResponse
	if err := c.get(ctx, "/positions", nil, &resp); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	if resp.Positions == nil {
		resp.Positions = map[string]int{}
	}
	return resp.Positions, nil
}
