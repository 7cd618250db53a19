package venue

import (
	"context"
	"fmt"

	"github.com/rickgao/options-quoter/internal/model"
)

// GetInstruments fetches all tradeable instruments keyed by ID.
func (c *Client) GetInstruments(ctx context.Context) (map[string]model.Instrument, error) {
	var resp instrumentsResponse
	if err := c.get(ctx, "/instruments", nil, &resp); err != nil {
		return nil, fmt.Errorf("get instruments: %w", err)
	}

	instruments := make(map[string]model.Instrument, len(resp.Instruments))
	for _, a := range resp.Instruments {
		inst, err := a.toInstrument()
		if err != nil {
			return nil, fmt.Errorf("convert instrument %s: %w", a.InstrumentID, err)
		}
		instruments[inst.ID] = inst
	}

	return instruments, nil
}
