package venue

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rickgao/options-quoter/internal/model"
)

// PollNewTrades fetches fills executed since the previous poll. The
// venue tracks the poll cursor per session; each trade is delivered at
// most once.
func (c *Client) PollNewTrades(ctx context.Context, instrumentID string) ([]model.Trade, error) {
	query := url.Values{}
	query.Set("instrument_id", instrumentID)

	var resp tradesResponse
	if err := c.get(ctx, "/trades", query, &resp); err != nil {
		return nil, fmt.Errorf("poll trades %s: %w", instrumentID, err)
	}

	trades := make([]model.Trade, 0, len(resp.Trades))
	for _, a := range resp.Trades {
		trades = append(trades, a.toTrade())
	}

	return trades, nil
}
