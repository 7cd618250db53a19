package venue

import (
	"context"
	"fmt"

	"github.com/rickgao/options-quoter/internal/model"
)

// GetLastPriceBook fetches the current order book for an instrument.
func (c *Client) GetLastPriceBook(ctx context.Context, instrumentID string) (model.OrderBook, error) {
	var resp bookResponse
	if err := c.get(ctx, "/instruments/"+instrumentID+"/book", nil, &resp); err != nil {
		return model.OrderBook{}, fmt.Errorf("get book %s: %w", instrumentID, err)
	}
	if resp.InstrumentID == "" {
		resp.InstrumentID = instrumentID
	}
	return resp.toOrderBook(), nil
}
