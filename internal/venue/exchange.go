package venue

import (
	"context"

	"github.com/rickgao/options-quoter/internal/model"
)

// Exchange is the venue collaborator. Every call is a blocking
// request/response; reads are point-in-time snapshots with no
// transactional guarantee against concurrent venue-side fills.
type Exchange interface {
	// GetInstruments returns all tradeable instruments keyed by ID.
	GetInstruments(ctx context.Context) (map[string]model.Instrument, error)

	// GetLastPriceBook returns the current order book for an instrument.
	// Either side may be empty.
	GetLastPriceBook(ctx context.Context, instrumentID string) (model.OrderBook, error)

	// GetPositions returns the signed position per instrument ID.
	GetPositions(ctx context.Context) (map[string]int, error)

	// GetOutstandingOrders returns this session's resting orders on an
	// instrument, keyed by order ID.
	GetOutstandingOrders(ctx context.Context, instrumentID string) (map[string]model.RestingOrder, error)

	// PollNewTrades returns fills executed since the previous poll.
	// Each trade is delivered at most once.
	PollNewTrades(ctx context.Context, instrumentID string) ([]model.Trade, error)

	// InsertOrder submits an order and returns the venue-assigned order ID.
	InsertOrder(ctx context.Context, instrumentID string, price, volume float64, side model.Side, orderType model.OrderType) (string, error)

	// DeleteOrder cancels a resting order. Cancelling an order that has
	// already been filled or removed is not an error.
	DeleteOrder(ctx context.Context, instrumentID, orderID string) error
}
