// Package venuetest provides an in-memory Exchange for tests.
package venuetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/rickgao/options-quoter/internal/model"
	"github.com/rickgao/options-quoter/internal/venue"
)

// InsertedOrder records one InsertOrder call.
type InsertedOrder struct {
	InstrumentID string
	Price        float64
	Volume       float64
	Side         model.Side
	Type         model.OrderType
}

// Fake is an in-memory Exchange. Limit orders rest until deleted; IOC
// orders are recorded but never rest. Positions are fixed unless the
// test mutates them.
type Fake struct {
	mu sync.Mutex

	Instruments map[string]model.Instrument
	Books       map[string]model.OrderBook
	Positions   map[string]int

	// orders holds resting orders per instrument, keyed by order ID.
	orders map[string]map[string]model.RestingOrder

	// pendingTrades is drained by PollNewTrades.
	pendingTrades map[string][]model.Trade

	// Inserted logs every InsertOrder call in order.
	Inserted []InsertedOrder
	// Deleted logs every DeleteOrder call.
	Deleted []string

	// Fail, when set for a method name ("InsertOrder", "GetPositions",
	// ...), makes that method return the error.
	Fail map[string]error

	nextID int
}

var _ venue.Exchange = (*Fake)(nil)

// New creates an empty fake exchange.
func New() *Fake {
	return &Fake{
		Instruments:   make(map[string]model.Instrument),
		Books:         make(map[string]model.OrderBook),
		Positions:     make(map[string]int),
		orders:        make(map[string]map[string]model.RestingOrder),
		pendingTrades: make(map[string][]model.Trade),
		Fail:          make(map[string]error),
	}
}

func (f *Fake) GetInstruments(ctx context.Context) (map[string]model.Instrument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["GetInstruments"]; err != nil {
		return nil, err
	}
	out := make(map[string]model.Instrument, len(f.Instruments))
	for id, inst := range f.Instruments {
		out[id] = inst
	}
	return out, nil
}

func (f *Fake) GetLastPriceBook(ctx context.Context, instrumentID string) (model.OrderBook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["GetLastPriceBook"]; err != nil {
		return model.OrderBook{}, err
	}
	return f.Books[instrumentID], nil
}

func (f *Fake) GetPositions(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["GetPositions"]; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(f.Positions))
	for id, p := range f.Positions {
		out[id] = p
	}
	return out, nil
}

func (f *Fake) GetOutstandingOrders(ctx context.Context, instrumentID string) (map[string]model.RestingOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["GetOutstandingOrders"]; err != nil {
		return nil, err
	}
	out := make(map[string]model.RestingOrder, len(f.orders[instrumentID]))
	for id, o := range f.orders[instrumentID] {
		out[id] = o
	}
	return out, nil
}

func (f *Fake) PollNewTrades(ctx context.Context, instrumentID string) ([]model.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["PollNewTrades"]; err != nil {
		return nil, err
	}
	trades := f.pendingTrades[instrumentID]
	delete(f.pendingTrades, instrumentID)
	return trades, nil
}

func (f *Fake) InsertOrder(ctx context.Context, instrumentID string, price, volume float64, side model.Side, orderType model.OrderType) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["InsertOrder"]; err != nil {
		return "", err
	}

	f.Inserted = append(f.Inserted, InsertedOrder{
		InstrumentID: instrumentID,
		Price:        price,
		Volume:       volume,
		Side:         side,
		Type:         orderType,
	})

	f.nextID++
	orderID := fmt.Sprintf("ord-%d", f.nextID)

	if orderType == model.OrderLimit {
		if f.orders[instrumentID] == nil {
			f.orders[instrumentID] = make(map[string]model.RestingOrder)
		}
		f.orders[instrumentID][orderID] = model.RestingOrder{
			ID:           orderID,
			InstrumentID: instrumentID,
			Side:         side,
			Price:        price,
			Volume:       volume,
			Type:         orderType,
		}
	}

	return orderID, nil
}

func (f *Fake) DeleteOrder(ctx context.Context, instrumentID, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail["DeleteOrder"]; err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, orderID)
	delete(f.orders[instrumentID], orderID)
	return nil
}

// AddTrades queues trades for the next PollNewTrades call.
func (f *Fake) AddTrades(instrumentID string, trades ...model.Trade) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingTrades[instrumentID] = append(f.pendingTrades[instrumentID], trades...)
}

// RestingOrders returns a copy of the resting orders on an instrument.
func (f *Fake) RestingOrders(instrumentID string) []model.RestingOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.RestingOrder, 0, len(f.orders[instrumentID]))
	for _, o := range f.orders[instrumentID] {
		out = append(out, o)
	}
	return out
}

// InsertedOn filters the insertion log by instrument.
func (f *Fake) InsertedOn(instrumentID string) []InsertedOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []InsertedOrder
	for _, ins := range f.Inserted {
		if ins.InstrumentID == instrumentID {
			out = append(out, ins)
		}
	}
	return out
}
