package model

import (
	"time"

	"github.com/google/uuid"
)

// InstrumentKind distinguishes the underlying stock from its options.
type InstrumentKind string

const (
	KindStock       InstrumentKind = "stock"
	KindStockOption InstrumentKind = "stock_option"
)

// OptionKind is the option payoff type. Fixed per instrument.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// Side of an order relative to the book.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// OrderType selects resting versus immediate execution.
type OrderType string

const (
	OrderLimit OrderType = "limit"
	OrderIOC   OrderType = "ioc"
)

// Instrument describes one tradeable instrument. Immutable once loaded
// for a trading session.
type Instrument struct {
	ID       string         // Primary key (venue instrument ID)
	Kind     InstrumentKind // stock or stock_option
	TickSize float64        // Minimum price increment

	// Option fields (zero for stocks)
	OptionKind       OptionKind // call or put
	Strike           float64    // Strike price
	Expiry           time.Time  // Expiry timestamp
	BaseInstrumentID string     // Underlying stock instrument ID
}

// IsOption reports whether the instrument is a stock option.
func (i Instrument) IsOption() bool {
	return i.Kind == KindStockOption
}

// PriceLevel is a single price level in an order book.
type PriceLevel struct {
	Price  float64 // Level price
	Volume int     // Quantity resting at this price
}

// OrderBook is a two-sided book snapshot. Bids are sorted by descending
// price, asks by ascending price. Either side may be empty.
type OrderBook struct {
	InstrumentID string
	Bids         []PriceLevel
	Asks         []PriceLevel
}

// BestBid returns the highest bid, if any.
func (b OrderBook) BestBid() (PriceLevel, bool) {
	if len(b.Bids) == 0 {
		return PriceLevel{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the lowest ask, if any.
func (b OrderBook) BestAsk() (PriceLevel, bool) {
	if len(b.Asks) == 0 {
		return PriceLevel{}, false
	}
	return b.Asks[0], true
}

// Midpoint returns the average of the best bid and best ask prices.
// It reports false when either side of the book is empty, in which case
// no reference price can be derived and the caller must skip pricing
// for the cycle.
func (b OrderBook) Midpoint() (float64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (bid.Price + ask.Price) / 2.0, true
}

// RestingOrder is an order currently live on the venue.
type RestingOrder struct {
	ID           string
	InstrumentID string
	Side         Side
	Price        float64
	Volume       float64
	Type         OrderType
}

// Trade is an executed fill reported by the venue, delivered at most once.
type Trade struct {
	ID           uuid.UUID
	InstrumentID string
	Price        float64
	Volume       float64
	Side         Side
	ExecutedAt   time.Time
}
