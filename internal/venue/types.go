package venue

import (
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/options-quoter/internal/model"
)

// Wire types for the venue REST API. Kept separate from the domain
// model so the JSON shape can evolve without touching engine code.

type apiInstrument struct {
	InstrumentID     string  `json:"instrument_id"`
	Kind             string  `json:"kind"`
	TickSize         float64 `json:"tick_size"`
	OptionKind       string  `json:"option_kind,omitempty"`
	Strike           float64 `json:"strike,omitempty"`
	Expiry           string  `json:"expiry,omitempty"` // RFC 3339
	BaseInstrumentID string  `json:"base_instrument_id,omitempty"`
}

type instrumentsResponse struct {
	Instruments []apiInstrument `json:"instruments"`
}

type apiPriceLevel struct {
	Price  float64 `json:"price"`
	Volume int     `json:"volume"`
}

type bookResponse struct {
	InstrumentID string          `json:"instrument_id"`
	Bids         []apiPriceLevel `json:"bids"`
	Asks         []apiPriceLevel `json:"asks"`
}

type positionsResponse struct {
	Positions map[string]int `json:"positions"`
}

type apiOrder struct {
	OrderID      string  `json:"order_id"`
	InstrumentID string  `json:"instrument_id"`
	Side         string  `json:"side"`
	Price        float64 `json:"price"`
	Volume       float64 `json:"volume"`
	OrderType    string  `json:"order_type"`
}

type ordersResponse struct {
	Orders []apiOrder `json:"orders"`
}

type apiTrade struct {
	TradeID      uuid.UUID `json:"trade_id"`
	InstrumentID string    `json:"instrument_id"`
	Price        float64   `json:"price"`
	Volume       float64   `json:"volume"`
	Side         string    `json:"side"`
	ExecutedAt   time.Time `json:"executed_at"`
}

type tradesResponse struct {
	Trades []apiTrade `json:"trades"`
}

type insertOrderRequest struct {
	InstrumentID string  `json:"instrument_id"`
	Price        float64 `json:"price"`
	Volume       float64 `json:"volume"`
	Side         string  `json:"side"`
	OrderType    string  `json:"order_type"`
	ClientKey    string  `json:"client_key"` // idempotency key
}

type insertOrderResponse struct {
	OrderID string `json:"order_id"`
}

// toInstrument converts an API instrument to the domain model.
func (a apiInstrument) toInstrument() (model.Instrument, error) {
	inst := model.Instrument{
		ID:               a.InstrumentID,
		Kind:             model.InstrumentKind(a.Kind),
		TickSize:         a.TickSize,
		OptionKind:       model.OptionKind(a.OptionKind),
		Strike:           a.Strike,
		BaseInstrumentID: a.BaseInstrumentID,
	}

	if a.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, a.Expiry)
		if err != nil {
			return model.Instrument{}, err
		}
		inst.Expiry = expiry
	}

	return inst, nil
}

// toOrderBook converts a book response to the domain model.
func (b bookResponse) toOrderBook() model.OrderBook {
	book := model.OrderBook{
		InstrumentID: b.InstrumentID,
		Bids:         make([]model.PriceLevel, 0, len(b.Bids)),
		Asks:         make([]model.PriceLevel, 0, len(b.Asks)),
	}
	for _, l := range b.Bids {
		book.Bids = append(book.Bids, model.PriceLevel{Price: l.Price, Volume: l.Volume})
	}
	for _, l := range b.Asks {
		book.Asks = append(book.Asks, model.PriceLevel{Price: l.Price, Volume: l.Volume})
	}
	return book
}

// toRestingOrder converts an API order to the domain model.
func (a apiOrder) toRestingOrder() model.RestingOrder {
	return model.RestingOrder{
		ID:           a.OrderID,
		InstrumentID: a.InstrumentID,
		Side:         model.Side(a.Side),
		Price:        a.Price,
		Volume:       a.Volume,
		Type:         model.OrderType(a.OrderType),
	}
}

// toTrade converts an API trade to the domain model.
func (a apiTrade) toTrade() model.Trade {
	return model.Trade{
		ID:           a.TradeID,
		InstrumentID: a.InstrumentID,
		Price:        a.Price,
		Volume:       a.Volume,
		Side:         model.Side(a.Side),
		ExecutedAt:   a.ExecutedAt,
	}
}
