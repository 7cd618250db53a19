package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rickgao/options-quoter/internal/hedge"
	"github.com/rickgao/options-quoter/internal/model"
	"github.com/rickgao/options-quoter/internal/quote"
	"github.com/rickgao/options-quoter/internal/venue"
	"github.com/rickgao/options-quoter/internal/venue/venuetest"
)

const (
	stockID   = "NVDA"
	callID    = "NVDA-202708-C-50"
	putID     = "NVDA-202708-P-55"
	expiredID = "NVDA-202501-C-45"
)

// fixture builds a fake venue with a stock, two live options and one
// expired option, plus an engine wired to it with zero pacing delays.
func fixture() (*venuetest.Fake, *Engine) {
	fake := venuetest.New()

	expiry := time.Now().UTC().Add(365 * 24 * time.Hour)
	fake.Instruments[stockID] = model.Instrument{ID: stockID, Kind: model.KindStock, TickSize: 0.10}
	fake.Instruments[callID] = model.Instrument{
		ID: callID, Kind: model.KindStockOption, TickSize: 0.10,
		OptionKind: model.Call, Strike: 50, Expiry: expiry, BaseInstrumentID: stockID,
	}
	fake.Instruments[putID] = model.Instrument{
		ID: putID, Kind: model.KindStockOption, TickSize: 0.10,
		OptionKind: model.Put, Strike: 55, Expiry: expiry, BaseInstrumentID: stockID,
	}
	fake.Instruments[expiredID] = model.Instrument{
		ID: expiredID, Kind: model.KindStockOption, TickSize: 0.10,
		OptionKind: model.Call, Strike: 45,
		Expiry:           time.Now().UTC().Add(-24 * time.Hour),
		BaseInstrumentID: stockID,
	}
	fake.Books[stockID] = model.OrderBook{
		InstrumentID: stockID,
		Bids:         []model.PriceLevel{{Price: 49.9, Volume: 100}},
		Asks:         []model.PriceLevel{{Price: 50.1, Volume: 100}},
	}

	cfg := DefaultConfig(stockID)
	cfg.InstrumentDelay = 0
	cfg.CycleDelay = time.Hour // a test drives cycles itself
	cfg.RetryDelay = time.Hour

	quotes := quote.NewManager(fake, nil, nil)
	hedger := hedge.NewHedger(fake, hedge.Params{
		InterestRate:  cfg.InterestRate,
		Volatility:    cfg.Volatility,
		PositionLimit: cfg.PositionLimit,
	}, nil, nil)

	return fake, New(cfg, fake, quotes, hedger, nil)
}

func TestCycle_QuotesLiveOptionsOnly(t *testing.T) {
	fake, e := fixture()
	ctx := context.Background()

	if err := e.loadInstruments(ctx); err != nil {
		t.Fatalf("loadInstruments failed: %v", err)
	}
	if err := e.cycle(ctx); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	for _, id := range []string{callID, putID} {
		if got := len(fake.RestingOrders(id)); got != 2 {
			t.Errorf("resting orders on %s = %d, want 2 (bid and ask)", id, got)
		}
	}
	if got := len(fake.InsertedOn(expiredID)); got != 0 {
		t.Errorf("expired option got %d orders, want 0", got)
	}
	// Flat positions: no hedge trades in the underlying either.
	if got := len(fake.InsertedOn(stockID)); got != 0 {
		t.Errorf("stock got %d orders with flat positions, want 0", got)
	}
}

func TestCycle_UnavailableBookSkipsEverything(t *testing.T) {
	fake, e := fixture()
	ctx := context.Background()

	if err := e.loadInstruments(ctx); err != nil {
		t.Fatalf("loadInstruments failed: %v", err)
	}

	// One-sided book: no midpoint, the whole cycle (quoting and
	// hedging) is skipped.
	fake.Books[stockID] = model.OrderBook{
		InstrumentID: stockID,
		Asks:         []model.PriceLevel{{Price: 50.1, Volume: 100}},
	}

	err := e.cycle(ctx)
	if !errors.Is(err, ErrBookUnavailable) {
		t.Fatalf("cycle error = %v, want ErrBookUnavailable", err)
	}
	if len(fake.Inserted) != 0 {
		t.Errorf("got %d orders, want 0 when the reference price is unavailable", len(fake.Inserted))
	}
}

// failingInserts wraps an Exchange and rejects inserts on one
// instrument.
type failingInserts struct {
	venue.Exchange
	instrumentID string
}

func (f *failingInserts) InsertOrder(ctx context.Context, instrumentID string, price, volume float64, side model.Side, orderType model.OrderType) (string, error) {
	if instrumentID == f.instrumentID {
		return "", errors.New("rejected")
	}
	return f.Exchange.InsertOrder(ctx, instrumentID, price, volume, side, orderType)
}

func TestCycle_InstrumentFailureIsContained(t *testing.T) {
	fake, e := fixture()
	ctx := context.Background()

	wrapped := &failingInserts{Exchange: fake, instrumentID: callID}
	e.exchange = wrapped
	e.quotes = quote.NewManager(wrapped, nil, nil)

	if err := e.loadInstruments(ctx); err != nil {
		t.Fatalf("loadInstruments failed: %v", err)
	}
	if err := e.cycle(ctx); err != nil {
		t.Fatalf("cycle should contain per-instrument failures, got %v", err)
	}

	if got := len(fake.RestingOrders(putID)); got != 2 {
		t.Errorf("resting orders on %s = %d, want 2 despite the other leg failing", putID, got)
	}
}

func TestLoadInstruments_ChainOrderAndHedgeReference(t *testing.T) {
	_, e := fixture()

	if err := e.loadInstruments(context.Background()); err != nil {
		t.Fatalf("loadInstruments failed: %v", err)
	}

	wantOrder := []string{expiredID, callID, putID}
	if len(e.options) != len(wantOrder) {
		t.Fatalf("got %d options, want %d", len(e.options), len(wantOrder))
	}
	for i, want := range wantOrder {
		if e.options[i].ID != want {
			t.Errorf("options[%d] = %s, want %s", i, e.options[i].ID, want)
		}
	}
	if e.hedgeRef.ID != putID {
		t.Errorf("hedge reference = %s, want last in chain order %s", e.hedgeRef.ID, putID)
	}
}

func TestLoadInstruments_ExplicitHedgeReference(t *testing.T) {
	_, e := fixture()
	e.cfg.HedgeReferenceID = callID

	if err := e.loadInstruments(context.Background()); err != nil {
		t.Fatalf("loadInstruments failed: %v", err)
	}
	if e.hedgeRef.ID != callID {
		t.Errorf("hedge reference = %s, want %s", e.hedgeRef.ID, callID)
	}
}

func TestStart_RejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*venuetest.Fake, *Engine)
	}{
		{
			name: "unknown underlying",
			mutate: func(fake *venuetest.Fake, e *Engine) {
				e.cfg.UnderlyingID = "AMD"
			},
		},
		{
			name: "underlying is an option",
			mutate: func(fake *venuetest.Fake, e *Engine) {
				e.cfg.UnderlyingID = callID
			},
		},
		{
			name: "no options on underlying",
			mutate: func(fake *venuetest.Fake, e *Engine) {
				delete(fake.Instruments, callID)
				delete(fake.Instruments, putID)
				delete(fake.Instruments, expiredID)
			},
		},
		{
			name: "hedge reference is not an option",
			mutate: func(fake *venuetest.Fake, e *Engine) {
				e.cfg.HedgeReferenceID = stockID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, e := fixture()
			tt.mutate(fake, e)
			if err := e.Start(context.Background()); err == nil {
				t.Error("Start should fail")
				e.Stop(context.Background())
			}
		})
	}
}

func TestStop_PullsRestingOrders(t *testing.T) {
	fake, e := fixture()
	ctx := context.Background()

	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let at least one cycle land quotes.
	deadline := time.Now().Add(2 * time.Second)
	for len(fake.RestingOrders(putID)) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := e.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	for _, id := range []string{stockID, callID, putID, expiredID} {
		if got := len(fake.RestingOrders(id)); got != 0 {
			t.Errorf("resting orders on %s after Stop = %d, want 0", id, got)
		}
	}
}
