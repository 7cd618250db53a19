package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rickgao/options-quoter/internal/hedge"
	"github.com/rickgao/options-quoter/internal/model"
	"github.com/rickgao/options-quoter/internal/pricing"
	"github.com/rickgao/options-quoter/internal/quote"
	"github.com/rickgao/options-quoter/internal/venue"
)

// ErrBookUnavailable signals that the underlying book is one-sided or
// empty, so no reference price exists for this cycle.
var ErrBookUnavailable = errors.New("underlying book unavailable")

// Config holds control loop settings.
type Config struct {
	UnderlyingID string

	// Black-Scholes assumptions for this engine instance.
	InterestRate float64
	Volatility   float64

	// Credit is the half-spread around the theoretical price. Zero
	// selects the adaptive credit: the option's own vega.
	Credit        float64
	TargetVolume  int
	PositionLimit int
	// TickSize is the fallback when an instrument reports none.
	TickSize float64

	// HedgeReferenceID names the option whose delta sizes the stock
	// hedge. Empty selects the last option in chain order.
	HedgeReferenceID string

	InstrumentDelay time.Duration // pacing after each instrument's requote
	CycleDelay      time.Duration // pacing after each full cycle
	RetryDelay      time.Duration // pacing after an unavailable book
}

// DefaultConfig returns sensible defaults for one underlying.
func DefaultConfig(underlyingID string) Config {
	return Config{
		UnderlyingID:    underlyingID,
		InterestRate:    0.03,
		Volatility:      3.0,
		TargetVolume:    5,
		PositionLimit:   100,
		TickSize:        0.10,
		InstrumentDelay: 200 * time.Millisecond,
		CycleDelay:      4 * time.Second,
		RetryDelay:      4 * time.Second,
	}
}

// Engine sequences quoting and hedging for one underlying and its
// option chain. A single goroutine executes cycles; every venue
// interaction is a blocking call.
type Engine struct {
	cfg      Config
	exchange venue.Exchange
	quotes   *quote.Manager
	hedger   *hedge.Hedger
	logger   *slog.Logger

	stock    model.Instrument
	options  []model.Instrument
	hedgeRef model.Instrument

	now func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an engine. Instruments are discovered on Start.
func New(cfg Config, exchange venue.Exchange, quotes *quote.Manager, hedger *hedge.Hedger, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:      cfg,
		exchange: exchange,
		quotes:   quotes,
		hedger:   hedger,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start discovers the instrument chain (blocking) and begins the
// trading loop in the background.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	if err := e.loadInstruments(e.ctx); err != nil {
		e.cancel()
		return err
	}

	e.wg.Add(1)
	go e.run()

	e.logger.Info("engine started",
		"underlying", e.stock.ID,
		"options", len(e.options),
		"hedge_reference", e.hedgeRef.ID,
	)

	return nil
}

// Stop halts the loop and pulls every resting order so nothing is left
// live on the venue after exit.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.cancelAllOrders(ctx)
	e.logger.Info("engine stopped")
	return nil
}

// loadInstruments fetches the chain for the configured underlying.
func (e *Engine) loadInstruments(ctx context.Context) error {
	instruments, err := e.exchange.GetInstruments(ctx)
	if err != nil {
		return fmt.Errorf("load instruments: %w", err)
	}

	stock, ok := instruments[e.cfg.UnderlyingID]
	if !ok {
		return fmt.Errorf("underlying %s not found", e.cfg.UnderlyingID)
	}
	if stock.Kind != model.KindStock {
		return fmt.Errorf("underlying %s is a %s, not a stock", stock.ID, stock.Kind)
	}
	e.stock = stock

	e.options = e.options[:0]
	for _, inst := range instruments {
		if inst.IsOption() && inst.BaseInstrumentID == e.cfg.UnderlyingID {
			e.options = append(e.options, inst)
		}
	}
	if len(e.options) == 0 {
		return fmt.Errorf("no options found for underlying %s", e.cfg.UnderlyingID)
	}
	// Chain order: deterministic iteration across cycles.
	slices.SortFunc(e.options, func(a, b model.Instrument) int {
		return strings.Compare(a.ID, b.ID)
	})

	e.hedgeRef = e.options[len(e.options)-1]
	if e.cfg.HedgeReferenceID != "" {
		ref, ok := instruments[e.cfg.HedgeReferenceID]
		if !ok || !ref.IsOption() {
			return fmt.Errorf("hedge reference %s is not a known option", e.cfg.HedgeReferenceID)
		}
		e.hedgeRef = ref
	}

	return nil
}

// run executes cycles until cancellation.
func (e *Engine) run() {
	defer e.wg.Done()

	for {
		delay := e.cfg.CycleDelay

		err := e.cycle(e.ctx)
		switch {
		case e.ctx.Err() != nil:
			return
		case errors.Is(err, ErrBookUnavailable):
			e.logger.Info("underlying book empty on a side, skipping cycle",
				"underlying", e.stock.ID,
				"retry_in", e.cfg.RetryDelay,
			)
			delay = e.cfg.RetryDelay
		case err != nil:
			e.logger.Error("cycle failed", "err", err)
		}

		select {
		case <-e.ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// cycle performs one full pass: reference price, per-option requote,
// hedging sequence.
func (e *Engine) cycle(ctx context.Context) error {
	start := time.Now()

	book, err := e.exchange.GetLastPriceBook(ctx, e.stock.ID)
	if err != nil {
		return fmt.Errorf("get underlying book: %w", err)
	}
	stockValue, ok := book.Midpoint()
	if !ok {
		return ErrBookUnavailable
	}

	now := e.now()
	var quoted, skipped, failed int

	for _, opt := range e.options {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Same time-to-expiry for the value and the credit of one
		// decision; mixing reference times makes the greeks of a
		// quote mutually inconsistent.
		t := pricing.YearsBetween(opt.Expiry, now)
		if t <= 0 {
			e.logger.Warn("excluding expired option from quoting", "instrument", opt.ID)
			skipped++
			continue
		}

		theo, err := pricing.Value(opt.OptionKind, stockValue, opt.Strike, t, e.cfg.InterestRate, e.cfg.Volatility)
		if err != nil {
			e.logger.Error("pricing failed", "instrument", opt.ID, "err", err)
			failed++
			continue
		}

		credit := e.cfg.Credit
		if credit <= 0 {
			credit = pricing.Vega(stockValue, opt.Strike, t, e.cfg.InterestRate, e.cfg.Volatility)
		}

		tick := opt.TickSize
		if tick <= 0 {
			tick = e.cfg.TickSize
		}

		if err := e.quotes.RefreshQuotes(ctx, opt.ID, theo, credit, e.cfg.TargetVolume, e.cfg.PositionLimit, tick); err != nil {
			// Recoverable: leave this instrument for the next cycle,
			// keep going with the rest of the chain.
			e.logger.Error("requote failed", "instrument", opt.ID, "err", err)
			failed++
			continue
		}
		quoted++

		if !e.pace(ctx, e.cfg.InstrumentDelay) {
			return ctx.Err()
		}
	}

	e.runHedges(ctx, stockValue)

	e.logger.Info("cycle complete",
		"quoted", quoted,
		"skipped", skipped,
		"failed", failed,
		"duration", time.Since(start),
	)

	return nil
}

// runHedges executes the fixed hedging sequence: delta, gamma (which
// re-runs delta around its adjustment), then the measurement-only vega
// stage. Stage failures are contained per stage.
func (e *Engine) runHedges(ctx context.Context, stockValue float64) {
	if err := e.hedger.HedgeDelta(ctx, e.stock.ID, e.options, stockValue, e.hedgeRef); err != nil {
		e.logger.Error("delta hedge failed", "err", err)
	}
	if err := e.hedger.HedgeGamma(ctx, e.stock.ID, e.options, stockValue, e.hedgeRef); err != nil {
		e.logger.Error("gamma hedge failed", "err", err)
	}
	if _, err := e.hedger.MeasureVega(ctx, e.options, stockValue); err != nil {
		e.logger.Error("vega measurement failed", "err", err)
	}
}

// pace sleeps for the venue rate-limit delay, reporting false on
// cancellation.
func (e *Engine) pace(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// cancelAllOrders pulls every resting order on the chain and the stock.
func (e *Engine) cancelAllOrders(ctx context.Context) {
	instruments := append([]model.Instrument{e.stock}, e.options...)

	for _, inst := range instruments {
		orders, err := e.exchange.GetOutstandingOrders(ctx, inst.ID)
		if err != nil {
			e.logger.Error("could not list orders during shutdown",
				"instrument", inst.ID,
				"err", err,
			)
			continue
		}
		for orderID := range orders {
			if err := e.exchange.DeleteOrder(ctx, inst.ID, orderID); err != nil {
				e.logger.Error("could not cancel order during shutdown",
					"instrument", inst.ID,
					"order_id", orderID,
					"err", err,
				)
				continue
			}
			e.logger.Info("cancelled resting order on shutdown",
				"instrument", inst.ID,
				"order_id", orderID,
			)
		}
	}
}
