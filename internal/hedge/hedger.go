package hedge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rickgao/options-quoter/internal/model"
	"github.com/rickgao/options-quoter/internal/pricing"
	"github.com/rickgao/options-quoter/internal/venue"
)

// Params holds the model assumptions and limits shared by all stages.
type Params struct {
	InterestRate  float64
	Volatility    float64
	PositionLimit int
}

// ExposureSink receives computed aggregate exposures per stage.
type ExposureSink interface {
	RecordExposure(stage string, value float64, at time.Time)
}

// Hedger trades the underlying (delta) and options (gamma) to reduce
// net exposure, and measures vega.
type Hedger struct {
	exchange  venue.Exchange
	params    Params
	exposures ExposureSink // optional
	logger    *slog.Logger
	now       func() time.Time
}

// NewHedger creates a hedger.
func NewHedger(exchange venue.Exchange, params Params, exposures ExposureSink, logger *slog.Logger) *Hedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hedger{
		exchange:  exchange,
		params:    params,
		exposures: exposures,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// aggregateDelta folds the chain into a single delta exposure: the raw
// stock position (delta 1 per unit) plus delta × position per option.
// Expired options are excluded from the fold.
func (h *Hedger) aggregateDelta(positions map[string]int, stockID string, options []model.Instrument, stockValue float64, now time.Time) (float64, error) {
	total := float64(positions[stockID])

	for _, opt := range options {
		t := pricing.YearsBetween(opt.Expiry, now)
		if t <= 0 {
			continue
		}
		delta, err := pricing.Delta(opt.OptionKind, stockValue, opt.Strike, t, h.params.InterestRate, h.params.Volatility)
		if err != nil {
			return 0, fmt.Errorf("delta %s: %w", opt.ID, err)
		}
		total += delta * float64(positions[opt.ID])
	}

	return total, nil
}

// aggregateGamma folds the chain into a single gamma exposure. The raw
// stock position stands in as the baseline term, mirroring the delta
// fold's shape.
func (h *Hedger) aggregateGamma(positions map[string]int, stockID string, options []model.Instrument, stockValue float64, now time.Time) float64 {
	total := float64(positions[stockID])

	for _, opt := range options {
		t := pricing.YearsBetween(opt.Expiry, now)
		if t <= 0 {
			continue
		}
		total += pricing.Gamma(stockValue, opt.Strike, t, h.params.InterestRate, h.params.Volatility) * float64(positions[opt.ID])
	}

	return total
}

// aggregateVega folds the option chain into a single vega exposure.
// The call-form vega is used for both kinds.
func (h *Hedger) aggregateVega(positions map[string]int, options []model.Instrument, stockValue float64, now time.Time) float64 {
	total := 0.0

	for _, opt := range options {
		t := pricing.YearsBetween(opt.Expiry, now)
		if t <= 0 {
			continue
		}
		total += pricing.Vega(stockValue, opt.Strike, t, h.params.InterestRate, h.params.Volatility) * float64(positions[opt.ID])
	}

	return total
}

// HedgeDelta trades the underlying to offset the aggregate delta
// exposure. ref is the option whose delta sizes the stock hedge; it
// must be unexpired.
//
// The bound check 1 <= |resulting stock exposure| <= position limit is
// a safety clamp: violating it suppresses the trade entirely rather
// than clipping to the nearest valid size.
func (h *Hedger) HedgeDelta(ctx context.Context, stockID string, options []model.Instrument, stockValue float64, ref model.Instrument) error {
	now := h.now()

	positions, err := h.exchange.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("get positions: %w", err)
	}

	aggregate, err := h.aggregateDelta(positions, stockID, options, stockValue, now)
	if err != nil {
		return err
	}

	h.logger.Info("aggregate delta exposure", "stock", stockID, "delta", aggregate)
	if h.exposures != nil {
		h.exposures.RecordExposure("delta", aggregate, now)
	}

	if aggregate == 0 {
		h.logger.Info("delta flat, no hedge needed", "stock", stockID)
		return nil
	}

	refT := pricing.YearsBetween(ref.Expiry, now)
	if refT <= 0 {
		return fmt.Errorf("hedge reference option %s is expired", ref.ID)
	}
	refDelta, err := pricing.Delta(ref.OptionKind, stockValue, ref.Strike, refT, h.params.InterestRate, h.params.Volatility)
	if err != nil {
		return fmt.Errorf("reference delta %s: %w", ref.ID, err)
	}

	stockPosition := positions[stockID]
	hedgeSize := -float64(stockPosition) * refDelta

	book, err := h.exchange.GetLastPriceBook(ctx, stockID)
	if err != nil {
		return fmt.Errorf("get stock book: %w", err)
	}

	var (
		side      model.Side
		price     float64
		resulting float64
	)
	if aggregate < 0 {
		ask, ok := book.BestAsk()
		if !ok {
			return fmt.Errorf("stock book %s has no asks, cannot hedge", stockID)
		}
		side, price = model.SideBid, ask.Price
		resulting = math.Abs(float64(stockPosition) - hedgeSize)
	} else {
		bid, ok := book.BestBid()
		if !ok {
			return fmt.Errorf("stock book %s has no bids, cannot hedge", stockID)
		}
		side, price = model.SideAsk, bid.Price
		resulting = math.Abs(float64(stockPosition) + hedgeSize)
	}

	// Stock trades whole lots.
	volume := math.Trunc(math.Abs(hedgeSize))
	if resulting < 1 || resulting > float64(h.params.PositionLimit) {
		volume = 0
	}

	if volume == 0 {
		h.logger.Info("delta hedge suppressed by position clamp",
			"stock", stockID,
			"aggregate", aggregate,
			"hedge_size", hedgeSize,
			"resulting_exposure", resulting,
		)
		return nil
	}

	h.logger.Info("hedging delta in stock",
		"stock", stockID,
		"side", side,
		"volume", volume,
		"price", price,
	)
	if _, err := h.exchange.InsertOrder(ctx, stockID, price, volume, side, model.OrderIOC); err != nil {
		return fmt.Errorf("insert delta hedge: %w", err)
	}

	return nil
}

// HedgeGamma runs the delta hedge, offsets the aggregate gamma exposure
// by selling options, then runs the delta hedge again to restore the
// delta-neutrality disturbed by the option trades.
//
// Each option is sold at the best underlying ask with the fractional
// size aggregateGamma / gamma(option); sizes are not rounded to whole
// lots.
func (h *Hedger) HedgeGamma(ctx context.Context, stockID string, options []model.Instrument, stockValue float64, ref model.Instrument) error {
	if err := h.HedgeDelta(ctx, stockID, options, stockValue, ref); err != nil {
		return err
	}

	now := h.now()

	positions, err := h.exchange.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("get positions: %w", err)
	}

	aggregate := h.aggregateGamma(positions, stockID, options, stockValue, now)

	h.logger.Info("aggregate gamma exposure", "stock", stockID, "gamma", aggregate)
	if h.exposures != nil {
		h.exposures.RecordExposure("gamma", aggregate, now)
	}

	if aggregate > 0 {
		book, err := h.exchange.GetLastPriceBook(ctx, stockID)
		if err != nil {
			return fmt.Errorf("get stock book: %w", err)
		}
		ask, ok := book.BestAsk()
		if !ok {
			return fmt.Errorf("stock book %s has no asks, cannot hedge gamma", stockID)
		}

		for _, opt := range options {
			t := pricing.YearsBetween(opt.Expiry, now)
			if t <= 0 {
				continue
			}
			gamma := pricing.Gamma(stockValue, opt.Strike, t, h.params.InterestRate, h.params.Volatility)
			if gamma <= 0 {
				h.logger.Warn("skipping gamma hedge leg, zero gamma", "instrument", opt.ID)
				continue
			}

			volume := aggregate / gamma
			h.logger.Info("hedging gamma in option",
				"instrument", opt.ID,
				"volume", volume,
				"price", ask.Price,
			)
			if _, err := h.exchange.InsertOrder(ctx, opt.ID, ask.Price, volume, model.SideAsk, model.OrderLimit); err != nil {
				return fmt.Errorf("insert gamma hedge %s: %w", opt.ID, err)
			}
		}
	} else {
		h.logger.Info("no positive gamma exposure to sell off", "gamma", aggregate)
	}

	return h.HedgeDelta(ctx, stockID, options, stockValue, ref)
}

// MeasureVega computes and reports the aggregate vega exposure. This
// stage is observability-only and never submits an order.
func (h *Hedger) MeasureVega(ctx context.Context, options []model.Instrument, stockValue float64) (float64, error) {
	now := h.now()

	positions, err := h.exchange.GetPositions(ctx)
	if err != nil {
		return 0, fmt.Errorf("get positions: %w", err)
	}

	aggregate := h.aggregateVega(positions, options, stockValue, now)

	h.logger.Info("aggregate vega exposure", "vega", aggregate)
	if h.exposures != nil {
		h.exposures.RecordExposure("vega", aggregate, now)
	}

	return aggregate, nil
}
