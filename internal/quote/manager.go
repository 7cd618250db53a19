package quote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/options-quoter/internal/model"
	"github.com/rickgao/options-quoter/internal/venue"
)

// TradeSink receives fills observed while quoting. Implementations must
// not block; the journal buffers internally.
type TradeSink interface {
	RecordTrade(trade model.Trade)
}

// Manager replaces the resting quotes on one instrument per cycle.
type Manager struct {
	exchange venue.Exchange
	trades   TradeSink // optional
	logger   *slog.Logger
}

// NewManager creates a quote manager.
func NewManager(exchange venue.Exchange, trades TradeSink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		exchange: exchange,
		trades:   trades,
		logger:   logger,
	}
}

// RefreshQuotes replaces the quotes on instrumentID:
//
//  1. Poll and report fills since the last refresh.
//  2. Cancel every currently resting order (idempotent).
//  3. bid = FloorToTick(theo - credit), ask = CeilToTick(theo + credit);
//     rounding always moves the bid down and the ask up, never narrowing
//     the spread implied by the credit.
//  4. Clip volumes against the position limit using the position read at
//     this decision point. A concurrent fill between the read and the
//     insert is tolerated, not eliminated.
//  5. Insert a limit bid/ask only when its clipped volume is positive.
//
// Venue call failures are returned to the caller; the control loop logs
// them and moves on to the next instrument.
func (m *Manager) RefreshQuotes(ctx context.Context, instrumentID string, theo, credit float64, targetVolume, positionLimit int, tickSize float64) error {
	trades, err := m.exchange.PollNewTrades(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("poll trades: %w", err)
	}
	for _, trade := range trades {
		m.logger.Info("trade executed",
			"instrument", instrumentID,
			"side", trade.Side,
			"volume", trade.Volume,
			"price", trade.Price,
		)
		if m.trades != nil {
			m.trades.RecordTrade(trade)
		}
	}

	orders, err := m.exchange.GetOutstandingOrders(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("get outstanding orders: %w", err)
	}
	for orderID, order := range orders {
		m.logger.Info("cancelling stale quote",
			"instrument", instrumentID,
			"order_id", orderID,
			"side", order.Side,
			"volume", order.Volume,
			"price", order.Price,
		)
		if err := m.exchange.DeleteOrder(ctx, instrumentID, orderID); err != nil {
			return fmt.Errorf("delete order %s: %w", orderID, err)
		}
	}

	bidPrice := FloorToTick(theo-credit, tickSize)
	askPrice := CeilToTick(theo+credit, tickSize)

	positions, err := m.exchange.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("get positions: %w", err)
	}
	position := positions[instrumentID]

	bidVolume := min(targetVolume, positionLimit-position)
	askVolume := min(targetVolume, positionLimit+position)

	if bidVolume > 0 {
		m.logger.Info("inserting bid quote",
			"instrument", instrumentID,
			"volume", bidVolume,
			"price", bidPrice,
		)
		if _, err := m.exchange.InsertOrder(ctx, instrumentID, bidPrice, float64(bidVolume), model.SideBid, model.OrderLimit); err != nil {
			return fmt.Errorf("insert bid: %w", err)
		}
	}
	if askVolume > 0 {
		m.logger.Info("inserting ask quote",
			"instrument", instrumentID,
			"volume", askVolume,
			"price", askPrice,
		)
		if _, err := m.exchange.InsertOrder(ctx, instrumentID, askPrice, float64(askVolume), model.SideAsk, model.OrderLimit); err != nil {
			return fmt.Errorf("insert ask: %w", err)
		}
	}

	return nil
}
