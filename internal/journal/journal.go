package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/options-quoter/internal/hedge"
	"github.com/rickgao/options-quoter/internal/model"
	"github.com/rickgao/options-quoter/internal/quote"
)

var (
	_ quote.TradeSink    = (*Journal)(nil)
	_ hedge.ExposureSink = (*Journal)(nil)
)

// Config contains journal batching settings.
type Config struct {
	// InstanceID tags every row with the quoter that produced it.
	InstanceID string

	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the initial capacity of the intake buffers.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(instanceID string) Config {
	return Config{
		InstanceID:    instanceID,
		BatchSize:     500,
		FlushInterval: 1 * time.Second,
		BufferSize:    10000,
	}
}

// fillRow represents a row for the fills table.
type fillRow struct {
	TradeID      string
	InstrumentID string
	Price        float64
	Volume       float64
	Side         string
	ExecutedAt   int64 // microseconds
	RecordedAt   int64 // microseconds
	InstanceID   string
}

// exposureRow represents a row for the exposures table.
type exposureRow struct {
	InstanceID string
	Stage      string
	Value      float64
	MeasuredAt int64 // microseconds
}

// Metrics holds journal counters.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
	Dropped   int64
}

// Journal buffers fills and exposures and batch-writes them to
// Postgres. RecordTrade and RecordExposure never block.
type Journal struct {
	cfg    Config
	db     *pgxpool.Pool
	logger *slog.Logger

	fills     *GrowableBuffer[fillRow]
	exposures *GrowableBuffer[exposureRow]

	// Batching
	fillBatch     []fillRow
	exposureBatch []exposureRow
	batchMu       sync.Mutex
	flushTicker   *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Metrics
}

// New creates a journal writing to db.
func New(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		cfg:           cfg,
		db:            db,
		logger:        logger,
		fills:         NewGrowableBuffer[fillRow](cfg.BufferSize),
		exposures:     NewGrowableBuffer[exposureRow](cfg.BufferSize),
		fillBatch:     make([]fillRow, 0, cfg.BatchSize),
		exposureBatch: make([]exposureRow, 0, cfg.BatchSize),
	}
}

// RecordTrade queues one observed fill.
func (j *Journal) RecordTrade(trade model.Trade) {
	row := j.transformTrade(trade)
	if !j.fills.Send(row) {
		j.batchMu.Lock()
		j.metrics.Dropped++
		j.batchMu.Unlock()
	}
}

// RecordExposure queues one aggregate exposure measurement.
func (j *Journal) RecordExposure(stage string, value float64, at time.Time) {
	row := exposureRow{
		InstanceID: j.cfg.InstanceID,
		Stage:      stage,
		Value:      value,
		MeasuredAt: at.UnixMicro(),
	}
	if !j.exposures.Send(row) {
		j.batchMu.Lock()
		j.metrics.Dropped++
		j.batchMu.Unlock()
	}
}

// Start begins consuming queued rows and writing to the database.
func (j *Journal) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)
	j.flushTicker = time.NewTicker(j.cfg.FlushInterval)

	j.wg.Add(1)
	go j.consumeLoop()

	j.wg.Add(1)
	go j.flushLoop()

	j.logger.Info("journal started",
		"batch_size", j.cfg.BatchSize,
		"flush_interval", j.cfg.FlushInterval,
	)
	return nil
}

// Stop drains the buffers, performs a final flush, and shuts down.
func (j *Journal) Stop(ctx context.Context) error {
	j.logger.Info("stopping journal")

	j.fills.Close()
	j.exposures.Close()

	if j.cancel != nil {
		j.cancel()
	}
	if j.flushTicker != nil {
		j.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		j.logger.Warn("journal stop timed out")
	}

	// Whatever the consumer didn't pick up before cancellation.
	j.batchMu.Lock()
	j.fillBatch = append(j.fillBatch, j.fills.DrainTo(0)...)
	j.exposureBatch = append(j.exposureBatch, j.exposures.DrainTo(0)...)
	j.batchMu.Unlock()

	j.flush(ctx)

	j.logger.Info("journal stopped")
	return nil
}

// Stats returns current metrics.
func (j *Journal) Stats() Metrics {
	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	return j.metrics
}

// consumeLoop moves rows from the intake buffers into the batches.
func (j *Journal) consumeLoop() {
	defer j.wg.Done()

	for {
		if j.ctx.Err() != nil {
			return
		}

		fill, okFill := j.fills.TryReceive()
		if okFill {
			j.addFill(fill)
		}
		exposure, okExposure := j.exposures.TryReceive()
		if okExposure {
			j.addExposure(exposure)
		}

		if !okFill && !okExposure {
			select {
			case <-j.ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}

// flushLoop periodically flushes the batches.
func (j *Journal) flushLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-j.flushTicker.C:
			j.flush(j.ctx)
		}
	}
}

func (j *Journal) addFill(row fillRow) {
	j.batchMu.Lock()
	j.fillBatch = append(j.fillBatch, row)
	shouldFlush := len(j.fillBatch) >= j.cfg.BatchSize
	j.batchMu.Unlock()

	if shouldFlush {
		j.flush(j.ctx)
	}
}

func (j *Journal) addExposure(row exposureRow) {
	j.batchMu.Lock()
	j.exposureBatch = append(j.exposureBatch, row)
	shouldFlush := len(j.exposureBatch) >= j.cfg.BatchSize
	j.batchMu.Unlock()

	if shouldFlush {
		j.flush(j.ctx)
	}
}

// transformTrade converts a trade to a fillRow.
func (j *Journal) transformTrade(trade model.Trade) fillRow {
	return fillRow{
		TradeID:      trade.ID.String(),
		InstrumentID: trade.InstrumentID,
		Price:        trade.Price,
		Volume:       trade.Volume,
		Side:         string(trade.Side),
		ExecutedAt:   trade.ExecutedAt.UnixMicro(),
		RecordedAt:   time.Now().UTC().UnixMicro(),
		InstanceID:   j.cfg.InstanceID,
	}
}

// flush writes both batches to the database.
func (j *Journal) flush(ctx context.Context) {
	j.batchMu.Lock()
	fills := j.fillBatch
	exposures := j.exposureBatch
	if len(fills) == 0 && len(exposures) == 0 {
		j.batchMu.Unlock()
		return
	}
	j.fillBatch = make([]fillRow, 0, j.cfg.BatchSize)
	j.exposureBatch = make([]exposureRow, 0, j.cfg.BatchSize)
	j.batchMu.Unlock()

	start := time.Now()

	batch := &pgx.Batch{}
	for _, r := range fills {
		batch.Queue(`
			INSERT INTO fills (trade_id, instrument_id, price, volume, side, executed_at, recorded_at, instance_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (trade_id) DO NOTHING
		`, r.TradeID, r.InstrumentID, r.Price, r.Volume, r.Side, r.ExecutedAt, r.RecordedAt, r.InstanceID)
	}
	for _, r := range exposures {
		batch.Queue(`
			INSERT INTO exposures (instance_id, stage, value, measured_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (instance_id, stage, measured_at) DO NOTHING
		`, r.InstanceID, r.Stage, r.Value, r.MeasuredAt)
	}

	conflicts, err := j.sendBatch(ctx, batch)
	if err != nil {
		j.logger.Error("journal flush failed",
			"error", err,
			"fills", len(fills),
			"exposures", len(exposures),
		)
		j.batchMu.Lock()
		j.metrics.Errors++
		j.batchMu.Unlock()
		return
	}

	j.batchMu.Lock()
	j.metrics.Inserts += int64(batch.Len() - conflicts)
	j.metrics.Conflicts += int64(conflicts)
	j.metrics.Flushes++
	j.batchMu.Unlock()

	j.logger.Debug("flushed journal",
		"fills", len(fills),
		"exposures", len(exposures),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// sendBatch executes the batch and counts conflict no-ops.
func (j *Journal) sendBatch(ctx context.Context, batch *pgx.Batch) (conflicts int, err error) {
	results := j.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
