package venue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/options-quoter/internal/model"
)

// ErrStreamClosed is returned when operating on a closed stream.
var ErrStreamClosed = errors.New("book stream closed")

// StreamConfig holds WebSocket book stream settings.
type StreamConfig struct {
	URL              string
	APIKey           string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	// Staleness bounds how old a cached book may be before readers
	// fall back to a REST fetch.
	Staleness time.Duration
}

// DefaultStreamConfig returns sensible defaults.
func DefaultStreamConfig(url, apiKey string) StreamConfig {
	return StreamConfig{
		URL:              url,
		APIKey:           apiKey,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		Staleness:        2 * time.Second,
	}
}

// bookMessage is one full-book snapshot pushed by the venue.
type bookMessage struct {
	InstrumentID string          `json:"instrument_id"`
	Bids         []apiPriceLevel `json:"bids"`
	Asks         []apiPriceLevel `json:"asks"`
}

type cachedBook struct {
	book       model.OrderBook
	receivedAt time.Time
}

// BookStream maintains the latest order book per instrument from the
// venue's WebSocket feed. It is a cache, not a source of truth: the
// engine still reads a point-in-time snapshot per decision, the stream
// only saves the REST round-trip.
type BookStream struct {
	cfg    StreamConfig
	logger *slog.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu        sync.RWMutex
	books     map[string]cachedBook
	connected bool
	closed    bool

	done chan struct{}
}

// NewBookStream creates a new book stream.
func NewBookStream(cfg StreamConfig, logger *slog.Logger) *BookStream {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookStream{
		cfg:    cfg,
		logger: logger,
		books:  make(map[string]cachedBook),
		done:   make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection and starts reading.
func (s *BookStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.mu.Unlock()

	header := http.Header{}
	header.Set("Accept", "application/json")
	if s.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	go s.readLoop()

	s.logger.Debug("book stream connected", "url", s.cfg.URL)

	return nil
}

// Subscribe requests book updates for the given instruments.
func (s *BookStream) Subscribe(instrumentIDs []string) error {
	s.mu.RLock()
	if !s.connected {
		s.mu.RUnlock()
		return ErrStreamClosed
	}
	s.mu.RUnlock()

	msg, err := json.Marshal(map[string]any{
		"op":             "subscribe",
		"channel":        "book",
		"instrument_ids": instrumentIDs,
	})
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}

// Close gracefully closes the connection.
func (s *BookStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.connected = false
	conn := s.conn
	s.mu.Unlock()

	close(s.done)

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

// Snapshot returns the most recent book for an instrument, reporting
// false when no book has arrived yet or the cached one is stale.
func (s *BookStream) Snapshot(instrumentID string) (model.OrderBook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.books[instrumentID]
	if !ok {
		return model.OrderBook{}, false
	}
	if s.cfg.Staleness > 0 && time.Since(cached.receivedAt) > s.cfg.Staleness {
		return model.OrderBook{}, false
	}
	return cached.book, true
}

// readLoop consumes book messages until the connection drops or Close
// is called.
func (s *BookStream) readLoop() {
	defer func() {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
	}()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn("book stream read failed", "err", err)
			}
			return
		}

		var msg bookMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("malformed book message", "err", err)
			continue
		}
		if msg.InstrumentID == "" {
			continue
		}

		book := bookResponse{
			InstrumentID: msg.InstrumentID,
			Bids:         msg.Bids,
			Asks:         msg.Asks,
		}.toOrderBook()

		s.mu.Lock()
		s.books[msg.InstrumentID] = cachedBook{book: book, receivedAt: time.Now()}
		s.mu.Unlock()
	}
}

// StreamedExchange serves book reads from a BookStream cache, falling
// back to the wrapped Exchange when no fresh snapshot exists. All other
// calls pass through.
type StreamedExchange struct {
	Exchange
	stream *BookStream
}

// NewStreamedExchange wraps an Exchange with a book stream cache.
func NewStreamedExchange(ex Exchange, stream *BookStream) *StreamedExchange {
	return &StreamedExchange{Exchange: ex, stream: stream}
}

// GetLastPriceBook prefers the streamed book, falling back to REST.
func (s *StreamedExchange) GetLastPriceBook(ctx context.Context, instrumentID string) (model.OrderBook, error) {
	if book, ok := s.stream.Snapshot(instrumentID); ok {
		return book, nil
	}
	return s.Exchange.GetLastPriceBook(ctx, instrumentID)
}
