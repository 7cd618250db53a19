package config

import "time"

// QuoterConfig is the root configuration for a quoter instance.
type QuoterConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Venue    VenueConfig    `yaml:"venue"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Quoting  QuotingConfig  `yaml:"quoting"`
	Hedging  HedgingConfig  `yaml:"hedging"`
	Loop     LoopConfig     `yaml:"loop"`
	Journal  JournalConfig  `yaml:"journal"`
}

// InstanceConfig identifies this quoter.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// VenueConfig holds exchange API settings. A non-empty StreamURL
// enables the WebSocket price feed; the REST API remains the fallback.
type VenueConfig struct {
	RestURL      string        `yaml:"rest_url"`
	StreamURL    string        `yaml:"stream_url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// PricingConfig holds the Black-Scholes model assumptions.
type PricingConfig struct {
	InterestRate float64 `yaml:"interest_rate"`
	Volatility   float64 `yaml:"volatility"`
}

// QuotingConfig holds the market-making policy for one underlying.
type QuotingConfig struct {
	UnderlyingID string `yaml:"underlying_id"`
	// Credit is the half-spread in price units. Zero or unset selects
	// the adaptive credit (the option's vega).
	Credit        float64 `yaml:"credit"`
	TargetVolume  int     `yaml:"target_volume"`
	PositionLimit int     `yaml:"position_limit"`
	// TickSize applies when an instrument does not report its own.
	TickSize float64 `yaml:"tick_size"`
}

// HedgingConfig holds hedging overrides.
type HedgingConfig struct {
	// ReferenceID names the option whose delta sizes the stock hedge.
	// Empty selects the last option in chain order.
	ReferenceID string `yaml:"reference_id"`
}

// LoopConfig holds control loop pacing.
type LoopConfig struct {
	InstrumentDelay time.Duration `yaml:"instrument_delay"`
	CycleDelay      time.Duration `yaml:"cycle_delay"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
}

// JournalConfig holds the fill and exposure journal settings. The
// journal is optional; the quoter trades without one.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	DB            DBConfig      `yaml:"db"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
