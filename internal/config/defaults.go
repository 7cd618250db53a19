package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultInterestRate    = 0.03
	DefaultVolatility      = 3.0
	DefaultTargetVolume    = 5
	DefaultPositionLimit   = 100
	DefaultTickSize        = 0.10
	DefaultInstrumentDelay = 200 * time.Millisecond
	DefaultCycleDelay      = 4 * time.Second
	DefaultRetryDelay      = 4 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultBatchSize       = 500
	DefaultFlushInterval   = 1 * time.Second
	DefaultBufferSize      = 10000
)

func (c *QuoterConfig) applyDefaults() {
	// Venue defaults
	if c.Venue.Timeout == 0 {
		c.Venue.Timeout = DefaultAPITimeout
	}
	if c.Venue.MaxRetries == 0 {
		c.Venue.MaxRetries = DefaultMaxRetries
	}
	if c.Venue.RetryBackoff == 0 {
		c.Venue.RetryBackoff = DefaultRetryBackoff
	}

	// Pricing defaults
	if c.Pricing.InterestRate == 0 {
		c.Pricing.InterestRate = DefaultInterestRate
	}
	if c.Pricing.Volatility == 0 {
		c.Pricing.Volatility = DefaultVolatility
	}

	// Quoting defaults
	if c.Quoting.TargetVolume == 0 {
		c.Quoting.TargetVolume = DefaultTargetVolume
	}
	if c.Quoting.PositionLimit == 0 {
		c.Quoting.PositionLimit = DefaultPositionLimit
	}
	if c.Quoting.TickSize == 0 {
		c.Quoting.TickSize = DefaultTickSize
	}

	// Loop defaults
	if c.Loop.InstrumentDelay == 0 {
		c.Loop.InstrumentDelay = DefaultInstrumentDelay
	}
	if c.Loop.CycleDelay == 0 {
		c.Loop.CycleDelay = DefaultCycleDelay
	}
	if c.Loop.RetryDelay == 0 {
		c.Loop.RetryDelay = DefaultRetryDelay
	}

	// Journal defaults
	if c.Journal.Enabled {
		applyDBDefaults(&c.Journal.DB)
		if c.Journal.BatchSize == 0 {
			c.Journal.BatchSize = DefaultBatchSize
		}
		if c.Journal.FlushInterval == 0 {
			c.Journal.FlushInterval = DefaultFlushInterval
		}
		if c.Journal.BufferSize == 0 {
			c.Journal.BufferSize = DefaultBufferSize
		}
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
