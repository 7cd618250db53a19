package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *QuoterConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Venue.RestURL == "" {
		return errors.New("venue.rest_url is required")
	}
	if c.Venue.MaxRetries < 0 {
		return errors.New("venue.max_retries must be >= 0")
	}

	if c.Pricing.Volatility <= 0 {
		return errors.New("pricing.volatility must be > 0")
	}
	if c.Pricing.InterestRate < 0 {
		return errors.New("pricing.interest_rate must be >= 0")
	}

	if c.Quoting.UnderlyingID == "" {
		return errors.New("quoting.underlying_id is required")
	}
	if c.Quoting.Credit < 0 {
		return errors.New("quoting.credit must be >= 0")
	}
	if c.Quoting.TargetVolume < 1 {
		return errors.New("quoting.target_volume must be >= 1")
	}
	if c.Quoting.PositionLimit < 1 {
		return errors.New("quoting.position_limit must be >= 1")
	}
	if c.Quoting.TickSize <= 0 {
		return errors.New("quoting.tick_size must be > 0")
	}

	if c.Journal.Enabled {
		if err := c.Journal.DB.validate("journal.db"); err != nil {
			return err
		}
		if c.Journal.BatchSize < 1 {
			return errors.New("journal.batch_size must be >= 1")
		}
		if c.Journal.BufferSize < 1 {
			return errors.New("journal.buffer_size must be >= 1")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
