package colsync

import (
	"time"

	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
)

// config holds Client settings.
type config struct {
	maxDistance      int
	matchConcurrency int
	readTimeout      time.Duration
	applyOptions     []apply.Option
}

func defaultConfig() *config {
	return &config{
		maxDistance:      constants.DefaultMaxDistance,
		matchConcurrency: constants.DefaultMatchConcurrency,
		readTimeout:      constants.ReadSchemaTimeout,
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	// Apply options are checked once here.
	if _, err := apply.New(c.applyOptions...); err != nil {
		return nil, err
	}
	return c, nil
}

// Option is a function that configures a Client.
type Option func(*config) error

// WithMaxDistance sets the largest edit distance at which two column names match.
func WithMaxDistance(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return errors.NewValidationError("max_distance", n, "must not be negative")
		}
		c.maxDistance = n
		return nil
	}
}

// WithMatchConcurrency sets how many target columns are scored in parallel.
func WithMatchConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("match.concurrency", n, "must be at least 1")
		}
		c.matchConcurrency = n
		return nil
	}
}

// WithReadTimeout bounds reading one table's columns.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewValidationError("read_timeout", d, "must be positive")
		}
		c.readTimeout = d
		return nil
	}
}

// WithApplyOptions passes options to the apply engine.
func WithApplyOptions(opts ...apply.Option) Option {
	return func(c *config) error {
		c.applyOptions = append(c.applyOptions, opts...)
		return nil
	}
}
