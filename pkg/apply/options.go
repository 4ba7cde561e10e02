package apply

import (
	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
)

type options struct {
	skipUnchanged bool
	concurrency   int
	dryRun        bool
}

func defaultOptions() *options {
	return &options{
		skipUnchanged: true,
		concurrency:   constants.DefaultApplyConcurrency,
	}
}

// Option configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSkipUnchanged controls whether approved rows whose proposal equals the
// current description are skipped. It is on by default.
func WithSkipUnchanged(skip bool) Option {
	return func(o *options) error {
		o.skipUnchanged = skip
		return nil
	}
}

// WithConcurrency bounds how many column updates run at once.
// The default of 1 issues updates one after another.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "concurrency",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.concurrency = n
		return nil
	}
}

// WithDryRun classifies rows without calling the writer.
func WithDryRun(dryRun bool) Option {
	return func(o *options) error {
		o.dryRun = dryRun
		return nil
	}
}
