package matcher

import (
	"context"

	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/similarity"
)

type options struct {
	ctx         context.Context
	concurrency int
	scorer      similarity.Scorer
}

func defaultOptions() *options {
	return &options{
		ctx:         context.Background(),
		concurrency: constants.DefaultMatchConcurrency,
	}
}

// Option configures a Match call.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithConcurrency sets how many target columns have their candidates
// scored at once. Assignment is always serialized, so the result does not
// depend on n.
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

// WithContext sets the context used for cancellation and logging.
func WithContext(ctx context.Context) Option {
	return func(o *options) error {
		if ctx == nil {
			return &errors.ValidationError{
				Field:   "context",
				Message: "cannot be nil",
			}
		}
		o.ctx = ctx
		return nil
	}
}

// WithScorer replaces the similarity scorer.
func WithScorer(s similarity.Scorer) Option {
	return func(o *options) error {
		o.scorer = s
		return nil
	}
}
