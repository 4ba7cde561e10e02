package colsync

import (
	"context"
	"sync"

	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/matcher"
	"github.com/agentstation/colsync/pkg/schema"
)

// State is the lifecycle position of a Session.
type State string

// Sessions move Idle -> Matched -> Reviewed -> Applied. There is no way
// back; re-planning creates a new session.
const (
	StateIdle     State = "idle"
	StateMatched  State = "matched"
	StateReviewed State = "reviewed"
	StateApplied  State = "applied"
)

// Session is one reconciliation of a source table into a target table.
// It owns the snapshots and everything derived from them.
type Session struct {
	mu     sync.RWMutex
	client *Client

	source schema.TableID
	target schema.TableID

	sourceSnap  schema.Snapshot
	targetSnap  schema.Snapshot
	maxDistance int
	matches     []matcher.MatchPair
	rows        []decision.Row

	state  State
	result *apply.Result
}

// Source returns the source table.
func (s *Session) Source() schema.TableID { return s.source }

// Target returns the target table.
func (s *Session) Target() schema.TableID { return s.target }

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Matches returns the match pairs, one per target column.
func (s *Session) Matches() []matcher.MatchPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]matcher.MatchPair(nil), s.matches...)
}

// Rows returns a copy of the current decision rows.
func (s *Session) Rows() []decision.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]decision.Row(nil), s.rows...)
}

// Stats summarizes the current decision rows.
func (s *Session) Stats() decision.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decision.Summarize(s.rows)
}

// Result returns the apply result, or nil before Apply.
func (s *Session) Result() *apply.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Match reads both snapshots, pairs their columns and builds the decision
// rows. A read failure aborts before any matching.
func (s *Session) Match(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return errors.NewStateError(string(s.state), "match")
	}

	ctx = logging.WithSession(ctx, s.source.String(), s.target.String())
	ctx = logging.WithOperation(ctx, "match")
	logger := logging.FromContext(ctx)

	src, err := s.client.read(ctx, s.source)
	if err != nil {
		return err
	}
	tgt, err := s.client.read(ctx, s.target)
	if err != nil {
		return err
	}

	cfg := s.client.config
	pairs, err := matcher.Match(src, tgt, cfg.maxDistance,
		matcher.WithConcurrency(cfg.matchConcurrency),
		matcher.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	rows, err := decision.Build(pairs, tgt, src)
	if err != nil {
		return err
	}

	s.sourceSnap, s.targetSnap = src, tgt
	s.maxDistance = cfg.maxDistance
	s.matches, s.rows = pairs, rows
	s.state = StateMatched

	stats := decision.Summarize(rows)
	logger.Info().
		Int("columns", stats.Total).
		Int("matched", stats.Matched).
		Int("to_change", stats.Changed).
		Msg("decision set built")
	return nil
}

// Review applies reviewer edits. Later edits of a column win.
func (s *Session) Review(edits ...decision.Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reviewable("review"); err != nil {
		return err
	}
	rows, err := decision.Review(s.rows, edits)
	if err != nil {
		return err
	}
	s.rows = rows
	s.state = StateReviewed
	return nil
}

// Replace accepts rows edited by an external review surface. The rows must
// keep cardinality, order and every field except Approved and
// ProposedDescription.
func (s *Session) Replace(rows []decision.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reviewable("replace rows"); err != nil {
		return err
	}
	if err := decision.Verify(s.rows, rows); err != nil {
		return err
	}
	s.rows = append([]decision.Row(nil), rows...)
	s.state = StateReviewed
	return nil
}

func (s *Session) reviewable(op string) error {
	if s.state != StateMatched && s.state != StateReviewed {
		return errors.NewStateError(string(s.state), op)
	}
	return nil
}

// Document returns the decision rows in their serializable form.
func (s *Session) Document() *decision.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decision.NewDocument(s.source, s.target, s.maxDistance, append([]decision.Row(nil), s.rows...))
}

// Apply writes the approved rows to the target table. A session applies at
// most once; row failures are reported in the result, not as an error.
// A dry run leaves the session reviewable.
func (s *Session) Apply(ctx context.Context) (*apply.Result, error) {
	s.mu.Lock()
	if err := s.reviewable("apply"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	engine, err := s.client.engine()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	ctx = logging.WithSession(ctx, s.source.String(), s.target.String())
	ctx = logging.WithOperation(ctx, "apply")
	result := engine.Apply(ctx, s.target, s.rows, s.client.writer)

	s.result = result
	if !engine.DryRun() {
		s.state = StateApplied
	}
	s.mu.Unlock()

	s.client.hooks.trigger(result)
	return result, nil
}
