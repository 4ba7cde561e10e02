// Package colsync reconciles column descriptions between two tables.
//
// A read-only source table lends its column descriptions to a writable
// target table. Every target column is paired with at most one source column
// by fuzzy name matching, a description is proposed for it, a reviewer
// approves or overrides each proposal, and only the approved rows that
// actually change something are written to the target. The source table is
// never written.
//
// Example usage:
//
//	client, err := colsync.New(catalog, catalog, colsync.WithMaxDistance(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := client.Plan(ctx, "main.crm.customers", "main.crm.users")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Keep the target's current text for one column and override another.
//	err = session.Review(
//	    decision.Reject("status"),
//	    decision.Propose("email_addr", "Primary contact email"),
//	)
//
//	result, err := session.Apply(ctx)
//	fmt.Println(result.Summary())
package colsync

import (
	"context"
	"fmt"

	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/decision"
	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/schema"
)

// Client creates reconciliation sessions against one catalog.
// Snapshots are read through the reader; the writer is only ever used for
// the target table of a session.
type Client struct {
	reader schema.Reader
	writer schema.Writer
	config *config
	hooks  *hooks
}

// New creates a Client.
func New(reader schema.Reader, writer schema.Writer, opts ...Option) (*Client, error) {
	if reader == nil {
		return nil, &errors.ValidationError{Field: "reader", Message: "cannot be nil"}
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		reader: reader,
		writer: writer,
		config: cfg,
		hooks:  newHooks(),
	}, nil
}

// NewSession creates an idle session for the given tables.
func (c *Client) NewSession(source, target schema.TableID) (*Session, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if source == target {
		return nil, errors.NewValidationError("target", target.String(), "must differ from the source table")
	}
	return &Session{
		client: c,
		source: source,
		target: target,
		state:  StateIdle,
	}, nil
}

// Plan reads both tables, matches their columns and builds the decision set.
func (c *Client) Plan(ctx context.Context, source, target schema.TableID) (*Session, error) {
	s, err := c.NewSession(source, target)
	if err != nil {
		return nil, err
	}
	if err := s.Match(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Resume builds a reviewed session from a decision document. The target is
// re-read so that rows compare against the descriptions it has now. The
// document must hold exactly one row per target column: a row for a column
// that no longer exists, or a target column with no row, fails the resume.
func (c *Client) Resume(ctx context.Context, doc *decision.Document) (*Session, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	ctx = logging.WithTable(ctx, doc.Target.String())
	logger := logging.FromContext(ctx)

	targetSnap, err := c.read(ctx, doc.Target)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[string]decision.Row, len(doc.Rows))
	for _, r := range doc.Rows {
		col, ok := targetSnap.Column(r.TargetColumn)
		if !ok {
			return nil, errors.NewNotFoundError("column", doc.Target.String()+"."+r.TargetColumn)
		}
		if col.Description != r.CurrentDescription {
			logger.Warn().
				Str("column", r.TargetColumn).
				Msg("target description changed since the plan was written")
			r.CurrentDescription = col.Description
		}
		byColumn[r.TargetColumn] = r
	}

	// Rows follow the target's column order.
	rows := make([]decision.Row, 0, len(targetSnap.Columns))
	for _, col := range targetSnap.Columns {
		r, ok := byColumn[col.Name]
		if !ok {
			return nil, errors.NewValidationError("rows", col.Name,
				fmt.Sprintf("decision document has no row for target column %q", col.Name))
		}
		rows = append(rows, r)
	}

	return &Session{
		client:      c,
		source:      doc.Source,
		target:      doc.Target,
		targetSnap:  targetSnap,
		maxDistance: doc.MaxDistance,
		rows:        rows,
		state:       StateReviewed,
	}, nil
}

// OnRowApplied registers a callback run for every row the target accepted.
func (c *Client) OnRowApplied(fn RowAppliedHook) { c.hooks.OnRowApplied(fn) }

// OnRowFailed registers a callback run for every row the target rejected.
func (c *Client) OnRowFailed(fn RowFailedHook) { c.hooks.OnRowFailed(fn) }

func (c *Client) engine() (*apply.Engine, error) {
	return apply.New(c.config.applyOptions...)
}

// read loads one snapshot. Every failure is reported as a missing schema.
func (c *Client) read(ctx context.Context, table schema.TableID) (schema.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.readTimeout)
	defer cancel()

	snap, err := c.reader.ReadSnapshot(ctx, table)
	if err != nil {
		if errors.IsNotFound(err) {
			return schema.Snapshot{}, err
		}
		return schema.Snapshot{}, errors.NewSchemaNotFoundError(table.String(), err)
	}
	return snap, nil
}
