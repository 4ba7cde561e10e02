package colsync

import (
	"sync"

	"github.com/agentstation/colsync/pkg/apply"
	"github.com/agentstation/colsync/pkg/schema"
)

// Hook function types for apply events
type (
	// RowAppliedHook is called when the target accepts a column update
	RowAppliedHook func(table schema.TableID, row apply.RowResult)

	// RowFailedHook is called when the target rejects a column update
	RowFailedHook func(table schema.TableID, row apply.RowResult)
)

// hooks manages apply callbacks
type hooks struct {
	mu           sync.RWMutex
	onRowApplied []RowAppliedHook
	onRowFailed  []RowFailedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRowApplied registers a callback for accepted updates
func (h *hooks) OnRowApplied(fn RowAppliedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRowApplied = append(h.onRowApplied, fn)
}

// OnRowFailed registers a callback for rejected updates
func (h *hooks) OnRowFailed(fn RowFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRowFailed = append(h.onRowFailed, fn)
}

// trigger runs the registered hooks for every written row of the result
func (h *hooks) trigger(result *apply.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, row := range result.Rows {
		switch row.Outcome {
		case apply.OutcomeApplied:
			for _, fn := range h.onRowApplied {
				fn(result.Table, row)
			}
		case apply.OutcomeFailed:
			for _, fn := range h.onRowFailed {
				fn(result.Table, row)
			}
		}
	}
}
