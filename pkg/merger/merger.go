// Package merger derives the proposed description for a target column.
//
// The policy is fixed: the target's own description wins, then the matched
// source column's description, otherwise the empty string. Only the empty
// string counts as empty; whitespace is kept as written.
package merger

import (
	"github.com/agentstation/colsync/pkg/schema"
)

// Origin records which side a proposal came from.
type Origin string

const (
	// OriginTarget means the target kept its own description.
	OriginTarget Origin = "target"
	// OriginSource means the description was borrowed from the matched source column.
	OriginSource Origin = "source"
	// OriginNone means neither side had a description.
	OriginNone Origin = "none"
)

// Propose returns the proposed description for target. source is nil when
// the target column has no match.
func Propose(target schema.ColumnDescriptor, source *schema.ColumnDescriptor) string {
	text, _ := Resolve(target, source)
	return text
}

// Resolve is Propose that also reports where the text came from.
func Resolve(target schema.ColumnDescriptor, source *schema.ColumnDescriptor) (string, Origin) {
	if target.HasDescription() {
		return target.Description, OriginTarget
	}
	if source != nil && source.HasDescription() {
		return source.Description, OriginSource
	}
	return "", OriginNone
}
