// Package matcher pairs every target column with at most one source column.
//
// Pairing is one-to-one and greedy. Target columns are visited in snapshot
// order and each takes the closest still-available source column whose edit
// distance is within the threshold, ties going to the earliest source column.
// Before the greedy pass, exact name matches (after normalization) reserve
// their source column so that an exact match can never be taken by a fuzzy
// match of an earlier target column.
//
// Greedy assignment is not globally optimal: a target visited early may take
// a source that a later target would have matched more closely.
package matcher

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/logging"
	"github.com/agentstation/colsync/pkg/schema"
)

// NoDistance is the Distance of an unmatched pair.
const NoDistance = -1

// MatchPair is the matching decision for one target column.
type MatchPair struct {
	Target   string `json:"target" yaml:"target"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Distance int    `json:"distance" yaml:"distance"`
	Matched  bool   `json:"matched" yaml:"matched"`
}

// String implements fmt.Stringer.
func (p MatchPair) String() string {
	if !p.Matched {
		return p.Target + " -> (none)"
	}
	return fmt.Sprintf("%s -> %s (%d)", p.Target, p.Source, p.Distance)
}

// candidate is an eligible source column for one target.
type candidate struct {
	source   int // index into the source snapshot
	distance int
}

// Match pairs the columns of target with columns of source.
// It returns exactly one pair per target column, in target order.
func Match(source, target schema.Snapshot, maxDistance int, opts ...Option) ([]MatchPair, error) {
	if maxDistance < 0 {
		return nil, errors.NewValidationError("max_distance", maxDistance, "must not be negative")
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if err := source.Validate(schema.RoleSource); err != nil {
		return nil, err
	}
	if err := target.Validate(schema.RoleTarget); err != nil {
		return nil, err
	}

	logger := logging.FromContext(o.ctx)

	srcNorm := make([]string, len(source.Columns))
	for i, c := range source.Columns {
		srcNorm[i] = o.scorer.Normalize(c.Name)
	}

	candidates, err := o.rank(srcNorm, target, maxDistance)
	if err != nil {
		return nil, err
	}

	used := make([]bool, len(source.Columns))
	reserved := reserveExact(source, target, candidates, used)

	pairs := make([]MatchPair, len(target.Columns))
	for ti, col := range target.Columns {
		pick := -1
		dist := NoDistance
		if si, ok := reserved[ti]; ok {
			pick, dist = si, 0
		} else {
			for _, c := range candidates[ti] {
				if !used[c.source] {
					pick, dist = c.source, c.distance
					break
				}
			}
		}

		if pick < 0 {
			pairs[ti] = MatchPair{Target: col.Name, Distance: NoDistance}
			logger.Debug().Str("column", col.Name).Msg("no source column within threshold")
			continue
		}

		used[pick] = true
		pairs[ti] = MatchPair{
			Target:   col.Name,
			Source:   source.Columns[pick].Name,
			Distance: dist,
			Matched:  true,
		}
		logger.Debug().
			Str("column", col.Name).
			Str("source_column", source.Columns[pick].Name).
			Int("distance", dist).
			Msg("matched column")
	}

	return pairs, nil
}

// rank computes, for every target column, the eligible source columns ordered
// by distance and then by source position.
func (o *options) rank(srcNorm []string, target schema.Snapshot, maxDistance int) ([][]candidate, error) {
	out := make([][]candidate, len(target.Columns))

	g, ctx := errgroup.WithContext(o.ctx)
	g.SetLimit(o.concurrency)

	for ti, col := range target.Columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tn := o.scorer.Normalize(col.Name)
			var list []candidate
			for si, sn := range srcNorm {
				if d, ok := o.scorer.Within(tn, sn, maxDistance); ok {
					list = append(list, candidate{source: si, distance: d})
				}
			}
			sort.SliceStable(list, func(i, j int) bool {
				if list[i].distance != list[j].distance {
					return list[i].distance < list[j].distance
				}
				return list[i].source < list[j].source
			})
			out[ti] = list
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// reserveExact gives every target column with an exact match its first free
// exact source column and marks that source as used. Byte-identical names are
// reserved before names that are only equal after normalization.
func reserveExact(source, target schema.Snapshot, candidates [][]candidate, used []bool) map[int]int {
	reserved := make(map[int]int)
	pass := func(accept func(ti, si int) bool) {
		for ti, list := range candidates {
			if _, ok := reserved[ti]; ok {
				continue
			}
			for _, c := range list {
				if c.distance != 0 {
					break
				}
				if !used[c.source] && accept(ti, c.source) {
					used[c.source] = true
					reserved[ti] = c.source
					break
				}
			}
		}
	}
	pass(func(ti, si int) bool { return target.Columns[ti].Name == source.Columns[si].Name })
	pass(func(int, int) bool { return true })
	return reserved
}

// Stats counts matched and unmatched pairs.
func Stats(pairs []MatchPair) (matched, unmatched int) {
	for _, p := range pairs {
		if p.Matched {
			matched++
		} else {
			unmatched++
		}
	}
	return matched, unmatched
}
