// Package pattern filters table identifiers with glob or regex patterns.
package pattern

import (
	"path"
	"regexp"
	"strings"

	"github.com/agentstation/colsync/pkg/errors"
	"github.com/agentstation/colsync/pkg/schema"
)

// Kind is the pattern syntax.
type Kind int

const (
	// Glob uses shell-style patterns (*, ?, []); * also crosses dots.
	Glob Kind = iota
	// Regex uses Go regular expressions, unanchored.
	Regex
	// Auto picks Regex when the pattern uses regex-only syntax, else Glob.
	Auto
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Pattern is a compiled, case-insensitive table filter.
type Pattern struct {
	raw  string
	kind Kind
	glob string
	re   *regexp.Regexp
}

// Compile parses raw as a pattern of the given kind.
func Compile(raw string, kind Kind) (*Pattern, error) {
	if kind == Auto {
		kind = detect(raw)
	}
	p := &Pattern{raw: raw, kind: kind}

	switch kind {
	case Glob:
		p.glob = strings.ToLower(raw)
		if _, err := path.Match(p.glob, ""); err != nil {
			return nil, errors.NewValidationError("filter", raw, "invalid glob pattern: "+err.Error())
		}
	case Regex:
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return nil, errors.NewValidationError("filter", raw, "invalid regex pattern: "+err.Error())
		}
		p.re = re
	default:
		return nil, errors.NewValidationError("filter", kind.String(), "unsupported pattern kind")
	}
	return p, nil
}

// Kind returns the resolved syntax.
func (p *Pattern) Kind() Kind { return p.kind }

// String returns the pattern as written.
func (p *Pattern) String() string { return p.raw }

// Match reports whether s matches.
func (p *Pattern) Match(s string) bool {
	if p.kind == Regex {
		return p.re.MatchString(s)
	}
	ok, _ := path.Match(p.glob, strings.ToLower(s))
	return ok
}

// Tables returns the identifiers that match p, in order.
func (p *Pattern) Tables(ids []schema.TableID) []schema.TableID {
	out := make([]schema.TableID, 0, len(ids))
	for _, id := range ids {
		if p.Match(id.String()) {
			out = append(out, id)
		}
	}
	return out
}

// detect treats the pattern as a regex if it uses syntax globs lack.
func detect(raw string) Kind {
	for _, indicator := range []string{"^", "$", `\d`, `\w`, `\s`, "(?", "{", "}", "+", "|", "(", ")"} {
		if strings.Contains(raw, indicator) {
			return Regex
		}
	}
	return Glob
}
