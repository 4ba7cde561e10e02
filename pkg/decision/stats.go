package decision

import "fmt"

// Stats summarizes a decision set.
type Stats struct {
	Total    int `json:"total" yaml:"total"`       // rows, one per target column
	Approved int `json:"approved" yaml:"approved"` // rows marked for update
	Matched  int `json:"matched" yaml:"matched"`   // rows with a source column
	Changed  int `json:"changed" yaml:"changed"`   // approved rows that would alter the target
}

// Summarize counts rows.
func Summarize(rows []Row) Stats {
	s := Stats{Total: len(rows)}
	for _, r := range rows {
		if r.Approved {
			s.Approved++
		}
		if r.Matched {
			s.Matched++
		}
		if r.Pending() {
			s.Changed++
		}
	}
	return s
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("%d columns, %d matched, %d approved, %d to change",
		s.Total, s.Matched, s.Approved, s.Changed)
}
