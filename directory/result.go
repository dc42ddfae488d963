package directory

import (
	"lntools/table"
)

// Status tags the outcome of reading exactly one file. Empty data and
// recovered failures are kept distinguishable so callers can apply their
// own tolerance policy instead of inheriting silent failure.
type Status int

const (
	// StatusOK means the file was read and produced at least one row.
	StatusOK Status = iota
	// StatusEmpty means the file was read successfully but held no rows.
	StatusEmpty
	// StatusFailed means the read failed and was recovered into an empty
	// contribution.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one file read. Table is nil unless
// Status is StatusOK; Err is nil unless Status is StatusFailed.
type Outcome struct {
	Path   string
	Status Status
	Table  table.Table
	Err    error
}

// Result is what a directory read returns: the combined table plus the
// per-file evidence behind it. Table is never nil; when nothing survived
// aggregation it is an explicitly empty table for the chosen engine.
type Result struct {
	// Table is the relaxed-schema concatenation of all OK outcomes, in
	// resolved file order.
	Table table.Table
	// Outcomes holds one tagged entry per existing file, in resolved
	// file order regardless of completion order.
	Outcomes []Outcome
	// Missing lists expected filenames absent from the directory.
	Missing []string
}

// Failed returns the outcomes of files whose reads were recovered.
func (r *Result) Failed() []Outcome {
	return r.filter(StatusFailed)
}

// Empties returns the outcomes of files that parsed to zero rows.
func (r *Result) Empties() []Outcome {
	return r.filter(StatusEmpty)
}

func (r *Result) filter(s Status) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}
