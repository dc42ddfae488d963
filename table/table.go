package table

import (
	"fmt"
	"strings"
)

// Engine selects the in-memory tabular backend.
type Engine string

const (
	// EngineRecords is the row-oriented backend built on the standard
	// csv/json parsers plus excelize. It is the default engine.
	EngineRecords Engine = "records"
	// EngineFrame is the gota dataframe backend.
	EngineFrame Engine = "frame"
)

// engines lists the valid engine names.
var engines = map[Engine]bool{
	EngineRecords: true,
	EngineFrame:   true,
}

// Table is the capability the reader and aggregator depend on. Concrete
// backends stay behind this interface so neither ever names a backend.
type Table interface {
	// Engine reports which backend produced the table.
	Engine() Engine
	// Columns returns the column names in order.
	Columns() []string
	// Len returns the number of data rows.
	Len() int
	// IsEmpty reports whether the table holds no data rows.
	IsEmpty() bool
	// Records returns the table as a header row followed by data rows.
	Records() [][]string
}

// ParseEngine validates an engine name. An empty name resolves to the
// default records engine.
func ParseEngine(name string) (Engine, error) {
	if name == "" {
		return EngineRecords, nil
	}
	e := Engine(strings.ToLower(name))
	if !engines[e] {
		return "", fmt.Errorf("unsupported engine: %q (valid: records, frame)", name)
	}
	return e, nil
}

// Empty returns an explicitly empty, valid table for the given engine.
func Empty(engine Engine) Table {
	if engine == EngineFrame {
		return &Frame{}
	}
	return &Records{}
}

// ConcatenationError reports that the underlying concatenation step itself
// failed, which indicates incompatible data beyond what the relaxed-schema
// union can absorb.
type ConcatenationError struct {
	Engine Engine
	Err    error
}

func (e *ConcatenationError) Error() string {
	return fmt.Sprintf("failed to concatenate %s tables: %v", e.Engine, e.Err)
}

func (e *ConcatenationError) Unwrap() error { return e.Err }

// Concat combines tables into one using a relaxed-schema union: the result
// carries the union of all column sets in first-seen order, and cells a
// contributing table lacks are filled with the empty marker. Empty tables
// are dropped first; concatenating nothing yields an explicitly empty
// table, never nil.
func Concat(engine Engine, tables []Table) (Table, error) {
	live := make([]Table, 0, len(tables))
	for _, t := range tables {
		if t == nil || t.IsEmpty() {
			continue
		}
		live = append(live, t)
	}
	if len(live) == 0 {
		return Empty(engine), nil
	}
	if engine == EngineFrame {
		return concatFrames(live)
	}
	return concatRecords(live)
}

// Records is the row-oriented backend. Rows are aligned with the column
// order; the zero value is an empty table.
type Records struct {
	cols []string
	rows [][]string
}

// NewRecords builds a records table. Rows shorter than the column set are
// padded; longer rows are an error.
func NewRecords(cols []string, rows [][]string) (*Records, error) {
	for i, row := range rows {
		if len(row) > len(cols) {
			return nil, fmt.Errorf("row %d has %d cells but only %d columns", i, len(row), len(cols))
		}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		aligned := make([]string, len(cols))
		copy(aligned, row)
		out[i] = aligned
	}
	return &Records{cols: append([]string(nil), cols...), rows: out}, nil
}

func (r *Records) Engine() Engine { return EngineRecords }

func (r *Records) Columns() []string { return append([]string(nil), r.cols...) }

func (r *Records) Len() int { return len(r.rows) }

func (r *Records) IsEmpty() bool { return len(r.rows) == 0 }

func (r *Records) Records() [][]string {
	out := make([][]string, 0, len(r.rows)+1)
	out = append(out, append([]string(nil), r.cols...))
	for _, row := range r.rows {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

func concatRecords(tables []Table) (Table, error) {
	// Union of columns in first-seen order.
	var cols []string
	seen := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns() {
			if _, ok := seen[c]; !ok {
				seen[c] = len(cols)
				cols = append(cols, c)
			}
		}
	}

	var rows [][]string
	for _, t := range tables {
		recs := t.Records()
		if len(recs) == 0 {
			continue
		}
		header := recs[0]
		if len(header) > len(cols) {
			return nil, &ConcatenationError{
				Engine: EngineRecords,
				Err:    fmt.Errorf("table header wider than column union (%d > %d)", len(header), len(cols)),
			}
		}
		for _, rec := range recs[1:] {
			if len(rec) > len(header) {
				return nil, &ConcatenationError{
					Engine: EngineRecords,
					Err:    fmt.Errorf("row has %d cells but header has %d", len(rec), len(header)),
				}
			}
			row := make([]string, len(cols))
			for i, cell := range rec {
				row[seen[header[i]]] = cell
			}
			rows = append(rows, row)
		}
	}
	return &Records{cols: cols, rows: rows}, nil
}
