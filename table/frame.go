package table

import (
	"github.com/go-gota/gota/dataframe"
)

// Frame is the gota dataframe backend. The zero value is an empty table.
type Frame struct {
	df    dataframe.DataFrame
	valid bool
}

// NewFrame wraps a gota dataframe. The dataframe's own error state is
// surfaced here so a failed load never masquerades as data.
func NewFrame(df dataframe.DataFrame) (*Frame, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Frame{df: df, valid: true}, nil
}

// DataFrame exposes the underlying gota dataframe for callers that want to
// continue with gota's own API.
func (f *Frame) DataFrame() dataframe.DataFrame { return f.df }

func (f *Frame) Engine() Engine { return EngineFrame }

func (f *Frame) Columns() []string {
	if !f.valid {
		return nil
	}
	return f.df.Names()
}

func (f *Frame) Len() int {
	if !f.valid {
		return 0
	}
	return f.df.Nrow()
}

func (f *Frame) IsEmpty() bool { return f.Len() == 0 }

func (f *Frame) Records() [][]string {
	if !f.valid {
		return nil
	}
	return f.df.Records()
}

func concatFrames(tables []Table) (Table, error) {
	frames := make([]dataframe.DataFrame, 0, len(tables))
	for _, t := range tables {
		f, ok := t.(*Frame)
		if !ok {
			// Mixed backends: rebuild through the records form.
			f2, err := frameFromRecords(t.Records())
			if err != nil {
				return nil, &ConcatenationError{Engine: EngineFrame, Err: err}
			}
			frames = append(frames, f2.df)
			continue
		}
		frames = append(frames, f.df)
	}

	out := frames[0]
	for _, df := range frames[1:] {
		out = out.Concat(df)
		if out.Err != nil {
			return nil, &ConcatenationError{Engine: EngineFrame, Err: out.Err}
		}
	}
	return &Frame{df: out, valid: true}, nil
}

func frameFromRecords(records [][]string) (*Frame, error) {
	df := dataframe.LoadRecords(records)
	return NewFrame(df)
}
