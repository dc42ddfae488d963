package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Append    bool
	BOMPrefix bool // add a UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a table to a CSV file, creating parent directories as
// needed. The header row is omitted when appending to an existing file.
func WriteCSV(t Table, path string, opts WriteOptions) error {
	if t == nil {
		return fmt.Errorf("nil table")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	writeHeader := true
	if opts.Append {
		flags |= os.O_APPEND
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			writeHeader = false
		}
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if opts.BOMPrefix && writeHeader {
		if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	w := csv.NewWriter(f)
	records := t.Records()
	if !writeHeader && len(records) > 0 {
		records = records[1:]
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
