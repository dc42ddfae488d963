package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// ReadFunc reads a single file into a table.
type ReadFunc func(path string) (Table, error)

// UnsupportedFormatError reports a (engine, extension) pair with no
// registered reader.
type UnsupportedFormatError struct {
	Engine    Engine
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q for engine %q", e.Extension, e.Engine)
}

// readers maps (engine, extension) to the reader function to apply,
// mirroring the per-extension dispatch the rest of the library relies on.
var readers = map[Engine]map[string]ReadFunc{
	EngineRecords: {
		".csv":  readRecordsCSV,
		".txt":  readRecordsCSV,
		".json": readRecordsJSON,
		".xlsx": readRecordsExcel,
	},
	EngineFrame: {
		".csv":  readFrameCSV,
		".txt":  readFrameCSV,
		".json": readFrameJSON,
		".xlsx": readFrameExcel,
	},
}

// ReaderFor resolves the reader registered for the engine and file
// extension. The extension match is case-insensitive. A lookup miss
// returns *UnsupportedFormatError.
func ReaderFor(engine Engine, ext string) (ReadFunc, error) {
	byExt, ok := readers[engine]
	if !ok {
		return nil, fmt.Errorf("unsupported engine: %q", engine)
	}
	fn, ok := byExt[strings.ToLower(ext)]
	if !ok {
		return nil, &UnsupportedFormatError{Engine: engine, Extension: ext}
	}
	return fn, nil
}

// ReadFile reads one file with the reader registered for its extension.
func ReadFile(path string, engine Engine) (Table, error) {
	fn, err := ReaderFor(engine, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return fn(path)
}

func readRecordsCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return Empty(EngineRecords), nil
	}
	return NewRecords(records[0], records[1:])
}

func readRecordsJSON(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(objects) == 0 {
		return Empty(EngineRecords), nil
	}

	// Column order: sorted keys per object, union in first-seen order, so
	// identical files always produce identical tables.
	var cols []string
	index := make(map[string]int)
	for _, obj := range objects {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(cols)
				cols = append(cols, k)
			}
		}
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(cols))
		for k, v := range obj {
			row[index[k]] = jsonCell(v)
		}
		rows[i] = row
	}
	return &Records{cols: cols, rows: rows}, nil
}

func jsonCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		// Trim the ".0" float artifacts off integral values.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func readRecordsExcel(path string) (Table, error) {
	records, err := excelRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return Empty(EngineRecords), nil
	}
	return NewRecords(records[0], records[1:])
}

func readFrameCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return NewFrame(dataframe.ReadCSV(f))
}

func readFrameJSON(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return NewFrame(dataframe.ReadJSON(f))
}

func readFrameExcel(path string) (Table, error) {
	records, err := excelRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return Empty(EngineFrame), nil
	}
	return frameFromRecords(records)
}

// excelRecords extracts the active sheet of a workbook as string records.
// Short rows are padded to the header width.
func excelRecords(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("row %d of %s wider than header (%d > %d)", i, path, len(row), width)
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows, nil
}
