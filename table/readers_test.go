package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lntools/internal/testutil"
)

func TestReaderForDispatch(t *testing.T) {
	tests := []struct {
		name    string
		engine  Engine
		ext     string
		wantErr bool
	}{
		{name: "records csv", engine: EngineRecords, ext: ".csv"},
		{name: "records txt", engine: EngineRecords, ext: ".txt"},
		{name: "records json", engine: EngineRecords, ext: ".json"},
		{name: "records xlsx", engine: EngineRecords, ext: ".xlsx"},
		{name: "frame csv", engine: EngineFrame, ext: ".csv"},
		{name: "uppercase extension", engine: EngineRecords, ext: ".CSV"},
		{name: "unsupported extension", engine: EngineRecords, ext: ".parquet", wantErr: true},
		// Legacy BIFF workbooks are not parseable by the xlsx reader, so
		// the extension is a dispatch miss rather than a runtime failure.
		{name: "legacy xls records", engine: EngineRecords, ext: ".xls", wantErr: true},
		{name: "legacy xls frame", engine: EngineFrame, ext: ".xls", wantErr: true},
		{name: "unsupported engine", engine: Engine("pandas"), ext: ".csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := ReaderFor(tt.engine, tt.ext)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}

func TestUnsupportedFormatErrorDetails(t *testing.T) {
	_, err := ReaderFor(EngineRecords, ".npy")
	var ufe *UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, EngineRecords, ufe.Engine)
	assert.Equal(t, ".npy", ufe.Extension)
}

func TestReadFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "data.csv",
		[]string{"symbol", "price"},
		[][]string{{"AAA", "10.5"}, {"BBB", "20.1"}})

	for _, engine := range []Engine{EngineRecords, EngineFrame} {
		got, err := ReadFile(path, engine)
		require.NoError(t, err, "engine %s", engine)
		assert.Equal(t, 2, got.Len())
		assert.Equal(t, []string{"symbol", "price"}, got.Columns())
	}
}

func TestReadFileCSVDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "data.csv",
		[]string{"a", "b"}, [][]string{{"1", "2"}})

	first, err := ReadFile(path, EngineRecords)
	require.NoError(t, err)
	second, err := ReadFile(path, EngineRecords)
	require.NoError(t, err)
	assert.Equal(t, first.Records(), second.Records())
}

func TestReadFileRaggedCSVFails(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bad.csv", "a,b,c\n1\n")

	_, err := ReadFile(path, EngineRecords)
	require.Error(t, err)
}

func TestReadFileEmptyCSV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "empty.csv", "")

	got, err := ReadFile(path, EngineRecords)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestReadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "data.json",
		`[{"symbol":"AAA","price":10.5},{"symbol":"BBB","price":20,"volume":7}]`)

	got, err := ReadFile(path, EngineRecords)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.ElementsMatch(t, []string{"symbol", "price", "volume"}, got.Columns())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"), EngineRecords)
	require.Error(t, err)
}

func TestReadFileExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"symbol", "price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"AAA", "10.5"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"BBB", "20.1"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	for _, engine := range []Engine{EngineRecords, EngineFrame} {
		got, err := ReadFile(path, engine)
		require.NoError(t, err, "engine %s", engine)
		assert.Equal(t, 2, got.Len())
		assert.Equal(t, []string{"symbol", "price"}, got.Columns())
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := mustRecords(t, []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	path := filepath.Join(dir, "out", "data.csv")

	require.NoError(t, WriteCSV(src, path, WriteOptions{}))

	got, err := ReadFile(path, EngineRecords)
	require.NoError(t, err)
	assert.Equal(t, src.Records(), got.Records())
}

func TestWriteCSVAppendSkipsHeader(t *testing.T) {
	dir := t.TempDir()
	src := mustRecords(t, []string{"a"}, [][]string{{"1"}})
	path := filepath.Join(dir, "data.csv")

	require.NoError(t, WriteCSV(src, path, WriteOptions{}))
	require.NoError(t, WriteCSV(src, path, WriteOptions{Append: true}))

	got, err := ReadFile(path, EngineRecords)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}
