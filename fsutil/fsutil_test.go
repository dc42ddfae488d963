package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lntools/internal/testutil"
	"lntools/table"
)

func TestIsDirIsFile(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "a.txt", "content")

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.True(t, IsFile(file))
	assert.False(t, IsFile(dir))
	assert.False(t, IsFile(filepath.Join(dir, "absent")))
}

func TestHandlePathCreatesParents(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "c.txt")

	got, err := HandlePath(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
	assert.True(t, IsDir(filepath.Join(dir, "a", "b")))
}

func TestMoveCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "src.txt", "payload")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, Move(src, dst, MoveOptions{KeepOld: true}))

	assert.True(t, IsFile(src))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestMoveRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "src.txt", "payload")
	dst := filepath.Join(dir, "sub", "dst.txt")

	require.NoError(t, Move(src, dst, MoveOptions{}))
	assert.False(t, IsFile(src))
	assert.True(t, IsFile(dst))
}

func TestMoveDirectory(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	require.NoError(t, MakeDirs(srcDir))
	testutil.WriteFile(t, srcDir, "inner.txt", "x")

	dst := filepath.Join(dir, "copy")
	require.NoError(t, Move(srcDir, dst, MoveOptions{KeepOld: true}))

	assert.True(t, IsFile(filepath.Join(dst, "inner.txt")))
	assert.True(t, IsDir(srcDir))
}

func TestMoveRejectsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "src.txt", "a")
	dst := testutil.WriteFile(t, dir, "dst.txt", "b")

	err := Move(src, dst, MoveOptions{KeepOld: true})
	require.Error(t, err)

	require.NoError(t, Move(src, dst, MoveOptions{KeepOld: true, ExistOK: true}))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestMoveMissingSource(t *testing.T) {
	err := Move(filepath.Join(t.TempDir(), "absent"), "/tmp/x", MoveOptions{})
	require.Error(t, err)
}

func TestRenameOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "src.txt", "new")
	dst := testutil.WriteFile(t, dir, "dst.txt", "old")

	require.NoError(t, Rename(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, MakeDirs(sub))
	testutil.WriteFile(t, sub, "a.txt", "x")

	require.NoError(t, Remove(sub))
	assert.False(t, IsDir(sub))
	// Removing a missing path is not an error.
	require.NoError(t, Remove(sub))
}

func TestModTime(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "a.txt", "x")

	ts, err := ModTime(file)
	require.NoError(t, err)
	assert.False(t, ts.IsZero())

	_, err = ModTime(filepath.Join(dir, "absent"))
	require.Error(t, err)
}

func TestFileTime(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "a.txt", "x")

	mtime, err := FileTime(file, "m")
	require.NoError(t, err)
	assert.False(t, mtime.IsZero())

	// Empty method defaults to modification time.
	def, err := FileTime(file, "")
	require.NoError(t, err)
	assert.True(t, mtime.Equal(def))

	atime, err := FileTime(file, "a")
	require.NoError(t, err)
	assert.False(t, atime.IsZero())

	ctime, err := FileTime(file, "c")
	require.NoError(t, err)
	assert.False(t, ctime.IsZero())

	_, err = FileTime(file, "z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time method")

	_, err = FileTime(filepath.Join(dir, "absent"), "a")
	require.Error(t, err)
}

func TestListPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, MakeDirs(sub))
	testutil.WriteFile(t, dir, "a.txt", "x")
	testutil.WriteFile(t, sub, "b.txt", "y")

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	dirs, err := Dirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{sub}, dirs)

	all, err := ListPaths(dir, false, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = ListPaths(filepath.Join(dir, "absent"), false, false)
	require.Error(t, err)
}

func TestFileHandle(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "quotes.csv",
		[]string{"symbol", "price"}, [][]string{{"AAA", "10.5"}})

	f, err := NewFile(filepath.Join(dir, "quotes.csv"))
	require.NoError(t, err)

	assert.Equal(t, "quotes.csv", f.Base)
	assert.Equal(t, "quotes", f.Stem)
	assert.Equal(t, ".csv", f.Ext)
	assert.Equal(t, dir, f.Dir)
	assert.True(t, f.Exists())

	got, err := f.Read(table.EngineRecords)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestFileHandleMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
