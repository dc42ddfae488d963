package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"lntools/table"
)

// File is a handle to one local file with its name parts split out.
type File struct {
	// Path is the absolute file path.
	Path string
	// Dir is the containing directory.
	Dir string
	// Base is the file name with extension.
	Base string
	// Stem is the file name without extension.
	Stem string
	// Ext is the extension including the dot.
	Ext string
}

// NewFile resolves the path and verifies the file exists.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !IsFile(abs) {
		return nil, fmt.Errorf("file not found: %s", abs)
	}
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	return &File{
		Path: abs,
		Dir:  filepath.Dir(abs),
		Base: base,
		Stem: strings.TrimSuffix(base, ext),
		Ext:  ext,
	}, nil
}

// Exists reports whether the file still exists.
func (f *File) Exists() bool {
	return IsFile(f.Path)
}

// Read loads the file through the reader registered for its extension.
func (f *File) Read(engine table.Engine) (table.Table, error) {
	return table.ReadFile(f.Path, engine)
}
