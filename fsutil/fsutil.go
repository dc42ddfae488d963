// Package fsutil wraps common filesystem chores: path preparation,
// move/copy/rename/remove, timestamps, and recursive listing.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	cp "github.com/otiai10/copy"
	"golang.org/x/sys/unix"
)

// IsDir reports whether the path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether the path is an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// HandlePath expands ~, absolutizes the path, and creates its parent
// directories so the path is ready to be written to.
func HandlePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("failed to create parent directories: %w", err)
	}
	return abs, nil
}

// MakeDirs creates a directory and any missing parents.
func MakeDirs(path string) error {
	return os.MkdirAll(path, 0755)
}

// MoveOptions controls Move behavior.
type MoveOptions struct {
	// KeepOld copies instead of moving.
	KeepOld bool
	// ExistOK allows overwriting an existing destination.
	ExistOK bool
}

// Move transfers a file or directory to dst. With KeepOld the source is
// copied; otherwise it is renamed (with a copy+remove fallback across
// filesystems).
func Move(src, dst string, opts MoveOptions) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source path does not exist: %s", src)
	}
	if !opts.ExistOK {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination already exists: %s", dst)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination parent: %w", err)
	}

	if opts.KeepOld {
		if info.IsDir() {
			return cp.Copy(src, dst)
		}
		return copyFile(src, dst)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Cross-device rename: copy then remove.
	if info.IsDir() {
		if err := cp.Copy(src, dst); err != nil {
			return err
		}
	} else if err := copyFile(src, dst); err != nil {
		return err
	}
	return Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// Rename moves src to dst, overwriting dst if present.
func Rename(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source path does not exist: %s", src)
	}
	return os.Rename(src, dst)
}

// Remove deletes a file or a directory tree. A missing path is not an
// error.
func Remove(path string) error {
	return os.RemoveAll(path)
}

// ModTime returns the last-modified timestamp of a path.
func ModTime(path string) (time.Time, error) {
	return FileTime(path, "m")
}

// FileTime returns one of a path's timestamps selected by method:
// "a" last access, "m" last modification, "c" status change. An empty
// method means "m".
func FileTime(path, method string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("file does not exist: %s", path)
	}
	switch method {
	case "m", "":
		return info.ModTime(), nil
	case "a", "c":
		var st unix.Stat_t
		if err := unix.Stat(path, &st); err != nil {
			return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		ts := st.Atim
		if method == "c" {
			ts = st.Ctim
		}
		return time.Unix(ts.Sec, ts.Nsec), nil
	default:
		return time.Time{}, fmt.Errorf("invalid time method %q (valid: a, m, c)", method)
	}
}

// ListPaths walks root recursively. Both filters false returns every
// path; filesOnly and dirsOnly restrict accordingly (root itself is never
// included).
func ListPaths(root string, filesOnly, dirsOnly bool) ([]string, error) {
	if !IsDir(root) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		switch {
		case filesOnly && !dirsOnly:
			if !d.IsDir() {
				paths = append(paths, path)
			}
		case dirsOnly && !filesOnly:
			if d.IsDir() {
				paths = append(paths, path)
			}
		default:
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Files returns all files under root, recursively.
func Files(root string) ([]string, error) {
	return ListPaths(root, true, false)
}

// Dirs returns all directories under root, recursively.
func Dirs(root string) ([]string, error) {
	return ListPaths(root, false, true)
}
