package directory

import (
	"fmt"
	"time"

	"lntools/timeutil"
)

// DirectoryNotFoundError reports that the target directory does not exist
// or cannot be listed.
type DirectoryNotFoundError struct {
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %s", e.Path)
}

func (e *DirectoryNotFoundError) Unwrap() error { return e.Err }

// NoMatchingFilesError reports that none of the expected files exist on
// disk. This is the only fatal discovery condition in the read path.
type NoMatchingFilesError struct {
	Pattern string
	Dir     string
	Start   time.Time
	End     time.Time
}

func (e *NoMatchingFilesError) Error() string {
	wide := timeutil.Shortcuts[timeutil.Wide]
	if e.Start.IsZero() && e.End.IsZero() {
		return fmt.Sprintf("no matching files found for pattern %q in %s", e.Pattern, e.Dir)
	}
	return fmt.Sprintf("no matching files found for pattern %q in %s (date range: %s ~ %s)",
		e.Pattern, e.Dir, e.Start.Format(wide), e.End.Format(wide))
}
