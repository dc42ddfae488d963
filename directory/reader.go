package directory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"lntools/human"
	"lntools/logging"
	"lntools/table"
	"lntools/timeutil"
)

const (
	// DefaultFilePattern names one file per date.
	DefaultFilePattern = "{date}.csv"
	// DefaultDateFormat is the wide ISO date layout.
	DefaultDateFormat = "2006-01-02"
	// DefaultWorkers bounds the read fan-out.
	DefaultWorkers = 10

	datePlaceholder = "{date}"
)

var validate = validator.New()

// Options configures one read. The zero value reads every file in the
// directory with the records engine and default worker bound.
type Options struct {
	// Start and End bound the generated date range (inclusive). Both
	// accept any timeutil date-like value. When either is nil and Dates
	// is empty, the whole directory is read with no date filtering.
	Start any
	End   any
	// Dates, when non-empty, overrides Start/End entirely and is used
	// as-is: the caller owns ordering and dedup (trading calendars).
	Dates []time.Time
	// FilePattern is the filename template with a {date} placeholder.
	FilePattern string
	// DateFormat renders each date into the placeholder. Accepts a
	// timeutil shortcut name or a Go layout.
	DateFormat string
	// Engine selects the tabular backend. Empty means records.
	Engine table.Engine
	// Workers bounds the read fan-out; the pool never exceeds the file
	// count. Zero means DefaultWorkers; one forces sequential reads.
	Workers int `validate:"gte=0"`
	// Reader overrides the registry-dispatched reader for every file.
	Reader table.ReadFunc
	// FailFast turns a recovered per-file failure into a batch error.
	FailFast bool
	// Logger overrides the registry logger for this read.
	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.FilePattern == "" {
		o.FilePattern = DefaultFilePattern
	}
	if o.DateFormat == "" {
		o.DateFormat = DefaultDateFormat
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
}

// Reader reads per-date files from one directory. The directory must
// exist at construction time.
type Reader struct {
	path   string
	logger *slog.Logger
}

// New validates the directory and returns a reader for it.
func New(path string) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, &DirectoryNotFoundError{Path: path, Err: err}
	}
	return &Reader{path: path, logger: logging.Component("directory")}, nil
}

// Read is the package-level convenience over New plus Reader.Read.
func Read(ctx context.Context, dir string, opts Options) (*Result, error) {
	r, err := New(dir)
	if err != nil {
		return nil, err
	}
	return r.Read(ctx, opts)
}

// Read resolves the expected file set, reads each existing file on a
// bounded worker pool, and concatenates the non-empty results. Missing
// files are reported on the result, not fatal; a file set that is empty
// on disk is fatal. The call blocks until every worker finishes; cancel
// ctx for an early stop.
func (r *Reader) Read(ctx context.Context, opts Options) (*Result, error) {
	opts.applyDefaults()
	logger := r.logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	// Configuration errors fail before any filesystem access.
	engine, err := table.ParseEngine(string(opts.Engine))
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid read options: %w", err)
	}

	dates, dated, err := resolveDates(opts)
	if err != nil {
		return nil, err
	}
	if dated && opts.Reader == nil {
		// The pattern fixes the extension, so a dispatch miss is a
		// configuration error, not a per-file one.
		ext := filepath.Ext(strings.ReplaceAll(opts.FilePattern, datePlaceholder, "d"))
		if _, err := table.ReaderFor(engine, ext); err != nil {
			return nil, err
		}
	}

	listing, err := r.snapshot()
	if err != nil {
		return nil, err
	}

	var files, missing []string
	if dated {
		expected := expandNames(dates, opts.FilePattern, opts.DateFormat)
		files, missing = partition(expected, listing)
		if len(missing) > 0 {
			logger.Warn("missing files", slog.String("files", human.List(missing, 3)))
		}
		if len(files) == 0 {
			e := &NoMatchingFilesError{Pattern: opts.FilePattern, Dir: r.path}
			if len(dates) > 0 {
				e.Start, e.End = dates[0], dates[len(dates)-1]
			}
			return nil, e
		}
	} else {
		files = append([]string(nil), listing...)
		sort.Strings(files)
		if len(files) == 0 {
			return nil, &NoMatchingFilesError{Pattern: opts.FilePattern, Dir: r.path}
		}
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(r.path, f)
	}

	read := opts.Reader
	if read == nil {
		read = func(p string) (table.Table, error) {
			return table.ReadFile(p, engine)
		}
	}

	logger.Info("reading directory",
		slog.String("path", r.path),
		slog.String("files", human.Unit(float64(len(paths)), "file", 0)),
		slog.Int("workers", poolSize(len(paths), opts.Workers)))

	outcomes, err := readAll(ctx, paths, read, opts.Workers, opts.FailFast, logger)
	if err != nil {
		return nil, err
	}

	tables := make([]table.Table, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == StatusOK {
			tables = append(tables, o.Table)
		}
	}
	combined, err := table.Concat(engine, tables)
	if err != nil {
		return nil, err
	}
	if combined.IsEmpty() {
		logger.Warn("no data read from any files", slog.String("path", r.path))
	}

	return &Result{Table: combined, Outcomes: outcomes, Missing: missing}, nil
}

// Path returns the directory being read.
func (r *Reader) Path() string { return r.path }

// snapshot lists the regular files present right now. The listing is a
// point-in-time set; files appearing later are not picked up.
func (r *Reader) snapshot() ([]string, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, &DirectoryNotFoundError{Path: r.path, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// resolveDates turns the options into the ordered date sequence to look
// up. The explicit list wins; otherwise a range is generated only when
// both bounds are present, matching the original read contract.
func resolveDates(opts Options) ([]time.Time, bool, error) {
	if len(opts.Dates) > 0 {
		return opts.Dates, true, nil
	}
	if opts.Start == nil || opts.End == nil {
		return nil, false, nil
	}
	dates, err := timeutil.Range(opts.Start, opts.End)
	if err != nil {
		return nil, false, err
	}
	return dates, true, nil
}

// expandNames renders each date into the filename pattern. Identical
// (date, format) pairs always render identically; collision-freedom for
// distinct dates is the caller's format choice.
func expandNames(dates []time.Time, pattern, format string) []string {
	layout := timeutil.Layout(format)
	names := make([]string, len(dates))
	for i, d := range dates {
		names[i] = strings.ReplaceAll(pattern, datePlaceholder, d.Format(layout))
	}
	return names
}

// partition splits expected names into those present in the listing and
// those missing, preserving expected order.
func partition(expected, listing []string) (existing, missing []string) {
	onDisk := make(map[string]bool, len(listing))
	for _, name := range listing {
		onDisk[name] = true
	}
	for _, name := range expected {
		if onDisk[name] {
			existing = append(existing, name)
		} else {
			missing = append(missing, name)
		}
	}
	return existing, missing
}

func poolSize(files, workers int) int {
	if workers > files {
		return files
	}
	return workers
}

// readAll reads every path, one worker per file up to the bound. Results
// are slotted by submission index, so the outcome order tracks the
// resolved file order no matter when each worker finishes. With a single
// file or worker the reads run in the calling goroutine.
func readAll(ctx context.Context, paths []string, read table.ReadFunc, workers int, failFast bool, logger *slog.Logger) ([]Outcome, error) {
	outcomes := make([]Outcome, len(paths))

	if len(paths) <= 1 || workers == 1 {
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = readOne(p, read, logger)
			if failFast && outcomes[i].Status == StatusFailed {
				return nil, fmt.Errorf("failed to read %s: %w", p, outcomes[i].Err)
			}
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize(len(paths), workers))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = readOne(p, read, logger)
			if failFast && outcomes[i].Status == StatusFailed {
				return fmt.Errorf("failed to read %s: %w", p, outcomes[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// readOne converts a single read into a tagged outcome. A read error is
// recovered here: logged with the file identity and carried on the
// outcome, never propagated.
func readOne(path string, read table.ReadFunc, logger *slog.Logger) Outcome {
	t, err := read(path)
	if err != nil {
		logger.Error("failed to read file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return Outcome{Path: path, Status: StatusFailed, Err: err}
	}
	if t == nil || t.IsEmpty() {
		return Outcome{Path: path, Status: StatusEmpty}
	}
	return Outcome{Path: path, Status: StatusOK, Table: t}
}
