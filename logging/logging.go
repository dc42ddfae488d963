// Package logging wires slog for the rest of lntools. Components obtain
// their logger from an explicit Registry keyed by component name rather
// than from hidden package-level singletons, so tests can construct and
// tear down logging state deliberately.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config controls handler construction.
type Config struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DefaultConfig is the console JSON setup used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Format:   "json",
		Output:   "console",
		FilePath: "logs/lntools.log",
	}
}

// Registry hands out component-scoped loggers sharing one handler. It owns
// the log file, if any, until Close.
type Registry struct {
	mu      sync.Mutex
	base    *slog.Logger
	file    *os.File
	loggers map[string]*slog.Logger
}

// NewRegistry builds a registry from config. Output is "console", "file",
// or "both"; format is "json" or "text".
func NewRegistry(cfg Config) (*Registry, error) {
	r := &Registry{loggers: make(map[string]*slog.Logger)}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		r.file = file
		output = file
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		r.file = file
		output = io.MultiWriter(os.Stdout, file)
	default:
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	r.base = slog.New(handler)
	return r, nil
}

// NewWriterRegistry builds a registry logging to an arbitrary writer. Used
// by tests to capture output.
func NewWriterRegistry(w io.Writer, level string) *Registry {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Registry{
		base:    slog.New(handler),
		loggers: make(map[string]*slog.Logger),
	}
}

// Get returns the logger for a component, creating and caching it on first
// use. Every record carries a "component" attribute.
func (r *Registry) Get(component string) *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[component]; ok {
		return l
	}
	l := r.base.With(slog.String("component", component))
	r.loggers[component] = l
	return l
}

// Close releases the log file, if any. The registry must not be used
// afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating a console JSON
// registry on first use. Prefer constructing a Registry explicitly and
// passing it down; this exists for the small-script use case.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRegistry == nil {
		defaultRegistry, _ = NewRegistry(Config{Level: "info", Format: "json", Output: "console"})
	}
	return defaultRegistry
}

// SetDefault replaces the process-wide registry, returning the previous
// one so callers (typically tests) can restore it.
func SetDefault(r *Registry) *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	prev := defaultRegistry
	defaultRegistry = r
	return prev
}

// Component is shorthand for Default().Get(name).
func Component(name string) *slog.Logger {
	return Default().Get(name)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}
