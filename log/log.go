package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	WarningLog *log.Logger
	InfoLog    *log.Logger
	ErrorLog   *log.Logger
)

const fileName = "salesconsole.log"

// Options controls where the console log goes and how it rotates.
type Options struct {
	// Enabled false sends the log to the temp dir instead of the app dir.
	Enabled bool
	// Dir overrides ~/.sales-console/logs.
	Dir string
	// MaxSizeMB <= 0 disables rotation.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func DefaultOptions() Options {
	return Options{
		Enabled:    true,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

// AppDir is ~/.sales-console, which holds the config, state and logs.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sales-console"), nil
}

// Dir resolves the log directory, creating the default one if needed. On error
// the temp dir is returned alongside it.
func Dir(opts Options) (string, error) {
	switch {
	case !opts.Enabled:
		return os.TempDir(), nil
	case opts.Dir != "":
		return opts.Dir, nil
	}

	appDir, err := AppDir()
	if err != nil {
		return os.TempDir(), err
	}
	dir := filepath.Join(appDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return os.TempDir(), fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}

// FilePath is the log file Initialize would open for opts.
func FilePath(opts Options) (string, error) {
	dir, err := Dir(opts)
	return filepath.Join(dir, fileName), err
}

var (
	current = filepath.Join(os.TempDir(), fileName)
	closer  io.Closer
)

func init() {
	// Loggers work before Initialize, so tests and one-shot commands can log.
	InfoLog = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	WarningLog = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
}

// Initialize points every logger at the log file. Call it once at startup and
// defer Close. The TUI owns the terminal, so nothing is written to stderr after
// this.
func Initialize(opts Options) {
	path, err := FilePath(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to %s: %v\n", path, err)
	}

	w, err := openWriter(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		w = io.Discard
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(w)
	InfoLog = log.New(w, "INFO:", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(w, "WARNING:", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(w, "ERROR:", log.Ldate|log.Ltime|log.Lshortfile)

	if c, ok := w.(io.Closer); ok {
		closer = c
	}
	current = path
}

func openWriter(path string, opts Options) (io.Writer, error) {
	if opts.MaxSizeMB > 0 {
		return &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
			LocalTime:  true,
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

// Current returns the file the loggers write to.
func Current() string {
	return current
}

func Close() {
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
}

// Every is used to log at most once every timeout duration.
type Every struct {
	timeout time.Duration
	timer   *time.Timer
}

func NewEvery(timeout time.Duration) *Every {
	return &Every{timeout: timeout}
}

// ShouldLog returns true if the timeout has passed since the last log.
func (e *Every) ShouldLog() bool {
	if e.timer == nil {
		e.timer = time.NewTimer(e.timeout)
		return true
	}

	select {
	case <-e.timer.C:
		e.timer.Reset(e.timeout)
		return true
	default:
		return false
	}
}
