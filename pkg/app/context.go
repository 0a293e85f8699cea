package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Logger receives structured diagnostics; command output goes elsewhere
	Logger *slog.Logger

	// Progress reporting
	ProgressCallback func(update ProgressUpdate)
}

// NewContext creates a new application context that discards logs
func NewContext() *Context {
	return &Context{
		Context:      context.Background(),
		OutputFormat: "table",
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(ProgressUpdate)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(update ProgressUpdate) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(update)
	}
}

// Log records an informational message with optional key/value attributes
func (c *Context) Log(message string, args ...any) {
	c.Slog().Info(message, args...)
}

// Error records an error message unless quiet
func (c *Context) Error(message string, args ...any) {
	if !c.Quiet {
		c.Slog().Error(message, args...)
	}
}

// Slog returns the context logger, or a discarding one when unset
func (c *Context) Slog() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// NewLogger builds the structured logger for a run. Verbose lowers the level
// to debug and quiet raises it to error, overriding level.
func NewLogger(w io.Writer, format, level string, verbose, quiet bool) (*slog.Logger, error) {
	var lvl slog.Level
	switch {
	case quiet:
		lvl = slog.LevelError
	case verbose:
		lvl = slog.LevelDebug
	default:
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}
