package errors

import (
	"os"

	"github.com/rs/zerolog"
)

// LogHandler is a Handler that logs boundary errors through zerolog.
type LogHandler struct {
	// Logger receives the error events.
	Logger zerolog.Logger
	// Verbose enables stack traces in the output.
	Verbose bool
}

// NewLogHandler creates a LogHandler writing to stderr.
func NewLogHandler(verbose bool) *LogHandler {
	return &LogHandler{
		Logger:  zerolog.New(os.Stderr).With().Timestamp().Logger(),
		Verbose: verbose,
	}
}

// HandleBoundaryError logs a BoundaryError.
func (h *LogHandler) HandleBoundaryError(err *BoundaryError) {
	if err == nil {
		return
	}
	evt := h.Logger.Error().
		Str("widget", err.Widget).
		Str("phase", err.Phase)
	if h.Verbose && err.StackTrace != "" {
		evt = evt.Str("stack", err.StackTrace)
	}
	evt.Msg(err.Error())
}
