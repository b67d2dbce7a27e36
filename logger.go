package ihop

import (
	"log"
	"os"
)

// Logger receives trace output gated by a Planner's verbosity level.
// It matches the one method of stdlib *log.Logger that callers need,
// so a *log.Logger satisfies it directly.
type Logger interface {
	Printf(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// NewStdLogger returns a Logger backed by a standard library logger
// writing to stderr, the default used whenever verbosity is above 0
// and no logger was supplied explicitly.
func NewStdLogger() Logger {
	return log.New(os.Stderr, "ihop: ", log.LstdFlags)
}
