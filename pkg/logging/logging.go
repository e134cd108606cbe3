// Package logging constructs the process logger and component-scoped
// children with a consistent field name.
package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New builds the root logger every component logger derives from.
func New() *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
		TimeFormat:      time.Kitchen,
	})
}

// ForComponent scopes a logger to one pipeline component.
func ForComponent(logger *log.Logger, id string) *log.Logger {
	return logger.With("component", id)
}
