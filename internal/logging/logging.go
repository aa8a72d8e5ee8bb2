// Package logging builds the charmbracelet/log loggers handed to every
// octobridge subsystem. Subsystems take a *log.Logger at construction
// rather than reach for a package-global, unlike the teacher's C-era
// globals.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger scoped to a subsystem ("bus", "clock", "looper", ...)
// at the given threshold. Level comes from config.Config.DebugLevel.
func New(component string, level log.Level) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          component,
	})
	l.SetLevel(level)
	return l
}
