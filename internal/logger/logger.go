// Package logger configures the process-wide zerolog logger and exposes
// component-scoped sub-loggers for each subsystem of the service.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the global logger instance. Initialize must be called once at
// startup before any component logger is used.
var Log zerolog.Logger

// Initialize sets up the global logger with the given level and format.
func Initialize(level string, pretty bool) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	}

	Log = log.With().
		Str("service", "codesandbox").
		Logger()

	Log.Info().
		Str("level", logLevel.String()).
		Bool("pretty", pretty).
		Msg("logger initialized")
}

// Component returns a logger tagged with the given component name.
func Component(name string) *zerolog.Logger {
	l := Log.With().Str("component", name).Logger()
	return &l
}

// Database creates a logger for persistence-layer events.
func Database() *zerolog.Logger { return Component("database") }

// HTTP creates a logger for HTTP request events.
func HTTP() *zerolog.Logger { return Component("http") }

// Sandbox creates a logger for sandbox executor events.
func Sandbox() *zerolog.Logger { return Component("sandbox") }

// Analysis creates a logger for the remote analysis client.
func Analysis() *zerolog.Logger { return Component("analysis") }

// Security creates a logger for authentication/authorization events.
func Security() *zerolog.Logger { return Component("security") }

// Orchestrator creates a logger for the analyze-request orchestration layer.
func Orchestrator() *zerolog.Logger { return Component("orchestrator") }
