package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu          sync.RWMutex
	base        zerolog.Logger
	initialized bool
)

// Options configures the global logger. Empty fields fall back to the
// LOG_LEVEL and LOG_PRETTY environment variables.
type Options struct {
	Level  string
	Pretty *bool
	Out    io.Writer
}

// Init configures the global JSON logger from the environment.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	Configure(Options{})
}

// Configure sets up the global logger. Explicit options win over the
// environment.
func Configure(o Options) {
	level := o.Level
	if level == "" {
		level = getenv("LOG_LEVEL", "info")
	}
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")
	if o.Pretty != nil {
		pretty = *o.Pretty
	}
	out := o.Out
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Str("service", "breadthpulse").Logger().Level(parseLevel(level))

	mu.Lock()
	base = l
	initialized = true
	mu.Unlock()
}

// L returns the global logger, initializing it from the environment on first use.
func L() *zerolog.Logger {
	mu.RLock()
	ok := initialized
	mu.RUnlock()
	if !ok {
		Init()
	}
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
