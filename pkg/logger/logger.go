// Package logger holds the process-wide zerolog logger of the homeworks
// service. main calls Init once; services take a Component logger so every
// entry says which part of the household tracker wrote it.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultService = "homeworks"

// Options configures Init.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else means info.
	Level string
	// Pretty switches to console output for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every entry; empty means "homeworks".
	Service string
}

var (
	mu     sync.RWMutex
	once   sync.Once
	root   zerolog.Logger
	loaded bool
)

// Init builds the process logger. Only the first call takes effect; later
// calls return the logger already built.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		service := opts.Service
		if service == "" {
			service = defaultService
		}

		level := parseLevel(opts.Level)
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.SetGlobalLevel(level)

		mu.Lock()
		root = zerolog.New(out).Level(level).With().
			Timestamp().
			Str("service", service).
			Caller().
			Logger()
		loaded = true
		mu.Unlock()
	})
	return Get()
}

// Get returns the process logger. It panics before Init.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !loaded {
		panic("logger: Get called before Init")
	}
	return root
}

// Component returns the process logger tagged with component=name, e.g.
// "session" or "broker".
func Component(name string) zerolog.Logger {
	l := Get()
	return l.With().Str("component", name).Logger()
}

// Reset forgets the process logger so tests can Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = zerolog.Logger{}
	loaded = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
