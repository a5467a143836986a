// Package loglevel adds the minimal severity filtering spec.md §6's
// --loglevel flag needs on top of the standard library's log package,
// which the rest of this module uses unadorned for warnings the
// permissive-to-guest policy always wants surfaced (spec.md §7). It
// deliberately stays a thin gate around log.Printf rather than a
// structured logging framework — no pack repo imports one.
package loglevel

import (
	"fmt"
	"log"
)

// Level orders severities from least to most verbose, matching
// spec.md §6's --loglevel values.
type Level int

const (
	Off Level = iota
	Error
	Warn
	Info
	Debug
	Trace
)

// Parse resolves a --loglevel flag value to a Level.
func Parse(s string) (Level, error) {
	switch s {
	case "off":
		return Off, nil
	case "error":
		return Error, nil
	case "warn":
		return Warn, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "trace":
		return Trace, nil
	default:
		return Off, fmt.Errorf("loglevel: unknown level %q", s)
	}
}

var current = Info

// Set configures the process-wide log level. Not safe to call
// concurrently with logging calls; intended to be set once at
// startup from parsed flags.
func Set(l Level) {
	current = l
}

func enabled(l Level) bool {
	return current != Off && l <= current
}

func Errorf(format string, args ...any) {
	if enabled(Error) {
		log.Printf("ERROR: "+format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled(Warn) {
		log.Printf("WARN: "+format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled(Info) {
		log.Printf("INFO: "+format, args...)
	}
}

func Debugf(format string, args ...any) {
	if enabled(Debug) {
		log.Printf("DEBUG: "+format, args...)
	}
}

func Tracef(format string, args ...any) {
	if enabled(Trace) {
		log.Printf("TRACE: "+format, args...)
	}
}
