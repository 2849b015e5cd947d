package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// OperationTimer provides a defer-friendly way to measure operation duration.
// Operations slower than slowAfter are logged at warn level.
//
// Usage:
//
//	func MyFunction() {
//	    defer utils.OperationTimer("my_function", 10*time.Second, log)()
//	}
func OperationTimer(operation string, slowAfter time.Duration, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if slowAfter > 0 && duration > slowAfter {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
		}
	}
}
