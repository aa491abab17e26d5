// Package logging defines the structured logger the service components
// depend on, decoupled from the concrete backend.
package logging

import "context"

// Logger accepts a message plus alternating key/value pairs:
//
//	log.Info(ctx, "http server starting", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a derived logger that attaches the given pairs to every
	// record it emits.
	With(args ...any) Logger
}
