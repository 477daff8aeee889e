// Package slog decorates docchat services with structured logging.
//
// Each decorator logs one record per call with the call's duration and
// error, and otherwise delegates to the wrapped service unchanged.
package slog
