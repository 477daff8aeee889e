package slog

import (
	"log/slog"

	"github.com/fwojciec/docchat"
)

var _ docchat.LinkSelectorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a LinkSelectorRegistry and logs the selector chosen per page.
type LoggingRegistry struct {
	next   docchat.LinkSelectorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next docchat.LinkSelectorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// GetForHTML delegates to the wrapped registry and logs the selector name.
func (r *LoggingRegistry) GetForHTML(html string) docchat.LinkSelector {
	selector := r.next.GetForHTML(html)
	r.logger.Debug("link selector", "selector", selector.Name())
	return selector
}
