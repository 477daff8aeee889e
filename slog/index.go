package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docchat"
)

var _ docchat.VectorIndex = (*LoggingVectorIndex)(nil)

// LoggingVectorIndex wraps a VectorIndex with logging.
type LoggingVectorIndex struct {
	next   docchat.VectorIndex
	logger *slog.Logger
}

// NewLoggingVectorIndex creates a new LoggingVectorIndex.
func NewLoggingVectorIndex(next docchat.VectorIndex, logger *slog.Logger) *LoggingVectorIndex {
	return &LoggingVectorIndex{next: next, logger: logger}
}

// Search delegates to the wrapped index and logs the best score.
func (x *LoggingVectorIndex) Search(ctx context.Context, vector []float32, k int) (results []*docchat.SearchResult, err error) {
	defer func(begin time.Time) {
		var top float64
		if len(results) > 0 {
			top = results[0].Score
		}
		x.logger.Debug("search",
			"k", k,
			"results", len(results),
			"top_score", top,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return x.next.Search(ctx, vector, k)
}

// Count delegates to the wrapped index.
func (x *LoggingVectorIndex) Count(ctx context.Context) (int, error) {
	return x.next.Count(ctx)
}

// DocumentChunks delegates to the wrapped index.
func (x *LoggingVectorIndex) DocumentChunks(ctx context.Context, sourceURL string) ([]*docchat.Chunk, error) {
	return x.next.DocumentChunks(ctx, sourceURL)
}

// Close delegates to the wrapped index.
func (x *LoggingVectorIndex) Close() error {
	return x.next.Close()
}
