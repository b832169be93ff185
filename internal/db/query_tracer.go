package db

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type queryStartKey struct{}

// queryTracer logs every statement at debug level with its duration.
type queryTracer struct {
	logger *slog.Logger
}

func newQueryTracer(logger *slog.Logger) *queryTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryTracer{logger: logger.With("component", "db")}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, time.Now())
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, _ := ctx.Value(queryStartKey{}).(time.Time)
	if start.IsZero() {
		return
	}

	durationMs := time.Since(start).Milliseconds()
	if data.Err != nil {
		t.logger.Debug("query failed",
			"operation", queryOperation(data.CommandTag.String()),
			"duration_ms", durationMs,
			"error", data.Err,
		)
		return
	}

	t.logger.Debug("query completed",
		"operation", queryOperation(data.CommandTag.String()),
		"duration_ms", durationMs,
		"rows_affected", data.CommandTag.RowsAffected(),
	)
}

func queryOperation(tag string) string {
	parts := strings.Fields(tag)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToUpper(parts[0])
}
