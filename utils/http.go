package utils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Whenever we write back we should log if there are errors
func WriteButLogOnError(ctx context.Context, w http.ResponseWriter, bytes []byte) {
	_, err := w.Write(bytes)
	if err != nil {
		slog.WarnContext(ctx, "Could not write HTTP response body", "error", err)
	}
}

// Close a closer and log failures instead of dropping them. Meant for defers
// where a close error is worth knowing about but not worth failing over.
func Close(c io.Closer, operation string, ctx context.Context) {
	if c == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.Close(); err != nil {
		slog.WarnContext(ctx, "Could not close", "operation", operation, "error", err)
	}
}
