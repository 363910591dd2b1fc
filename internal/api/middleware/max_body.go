package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cloo-solutions/docqa/internal/api"
)

// MaxBodyBytes rejects requests whose declared length exceeds limit with 413 and caps the body reader
// at limit for chunked or undeclared bodies. A non-positive limit disables the check.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		message := fmt.Sprintf("request body exceeds the %s limit", formatBytes(limit))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				slog.Warn("rejected oversized request",
					"path", r.URL.Path,
					"content_length", r.ContentLength,
					"limit", limit,
					"request_id", GetRequestID(r.Context()),
				)
				api.Error(w, http.StatusRequestEntityTooLarge, message)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// formatBytes renders n in the largest binary unit that keeps it at least 1.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
