package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/applicant-tracking/pkg/logger"
)

const maxLoggedBody = 4 << 10

// sensitiveFields are matched as substrings of lower-cased header names and JSON keys.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"apikey",
	"session",
	"credential",
	"cookie",
}

// LoggingMiddleware writes one record when a request arrives and one when it completes.
// Sensitive headers and JSON fields are masked. With a non nil fallback the request
// logger is rebuilt from it and attached to the context for downstream handlers.
func LoggingMiddleware(fallback *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lg := logger.From(r.Context())
			if fallback != nil {
				lg = fallback.With("trace_id", w.Header().Get(TraceHeader))
				r = r.WithContext(logger.Into(r.Context(), lg))
			}

			lg.Info("incoming request", requestAttrs(r))

			rec := &bodyRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status()
			lg.Log(r.Context(), levelFor(status), "response",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("body", filterSensitiveBody(rec.body.Bytes())),
			)
		})
	}
}

// bodyRecorder keeps the status and the first maxLoggedBody bytes written.
type bodyRecorder struct {
	http.ResponseWriter
	code int
	body bytes.Buffer
}

func (b *bodyRecorder) WriteHeader(code int) {
	b.code = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	if room := maxLoggedBody - b.body.Len(); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.body.Write(p[:room])
	}
	return b.ResponseWriter.Write(p)
}

func (b *bodyRecorder) status() int {
	if b.code == 0 {
		return http.StatusOK
	}
	return b.code
}

func requestAttrs(r *http.Request) slog.Attr {
	var payload []byte
	if r.Body != nil {
		payload, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(payload))
	}
	return slog.Group("request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("query", r.URL.RawQuery),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("user_agent", r.UserAgent()),
		slog.Any("headers", filterSensitiveHeaders(r.Header)),
		slog.String("body", filterSensitiveBody(payload)),
	)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if len(body) > maxLoggedBody {
			return "[TRUNCATED]"
		}
		if isSensitive(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return string(body)
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(out)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
				continue
			}
			filtered[key] = filterSensitiveJSON(value)
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
