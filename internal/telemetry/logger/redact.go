package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

const (
	defaultMaxValueLen = 64

	redactedValue = "***REDACTED***"
)

// payloadKeys name attributes that carry client data.
var payloadKeys = map[string]struct{}{
	"value":   {},
	"payload": {},
}

// sensitiveKeyPatterns mark attributes that are never logged.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"auth",
}

// sanitizeAttr truncates payload attributes and redacts sensitive ones.
func sanitizeAttr(a slog.Attr, maxValueLen int) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = sanitizeAttr(attr, maxValueLen)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	keyLower := strings.ToLower(a.Key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) && a.Value.String() != "" {
			return slog.String(a.Key, redactedValue)
		}
	}

	if _, ok := payloadKeys[keyLower]; ok {
		return slog.String(a.Key, truncate(a.Value.String(), maxValueLen))
	}

	return a
}

// truncate shortens s to max bytes and notes the original size.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}
