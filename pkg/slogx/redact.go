package slogx

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

const (
	// Redaction replaces the value of a PII field.
	Redaction = "***"
	// Separator terminates key=value pairs in free-form log messages.
	Separator = ";"
)

// DefaultPIIFields are the attribute keys treated as personal data.
var DefaultPIIFields = []string{"name", "email", "phone", "ssn", "password"}

// FilterDatum replaces the value of every field=value<separator> pair in
// message whose key is listed in fields. Values are matched lazily up to
// the first separator, so a pair missing its trailing separator is left
// untouched.
func FilterDatum(fields []string, redaction, message, separator string) string {
	for _, f := range fields {
		re := regexp.MustCompile(regexp.QuoteMeta(f) + "=.*?" + regexp.QuoteMeta(separator))
		message = re.ReplaceAllLiteralString(message, f+"="+redaction+separator)
	}
	return message
}

// RedactingHandler masks PII before records reach the wrapped handler:
// attributes whose key is a PII field get their value replaced, and
// key=value; pairs inside the message are filtered with FilterDatum.
type RedactingHandler struct {
	handler slog.Handler
	fields  []string
	pattern *regexp.Regexp
}

// NewRedactingHandler wraps h. Field matching is case-insensitive.
func NewRedactingHandler(h slog.Handler, fields []string) *RedactingHandler {
	lowered := make([]string, 0, len(fields))
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(f))
		quoted = append(quoted, regexp.QuoteMeta(f))
	}

	// Single pass equivalent of FilterDatum over every field.
	pattern := regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)=.*?` + regexp.QuoteMeta(Separator))

	return &RedactingHandler{handler: h, fields: lowered, pattern: pattern}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := r.Message
	if len(h.fields) > 0 {
		msg = h.pattern.ReplaceAllString(msg, "${1}="+Redaction+Separator)
	}

	out := slog.NewRecord(r.Time, r.Level, msg, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redact(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted), fields: h.fields, pattern: h.pattern}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name), fields: h.fields, pattern: h.pattern}
}

func (h *RedactingHandler) redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = h.redact(ga)
		}
		return slog.Group(a.Key, redacted...)
	}
	if slices.Contains(h.fields, strings.ToLower(a.Key)) {
		return slog.String(a.Key, Redaction)
	}
	return a
}
