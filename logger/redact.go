// Package logger provides redaction of credential material in log output.
package logger

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaskValue is the replacement for redacted values in log output.
const DefaultMaskValue = "***"

// RedactionConfig defines which fields are masked when logged.
type RedactionConfig struct {
	// SensitiveKeys contains field and header names whose values are masked.
	// Matching is case-insensitive on substring.
	SensitiveKeys []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
}

// DefaultRedactionConfig returns a configuration covering the
// credential-bearing headers and field names an HTTP client is likely to log.
func DefaultRedactionConfig() *RedactionConfig {
	return &RedactionConfig{
		SensitiveKeys: []string{
			"authorization", "proxy-authorization",
			"cookie", "set-cookie",
			"x-api-key", "api_key", "apikey",
			"password", "secret", "token", "credential",
		},
		MaskValue: DefaultMaskValue,
	}
}

// Redactor masks credential material (auth headers, passwords embedded in
// URLs) before it reaches log output.
type Redactor struct {
	config *RedactionConfig
}

// NewRedactor creates a new redactor with the given configuration
func NewRedactor(config *RedactionConfig) *Redactor {
	if config == nil {
		config = DefaultRedactionConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &Redactor{config: config}
}

// RedactString masks value when key names a sensitive field. URL-valued
// fields keep their structure with only the userinfo password masked.
func (r *Redactor) RedactString(key, value string) string {
	if r.isSensitiveKey(key) {
		return r.maskString(value)
	}
	if isURLKey(key) {
		return r.RedactURL(value)
	}
	return value
}

// RedactValue applies redaction to header maps, string maps, and nested field
// maps. Other values pass through unchanged.
func (r *Redactor) RedactValue(key string, value any) any {
	switch v := value.(type) {
	case http.Header:
		return r.RedactHeader(v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = r.RedactString(k, val)
		}
		return out
	case map[string]any:
		return r.RedactFields(v)
	case string:
		return r.RedactString(key, v)
	default:
		return value
	}
}

// RedactHeader returns a copy of h with sensitive header values masked.
func (r *Redactor) RedactHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vals := range h {
		if r.isSensitiveKey(k) {
			out[k] = []string{r.config.MaskValue}
			continue
		}
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// RedactFields filters a map of fields for sensitive data
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = r.RedactValue(k, v)
	}
	return out
}

// RedactURL masks the password component of a URL while preserving the rest
// of its structure. Values without userinfo, and values that do not parse as
// URLs, are returned unchanged.
func (r *Redactor) RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return raw
	}
	masked := *parsed
	masked.User = url.UserPassword(parsed.User.Username(), r.config.MaskValue)
	return masked.String()
}

// isSensitiveKey checks if a field name is considered sensitive
func (r *Redactor) isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range r.config.SensitiveKeys {
		if strings.Contains(lower, strings.ToLower(sensitive)) {
			return true
		}
	}
	return false
}

// maskString masks sensitive string values. URL-shaped values keep their
// structure so connection targets stay diagnosable.
func (r *Redactor) maskString(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return r.RedactURL(value)
	}
	return r.config.MaskValue
}

func isURLKey(key string) bool {
	lower := strings.ToLower(key)
	return lower == "url" || strings.HasSuffix(lower, "_url")
}
