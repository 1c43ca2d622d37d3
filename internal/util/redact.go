package util

import (
	"regexp"
	"strings"
)

var (
	// Matches "Bearer <token>". Provider SDKs sometimes echo auth material
	// into error strings that end up in the response errors array.
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// Common key=value formats for the Gemini credential.
	apiKeyKVRe = regexp.MustCompile(`(?i)\b(api[_-]?key|gemini[_-]?api[_-]?key|x-goog-api-key)\b\s*[:=]\s*[^\s"']+`)

	// Gemini keys passed as a query parameter.
	apiKeyQueryRe = regexp.MustCompile(`(?i)([?&]key=)[^\s&"']+`)
)

// RedactSecrets removes obvious secret-bearing substrings from error/log
// strings. Safe to call on any message, including upstream error text.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := s
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	out = apiKeyQueryRe.ReplaceAllString(out, "${1}<redacted>")
	return strings.TrimSpace(out)
}
