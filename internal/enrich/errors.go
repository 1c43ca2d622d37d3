package enrich

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports a missing provider credential or model setting.
// It is unrecoverable for the request: every enrichment attempt fails with it
// until the environment is fixed.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("enrichment provider not configured: %s is required", e.Missing)
}

// QuotaError marks a provider failure as rate-limiting. The pipeline latches
// on the first QuotaError in a batch and stops calling the provider.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	if e == nil || e.Err == nil {
		return "provider quota exceeded"
	}
	return "provider quota exceeded: " + e.Err.Error()
}

func (e *QuotaError) Unwrap() error { return e.Err }

// IsQuota reports whether err is classified as a quota/rate-limit failure.
func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

var quotaMarkers = []string{"429", "quota exceeded", "rate limit", "resource_exhausted"}

// MessageIndicatesQuota matches provider error text against the known
// rate-limit markers. Matching is case-insensitive substring matching; the
// exact marker set is part of the observable latch behavior.
func MessageIndicatesQuota(msg string) bool {
	s := strings.ToLower(msg)
	for _, marker := range quotaMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// MessageIndicatesUnknownModel reports whether provider error text means the
// requested model cannot serve the call, so the next candidate model should
// be tried. Any other failure aborts the candidate list immediately.
func MessageIndicatesUnknownModel(msg string) bool {
	s := strings.ToLower(msg)
	return strings.Contains(s, "not found") || strings.Contains(s, "not supported")
}
