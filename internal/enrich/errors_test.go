package enrich_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MathCsAI/feedback-enricher/internal/enrich"
)

func TestMessageIndicatesQuota(t *testing.T) {
	require.True(t, enrich.MessageIndicatesQuota("got HTTP 429 from provider"))
	require.True(t, enrich.MessageIndicatesQuota("Quota Exceeded for project"))
	require.True(t, enrich.MessageIndicatesQuota("rate limit reached"))
	require.True(t, enrich.MessageIndicatesQuota("status RESOURCE_EXHAUSTED"))
	require.False(t, enrich.MessageIndicatesQuota("internal server error"))
	require.False(t, enrich.MessageIndicatesQuota(""))
}

func TestMessageIndicatesUnknownModel(t *testing.T) {
	require.True(t, enrich.MessageIndicatesUnknownModel("models/gemini-x is Not Found for API version v1beta"))
	require.True(t, enrich.MessageIndicatesUnknownModel("model is not supported for generateContent"))
	require.False(t, enrich.MessageIndicatesUnknownModel("permission denied"))
}

func TestIsQuota(t *testing.T) {
	base := errors.New("429 too many requests")
	qe := &enrich.QuotaError{Err: base}

	require.True(t, enrich.IsQuota(qe))
	require.True(t, enrich.IsQuota(fmt.Errorf("enrich item: %w", qe)))
	require.ErrorIs(t, qe, base)
	require.False(t, enrich.IsQuota(base))
	require.False(t, enrich.IsQuota(nil))
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &enrich.ConfigurationError{Missing: "GEMINI_API_KEY"}
	require.Contains(t, err.Error(), "GEMINI_API_KEY")
}
