package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Setting: "COHERE_API_KEY"}
	assert.Equal(t, "configuration error: COHERE_API_KEY is not set", err.Error())

	wrapped := &ConfigurationError{Setting: "STORE_PATH /data", Err: errors.New("permission denied")}
	assert.Contains(t, wrapped.Error(), "STORE_PATH /data")
	assert.Contains(t, wrapped.Error(), "permission denied")
	assert.ErrorIs(t, wrapped, wrapped.Err)
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{
		Collection: "llm_corpus",
		Path:       "/data/corpus",
		Available:  []string{"alpha", "beta"},
	}
	assert.Equal(t, `collection "llm_corpus" not found at /data/corpus (available: alpha, beta)`, err.Error())

	empty := &NotFoundError{Collection: "llm_corpus", Path: "/data/corpus"}
	assert.Contains(t, empty.Error(), "available: none")
}

func TestUpstreamErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")

	err := &UpstreamError{Op: "embed", Detail: "model m", Err: cause}
	assert.Equal(t, "embed failed (model m): connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &UpstreamError{Op: "rerank", Err: cause}
	assert.Equal(t, "rerank failed: connection refused", bare.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "question", Reason: "must be a non-empty string"}
	assert.Equal(t, "invalid question: must be a non-empty string", err.Error())
}
