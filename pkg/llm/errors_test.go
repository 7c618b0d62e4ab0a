package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{
			name:          "unauthorized",
			err:           errors.New("error, status code: 401, message: invalid api key"),
			wantType:      ErrorTypeAuth,
			wantRetryable: false,
		},
		{
			name:          "model not found",
			err:           errors.New("the model `gpt-5-ultra` does not exist"),
			wantType:      ErrorTypeModel,
			wantRetryable: false,
		},
		{
			name:          "service unavailable",
			err:           errors.New("error, status code: 503, message: Service Unavailable"),
			wantType:      ErrorTypeUnavailable,
			wantRetryable: true,
		},
		{
			name:          "overloaded",
			err:           errors.New("anthropic api error: overloaded_error"),
			wantType:      ErrorTypeUnavailable,
			wantRetryable: true,
		},
		{
			name:          "rate limited",
			err:           errors.New("error, status code: 429, message: rate limit reached"),
			wantType:      ErrorTypeUnavailable,
			wantRetryable: true,
		},
		{
			name:          "connection refused",
			err:           errors.New("dial tcp 127.0.0.1:8080: connection refused"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "unknown",
			err:           errors.New("something odd happened"),
			wantType:      ErrorTypeUnknown,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantRetryable, got.Retryable)
		})
	}
}

func TestClassifyError_PassesThroughStructuredError(t *testing.T) {
	orig := NewError(ErrorTypeUnavailable, "service unavailable", true, errors.New("503"))
	wrapped := fmt.Errorf("generate sql: %w", orig)

	got := ClassifyError(wrapped)
	assert.Same(t, orig, got)
}

func TestIsUnavailable(t *testing.T) {
	unavailable := NewError(ErrorTypeUnavailable, "service unavailable", true, nil)
	assert.True(t, IsUnavailable(fmt.Errorf("wrapped: %w", unavailable)))

	auth := NewError(ErrorTypeAuth, "authentication failed", false, nil)
	assert.False(t, IsUnavailable(auth))
	assert.False(t, IsUnavailable(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	e := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	e.StatusCode = 401
	e.Model = "gpt-4o-mini"

	msg := e.Error()
	assert.Contains(t, msg, "auth")
	assert.Contains(t, msg, "HTTP 401")
	assert.Contains(t, msg, "model=gpt-4o-mini")
}
