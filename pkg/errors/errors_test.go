package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error wins", New(ErrInternal, http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"invalid input", fmt.Errorf("parsing: %w", ErrInvalidInput), http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"data load", fmt.Errorf("%w: words.json: eof", ErrDataLoad), http.StatusServiceUnavailable},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable},
		{"timeout", ErrTimeout, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "limit must be between 1 and 10, got 0",
		Message(InvalidInputf("limit must be between 1 and %d, got %d", 10, 0)))
	assert.Equal(t, "request timed out", Message(fmt.Errorf("lookup: %w", ErrTimeout)))
	assert.Equal(t, "internal error", Message(errors.New("pq: connection refused")))
}

func TestAppErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("handler: %w", Newf(ErrInvalidInput, http.StatusBadRequest, "bad %s", "sort"))

	assert.True(t, errors.Is(err, ErrInvalidInput))
	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "bad sort", appErr.Message)
	assert.Equal(t, "invalid input: bad sort", appErr.Error())
}
