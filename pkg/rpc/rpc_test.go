package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/logger"
)

type echoParams struct {
	Text string `json:"text"`
}

func startServer(t *testing.T, timeout time.Duration) (*Server, string) {
	t.Helper()
	s := NewServer(timeout)
	s.Register("Test.Echo", func(ctx context.Context, params json.RawMessage) (any, error) {
		var p echoParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return map[string]string{"text": p.Text, "request_id": logger.RequestID(ctx)}, nil
	})
	s.Register("Test.Invalid", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return nil, apperrors.InvalidInputf("bad value %d", 7)
	})
	s.Register("Test.Wait", func(ctx context.Context, _ json.RawMessage) (any, error) {
		<-ctx.Done()
		return nil, apperrors.ErrTimeout
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()
	t.Cleanup(func() {
		s.Stop()
		assert.NoError(t, <-done)
	})
	return s, ln.Addr().String()
}

func dial(t *testing.T, addr string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCallRoundTrip(t *testing.T) {
	_, addr := startServer(t, time.Second)
	c := dial(t, addr)

	ctx := logger.WithRequestID(context.Background(), "req-42")
	var out map[string]string
	require.NoError(t, c.Call(ctx, "Test.Echo", echoParams{Text: "кіт"}, &out))
	assert.Equal(t, "кіт", out["text"])
	assert.Equal(t, "req-42", out["request_id"])
}

func TestErrorCodeSurvivesWire(t *testing.T) {
	_, addr := startServer(t, time.Second)
	c := dial(t, addr)

	err := c.Call(context.Background(), "Test.Invalid", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
	assert.Equal(t, "bad value 7", apperrors.Message(err))

	err = c.Call(context.Background(), "Test.Missing", nil, nil)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestHandlerTimeout(t *testing.T) {
	_, addr := startServer(t, 20*time.Millisecond)
	c := dial(t, addr)

	err := c.Call(context.Background(), "Test.Wait", nil, nil)
	assert.True(t, errors.Is(err, apperrors.ErrTimeout))
	assert.Equal(t, "request timed out", apperrors.Message(err))
}

func TestConcurrentCalls(t *testing.T) {
	_, addr := startServer(t, time.Second)
	c := dial(t, addr)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out map[string]string
			assert.NoError(t, c.Call(context.Background(), "Test.Echo", echoParams{Text: "хата"}, &out))
			assert.Equal(t, "хата", out["text"])
		}()
	}
	wg.Wait()
}

func TestMethods(t *testing.T) {
	s, _ := startServer(t, 0)
	assert.ElementsMatch(t, []string{"Test.Echo", "Test.Invalid", "Test.Wait"}, s.Methods())
}
