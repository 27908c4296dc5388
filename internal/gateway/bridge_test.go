package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceChunks yields items in order, then fails with err if set.
type sliceChunks struct {
	items   []any
	err     error
	idx     int
	endless bool
	closed  atomic.Bool
}

func (s *sliceChunks) Next() bool {
	if s.endless {
		return true
	}
	if s.idx >= len(s.items) {
		return false
	}
	s.idx++
	return true
}

func (s *sliceChunks) Current() any {
	if s.endless {
		return "tick"
	}
	return s.items[s.idx-1]
}

func (s *sliceChunks) Err() error {
	if s.idx >= len(s.items) {
		return s.err
	}
	return nil
}

func (s *sliceChunks) Close() error {
	s.closed.Store(true)
	return nil
}

func TestEncodeFrame(t *testing.T) {
	cases := []struct {
		name  string
		chunk any
		want  string
	}{
		{"string", "hello", "data: hello\n\n"},
		{"bytes", []byte(`{"a":1}`), "data: {\"a\":1}\n\n"},
		{"raw json", json.RawMessage(`{"b":2}`), "data: {\"b\":2}\n\n"},
		{"struct", struct {
			Text string `json:"text"`
		}{"hi"}, "data: {\"text\":\"hi\"}\n\n"},
		{"multi-line", "one\ntwo", "data: one\ndata: two\n\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := encodeFrame(tc.chunk)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(frame))
		})
	}
}

func TestBridge_DrainsInOrder(t *testing.T) {
	chunks := &sliceChunks{items: []any{"a", json.RawMessage(`{"n":2}`), map[string]int{"n": 3}}}

	body, err := bridgeChunks(context.Background(), chunks)
	require.NoError(t, err)

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "data: a\n\ndata: {\"n\":2}\n\ndata: {\"n\":3}\n\n", string(raw))

	stream := body.(*bridgeStream)
	assert.Equal(t, stateClosed, stream.bridge.State())
	assert.Eventually(t, chunks.closed.Load, time.Second, 10*time.Millisecond)
}

func TestBridge_ErrorAtStart(t *testing.T) {
	boom := errors.New("401 unauthorized")
	chunks := &sliceChunks{err: boom}

	body, err := bridgeChunks(context.Background(), chunks)
	assert.Nil(t, body)
	assert.ErrorIs(t, err, boom)
	assert.True(t, chunks.closed.Load())
}

func TestBridge_EmptyStream(t *testing.T) {
	body, err := bridgeChunks(context.Background(), &sliceChunks{})
	require.NoError(t, err)

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestBridge_ErrorMidStream(t *testing.T) {
	boom := errors.New("connection reset")
	chunks := &sliceChunks{items: []any{"first"}, err: boom}

	body, err := bridgeChunks(context.Background(), chunks)
	require.NoError(t, err)

	raw, err := io.ReadAll(body)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "data: first\n\nevent: error\ndata: {\"error\":\"connection reset\"}\n\n", string(raw))
	assert.Equal(t, stateErrored, body.(*bridgeStream).bridge.State())
}

func TestBridge_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	chunks := &sliceChunks{endless: true}

	body, err := bridgeChunks(ctx, chunks)
	require.NoError(t, err)

	buf := make([]byte, 64)
	_, err = body.Read(buf)
	require.NoError(t, err)

	cancel()

	var readErr error
	for readErr == nil {
		_, readErr = body.Read(buf)
	}
	assert.ErrorIs(t, readErr, context.Canceled)
	assert.Eventually(t, chunks.closed.Load, time.Second, 10*time.Millisecond)
}

func TestNormalize(t *testing.T) {
	ctx := context.Background()

	t.Run("payload untouched", func(t *testing.T) {
		payload := json.RawMessage(`{"id":"x","choices":[]}`)
		resp, err := Normalize(ctx, &llm.Result{Payload: payload}, false)
		require.NoError(t, err)
		assert.Equal(t, payload, resp.Payload)
		assert.Nil(t, resp.Stream)
	})

	t.Run("byte stream wins", func(t *testing.T) {
		stream := io.NopCloser(strings.NewReader("data: raw\r\n\r\n"))
		chunks := &sliceChunks{items: []any{"ignored"}}
		resp, err := Normalize(ctx, &llm.Result{Stream: stream, Chunks: chunks}, true)
		require.NoError(t, err)

		raw, err := io.ReadAll(resp.Stream)
		require.NoError(t, err)
		assert.Equal(t, "data: raw\r\n\r\n", string(raw))
		assert.Zero(t, chunks.idx)
	})

	t.Run("chunks bridged", func(t *testing.T) {
		resp, err := Normalize(ctx, &llm.Result{Chunks: &sliceChunks{items: []any{"x"}}}, true)
		require.NoError(t, err)

		raw, err := io.ReadAll(resp.Stream)
		require.NoError(t, err)
		assert.Equal(t, "data: x\n\n", string(raw))
	})

	t.Run("no stream", func(t *testing.T) {
		_, err := Normalize(ctx, &llm.Result{Payload: json.RawMessage(`{}`)}, true)
		assert.ErrorIs(t, err, api.ErrStreamUnavailable)
		assert.Equal(t, "Provider did not return a stream", err.Error())
	})
}
