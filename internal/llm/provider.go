package llm

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ruizTechServices/new-main-1/pkg/api"
)

// Provider is a long-lived, authenticated client for one upstream vendor.
// Implementations are immutable after construction and safe for concurrent use.
type Provider interface {
	Name() api.Provider
	// Send translates req into the vendor's wire contract and performs the call.
	// req.Messages never contains system messages.
	Send(ctx context.Context, req *api.ChatRequest) (*Result, error)
}

// Result is what an adapter hands back. Exactly one field is set.
type Result struct {
	// Payload is the aggregated JSON body of a non-streaming call.
	Payload json.RawMessage
	// Stream is a transport-level byte stream relayed to the caller as is.
	Stream io.ReadCloser
	// Chunks yields discrete stream events that still need SSE framing.
	Chunks ChunkIterator
}

// ChunkIterator is a pull-based sequence of stream events.
type ChunkIterator interface {
	Next() bool
	// Current returns the chunk read by the last successful Next. Strings,
	// byte slices and json.RawMessage values are emitted verbatim.
	Current() any
	Err() error
	Close() error
}

// EventStream is the method set shared by the vendor SDK stream decoders.
type EventStream[T any] interface {
	Next() bool
	Current() T
	Err() error
	Close() error
}

// FromSSE adapts an SDK event stream into a ChunkIterator that yields the
// untouched JSON of each event.
func FromSSE[T any](stream EventStream[T], raw func(T) string) ChunkIterator {
	return &sseIterator[T]{stream: stream, raw: raw}
}

type sseIterator[T any] struct {
	stream EventStream[T]
	raw    func(T) string
}

func (it *sseIterator[T]) Next() bool { return it.stream.Next() }

func (it *sseIterator[T]) Current() any {
	return json.RawMessage(it.raw(it.stream.Current()))
}

func (it *sseIterator[T]) Err() error { return it.stream.Err() }

func (it *sseIterator[T]) Close() error { return it.stream.Close() }
