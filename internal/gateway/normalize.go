package gateway

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

// Response is what the HTTP layer relays to the caller: either the raw JSON
// payload or a byte stream of server-sent events.
type Response struct {
	Provider api.Provider
	Payload  json.RawMessage
	Stream   io.ReadCloser
}

// Normalize turns an adapter result into a Response. Non-streaming payloads are
// passed through untouched. For streaming calls a byte stream wins and is
// relayed byte for byte. A chunk iterator is bridged instead: each chunk is
// written as a "data: <chunk>\n\n" SSE frame, and a mid-stream failure ends
// the stream with an "event: error" frame. Anything else is
// api.ErrStreamUnavailable.
func Normalize(ctx context.Context, res *llm.Result, stream bool) (*Response, error) {
	if res == nil {
		if stream {
			return nil, api.ErrStreamUnavailable
		}
		return &Response{Payload: json.RawMessage("null")}, nil
	}

	if !stream {
		return &Response{Payload: res.Payload}, nil
	}

	switch {
	case res.Stream != nil:
		return &Response{Stream: res.Stream}, nil
	case res.Chunks != nil:
		body, err := bridgeChunks(ctx, res.Chunks)
		if err != nil {
			return nil, err
		}
		return &Response{Stream: body}, nil
	default:
		return nil, api.ErrStreamUnavailable
	}
}
