package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync/atomic"

	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

type bridgeState int32

const (
	stateIdle bridgeState = iota
	stateDraining
	stateClosed
	stateErrored
)

func (s bridgeState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateDraining:
		return "draining"
	case stateClosed:
		return "closed"
	default:
		return "errored"
	}
}

// bridge drains a ChunkIterator into an io.Pipe, one SSE frame per chunk.
type bridge struct {
	chunks llm.ChunkIterator
	pw     *io.PipeWriter
	state  atomic.Int32
}

// bridgeStream is the read side handed to the HTTP layer.
type bridgeStream struct {
	*io.PipeReader
	bridge *bridge
}

// bridgeChunks pulls the first chunk synchronously so a failure at stream
// start surfaces as an error before any response bytes are committed.
func bridgeChunks(ctx context.Context, chunks llm.ChunkIterator) (io.ReadCloser, error) {
	if !chunks.Next() {
		err := chunks.Err()
		_ = chunks.Close()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	pr, pw := io.Pipe()
	b := &bridge{chunks: chunks, pw: pw}
	go b.run(ctx, chunks.Current())

	return &bridgeStream{PipeReader: pr, bridge: b}, nil
}

func (b *bridge) State() bridgeState {
	return bridgeState(b.state.Load())
}

func (b *bridge) run(ctx context.Context, first any) {
	defer func() {
		_ = b.chunks.Close()
	}()
	b.state.Store(int32(stateDraining))

	chunk := first
	for {
		frame, err := encodeFrame(chunk)
		if err != nil {
			b.fail(err)
			return
		}
		if _, err := b.pw.Write(frame); err != nil {
			// reader went away
			b.state.Store(int32(stateClosed))
			_ = b.pw.CloseWithError(err)
			return
		}

		select {
		case <-ctx.Done():
			b.state.Store(int32(stateClosed))
			_ = b.pw.CloseWithError(ctx.Err())
			return
		default:
		}

		if !b.chunks.Next() {
			if err := b.chunks.Err(); err != nil {
				b.fail(err)
				return
			}
			b.state.Store(int32(stateClosed))
			_ = b.pw.Close()
			return
		}
		chunk = b.chunks.Current()
	}
}

// fail writes a single error event and terminates the stream.
func (b *bridge) fail(err error) {
	b.state.Store(int32(stateErrored))
	_, _ = b.pw.Write(errorFrame(err))
	_ = b.pw.CloseWithError(err)
}

// encodeFrame renders one chunk as an SSE data event. Strings, byte slices
// and raw JSON go out verbatim; other values are JSON encoded.
func encodeFrame(chunk any) ([]byte, error) {
	var data []byte
	switch v := chunk.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = encoded
	}

	var buf bytes.Buffer
	for _, line := range bytes.Split(data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(bytes.TrimSuffix(line, []byte("\r")))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func errorFrame(err error) []byte {
	payload, _ := json.Marshal(api.ErrorResponse{Error: err.Error()})
	var buf bytes.Buffer
	buf.WriteString("event: error\n")
	buf.WriteString("data: ")
	buf.Write(payload)
	buf.WriteString("\n\n")
	return buf.Bytes()
}
