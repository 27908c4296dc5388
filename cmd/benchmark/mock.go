package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Each upstream answers in its vendor's wire format so every adapter and
// both normalizer paths (byte stream and bridged chunks) are under load.
var (
	openaiUnary  = []byte(`{"id":"bench-123","object":"chat.completion","created":1,"model":"gpt-3.5-turbo","choices":[{"index":0,"message":{"role":"assistant","content":"Hello"},"finish_reason":"stop"}]}`)
	openaiChunks = []string{
		`data: {"id":"bench-123","object":"chat.completion.chunk","created":1,"model":"gpt-3.5-turbo","choices":[{"index":0,"delta":{"content":"Bench"}}]}`,
		`data: {"id":"bench-123","object":"chat.completion.chunk","created":1,"model":"gpt-3.5-turbo","choices":[{"index":0,"delta":{"content":"mark"}}]}`,
		`data: [DONE]`,
	}

	anthropicUnary  = []byte(`{"id":"msg_bench","type":"message","role":"assistant","model":"claude-3-haiku-20240307","content":[{"type":"text","text":"Hello"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`)
	anthropicEvents = []string{
		"event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_bench\",\"type\":\"message\",\"role\":\"assistant\",\"model\":\"claude-3-haiku-20240307\",\"content\":[],\"usage\":{\"input_tokens\":1,\"output_tokens\":0}}}",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Bench\"}}",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"mark\"}}",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}",
	}

	geminiUnary  = []byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello"}]},"finishReason":"STOP"}],"modelVersion":"gemini-1.5-pro-002"}`)
	geminiChunks = []string{
		`data: {"candidates":[{"content":{"role":"model","parts":[{"text":"Bench"}]}}]}`,
		`data: {"candidates":[{"content":{"role":"model","parts":[{"text":"mark"}]}}]}`,
	}

	mistralUnary  = []byte(`{"id":"bench-m","object":"chat.completion","model":"mistral-small-latest","choices":[{"index":0,"message":{"role":"assistant","content":"Hello"},"finish_reason":"stop"}]}`)
	mistralChunks = []string{
		`data: {"id":"bench-m","model":"mistral-small-latest","choices":[{"index":0,"delta":{"content":"Bench"}}]}`,
		`data: {"id":"bench-m","model":"mistral-small-latest","choices":[{"index":0,"delta":{"content":"mark"}}]}`,
		`data: [DONE]`,
	}
)

func startMockUpstreams() {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /openai/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		serveChat(w, wantsStream(r), openaiUnary, openaiChunks)
	})
	mux.HandleFunc("POST /anthropic/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		serveChat(w, wantsStream(r), anthropicUnary, anthropicEvents)
	})
	mux.HandleFunc("POST /gemini/models/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ":streamGenerateContent"):
			serveChat(w, true, nil, geminiChunks)
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			serveChat(w, false, geminiUnary, nil)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("POST /mistral/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		serveChat(w, wantsStream(r), mistralUnary, mistralChunks)
	})

	if err := http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux); err != nil {
		fmt.Printf("mock upstreams stopped: %v\n", err)
	}
}

func wantsStream(r *http.Request) bool {
	var req struct {
		Stream bool `json:"stream"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	return req.Stream
}

func serveChat(w http.ResponseWriter, stream bool, unary []byte, events []string) {
	if !stream {
		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(unary)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	flusher, _ := w.(http.Flusher)
	for _, event := range events {
		time.Sleep(50 * time.Millisecond)
		_, _ = fmt.Fprintf(w, "%s\n\n", event)
		if flusher != nil {
			flusher.Flush()
		}
	}
}
