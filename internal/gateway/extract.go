package gateway

import (
	"strings"

	"github.com/ruizTechServices/new-main-1/pkg/api"
	"github.com/tidwall/gjson"
)

// Extract reads the assistant text and model out of a raw provider payload.
// It understands chat-completion choices, Anthropic content blocks and Gemini
// candidates regardless of which provider produced the payload.
func Extract(provider api.Provider, payload []byte) api.Completion {
	out := api.Completion{Provider: provider}

	model := gjson.GetBytes(payload, "model")
	if !model.Exists() {
		model = gjson.GetBytes(payload, "modelVersion")
	}
	out.Model = model.String()

	if r := gjson.GetBytes(payload, "choices.0.message.content"); r.Exists() {
		out.Text = r.String()
		return out
	}
	if r := gjson.GetBytes(payload, "content.#.text"); r.Exists() && len(r.Array()) > 0 {
		out.Text = joinText(r)
		return out
	}
	if r := gjson.GetBytes(payload, "candidates.0.content.parts.#.text"); r.Exists() {
		out.Text = joinText(r)
	}
	return out
}

func joinText(r gjson.Result) string {
	var sb strings.Builder
	for _, part := range r.Array() {
		sb.WriteString(part.String())
	}
	return sb.String()
}
