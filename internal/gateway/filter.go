package gateway

import "github.com/ruizTechServices/new-main-1/pkg/api"

// FilterSystem returns a copy of messages without system turns. The input is
// never modified and applying it twice yields the same result.
func FilterSystem(messages []api.ChatMessage) []api.ChatMessage {
	out := make([]api.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == api.System {
			continue
		}
		out = append(out, m)
	}
	return out
}
