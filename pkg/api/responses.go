package api

// ErrorResponse is the body of every non-2xx response. Error holds either a
// message string or a list of Issue values.
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

// Completion is the provider-agnostic view of a non-streaming reply.
type Completion struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text"`
}

// ProviderStatus describes one provider as seen by the client registry.
type ProviderStatus struct {
	ID        Provider `json:"id"`
	Available bool     `json:"available"`
	Reason    string   `json:"reason,omitempty"`
	Models    []string `json:"models"`
}
