package llm

import "context"

// Provider is the core abstraction for chat-completion backends.
// A provider receives a conversation and returns free text; no structure is
// imposed on or checked in the reply.
type Provider interface {
	// Generate sends the conversation and returns the model's reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// Messages is the conversation. Tutor calls always send exactly one
	// user message and no system prompt.
	Messages []Message

	// MaxTokens caps the reply length. Zero leaves the backend default.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the backend default.
	Temperature float64
}

// UserPrompt builds a single-turn request.
func UserPrompt(prompt string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: prompt}}}
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the reply exactly as returned by the backend.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a short alias to a provider model ID. Anything else is
// taken as a raw model ID.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
