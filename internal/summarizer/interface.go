package summarizer

import "context"

// Role of a chat message sent to the model.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat message.
type Message struct {
	Role    Role
	Content string
}

// Options tune a single completion call.
// A nil Temperature leaves the provider default in place.
type Options struct {
	Model       string
	Temperature *float64
}

// Completer is the external language model. It fails when the response has no usable text.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Summarizer shortens text according to prompt, splitting and merging when the text
// is larger than a single model call accepts.
type Summarizer interface {
	Summarize(ctx context.Context, text, prompt string) (string, error)
}
