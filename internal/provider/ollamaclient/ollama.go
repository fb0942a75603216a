package ollamaclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"

	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
)

var (
	ErrNoHost        = errors.New("no ollama host online")
	ErrEmptyResponse = errors.New("empty response from ollama")
)

// Complete runs a non-streaming chat request.
func (c *implCompleter) Complete(ctx context.Context, messages []summarizer.Message, opts summarizer.Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: convertMessages(messages),
		Stream:   &stream,
	}
	if opts.Temperature != nil {
		req.Options = map[string]interface{}{"temperature": *opts.Temperature}
	}

	var sb strings.Builder
	err := c.chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return sb.String(), nil
}

func (c *implCompleter) chatFirstOnline(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error {
	host := c.farm.First(&ollamafarm.Where{Offline: false})
	if host == nil {
		return fmt.Errorf("%w for model %s", ErrNoHost, req.Model)
	}
	return host.Client().Chat(ctx, req, fn)
}

func convertMessages(messages []summarizer.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
