package geminiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
)

var (
	ErrNoAPIKeys     = errors.New("no Gemini API keys configured")
	ErrEmptyResponse = errors.New("empty response from Gemini")
)

// Complete sends the messages to Gemini. System messages become the system
// instruction. Keys are rotated on 429 / quota errors until each was tried once.
func (c *implCompleter) Complete(ctx context.Context, messages []summarizer.Message, opts summarizer.Options) (string, error) {
	if len(c.apiKeys) == 0 {
		return "", ErrNoAPIKeys
	}

	model := opts.Model
	if model == "" {
		model = c.model
	}

	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		if m.Role == summarizer.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}

	cfg := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}
	if opts.Temperature != nil {
		t := float32(*opts.Temperature)
		cfg.Temperature = &t
	}

	var lastErr error
	for range len(c.apiKeys) {
		idx, key := c.key()

		text, err := c.generate(ctx, key, model, contents, cfg)
		if err == nil {
			return text, nil
		}
		if !isRateLimited(err) {
			return "", fmt.Errorf("generate content: %w", err)
		}

		c.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		c.rotateKey(idx)
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implCompleter) callGemini(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		if text != "" {
			return text, nil
		}
	}

	return "", ErrEmptyResponse
}

func (c *implCompleter) key() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey, c.apiKeys[c.currentKey]
}

// rotateKey moves past idx unless another caller already did.
func (c *implCompleter) rotateKey(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == idx {
		c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
