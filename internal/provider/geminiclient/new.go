package geminiclient

import (
	"context"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
)

const defaultModel = "gemini-2.5-flash"

type generateFunc func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)

type implCompleter struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int

	generate generateFunc
}

// New creates a Completer that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string, log logger.Logger) summarizer.Completer {
	if model == "" {
		model = defaultModel
	}
	c := &implCompleter{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}
	c.generate = c.callGemini
	return c
}
