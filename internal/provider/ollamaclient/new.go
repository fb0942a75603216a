package ollamaclient

import (
	"context"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
)

const defaultModel = "llama3:8b"

type chatFunc func(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error

type implCompleter struct {
	farm   *ollamafarm.Farm
	model  string
	logger logger.Logger
	chat   chatFunc
}

// New creates a Completer that sends each request to the first online host.
// Hosts that fail to register are logged and skipped.
func New(ctx context.Context, hosts []string, model string, log logger.Logger) summarizer.Completer {
	if model == "" {
		model = defaultModel
	}

	farm := ollamafarm.New()
	for _, h := range hosts {
		if err := farm.RegisterURL(h, nil); err != nil {
			log.Warn(ctx, "Failed to register ollama host %s: %v", h, err)
		}
	}

	c := &implCompleter{
		farm:   farm,
		model:  model,
		logger: log,
	}
	c.chat = c.chatFirstOnline
	return c
}
