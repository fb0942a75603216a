package summarizer

import (
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
)

const (
	defaultPrompt   = "Summarize the following text clearly and concisely."
	defaultMaxInput = 16000
	defaultSlack    = 500
	defaultMaxDepth = 8
)

// Config bounds the algorithm. Zero values fall back to the defaults above.
type Config struct {
	MaxInputChars int
	SplitSlack    int
	MaxDepth      int
	DefaultPrompt string
	Options       Options
}

type implSummarizer struct {
	completer Completer
	logger    logger.Logger
	cfg       Config
}

// New creates a Summarizer calling completer for every leaf and merge step.
func New(completer Completer, cfg Config, log logger.Logger) Summarizer {
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = defaultMaxInput
	}
	if cfg.SplitSlack < 0 {
		cfg.SplitSlack = 0
	} else if cfg.SplitSlack == 0 {
		cfg.SplitSlack = defaultSlack
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaultMaxDepth
	}
	if cfg.DefaultPrompt == "" {
		cfg.DefaultPrompt = defaultPrompt
	}

	return &implSummarizer{
		completer: completer,
		logger:    log,
		cfg:       cfg,
	}
}
