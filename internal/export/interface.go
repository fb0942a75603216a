package export

import (
	"context"

	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
)

// ResultReader loads a finished session.
type ResultReader interface {
	Result(ctx context.Context, id string) (pipeline.Result, error)
}

// Exporter writes finished sessions to the output directory.
type Exporter interface {
	// Export writes the enabled formats and returns the written paths.
	Export(ctx context.Context, res pipeline.Result) ([]string, error)
	// Run exports every session that reaches success until ctx is done.
	Run(ctx context.Context)
}
