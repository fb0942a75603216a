package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

var reUnsafe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

func (e *implExporter) Export(ctx context.Context, res pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := filepath.Join(e.cfg.OutputDir, fileBase(res))
	var written []string

	if e.cfg.Markdown {
		path := base + ".md"
		if err := os.WriteFile(path, []byte(RenderMarkdown(res)), 0644); err != nil {
			return written, fmt.Errorf("write markdown: %w", err)
		}
		written = append(written, path)
	}

	if e.cfg.Docx {
		path := base + ".docx"
		if err := writeDocx(res, path); err != nil {
			return written, fmt.Errorf("write docx: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

func (e *implExporter) Run(ctx context.Context) {
	events, cancel := e.bus.Subscribe(e.cfg.EventBuffer)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind != eventbus.KindStatusChanged || ev.Status != string(queue.StatusSuccess) {
				continue
			}
			e.exportSession(ctx, ev.SessionID)
		}
	}
}

func (e *implExporter) exportSession(ctx context.Context, id string) {
	res, err := e.results.Result(ctx, id)
	if err != nil {
		e.logger.Warn(ctx, "Export skipped for %s: %v", id, err)
		return
	}

	paths, err := e.Export(ctx, res)
	if err != nil {
		e.logger.Error(ctx, "Export of %s failed: %v", id, err)
		return
	}
	for _, p := range paths {
		e.logger.Info(ctx, "[DONE] %s -> %s", id, p)
	}
}

func fileBase(res pipeline.Result) string {
	name := res.DisplayName
	if name == "" {
		name = res.ID
	}
	return reUnsafe.ReplaceAllString(name, "_")
}
