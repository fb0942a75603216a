package export

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
)

type frontmatter struct {
	Title        string   `yaml:"title"`
	Date         string   `yaml:"date"`
	Participants []string `yaml:"participants"`
	Topics       []string `yaml:"topics"`
	Location     string   `yaml:"location"`
	Description  string   `yaml:"description"`
	Tags         []string `yaml:"tags"`
}

// RenderMarkdown renders a note with YAML frontmatter, the summary and the
// timestamped transcription. Participants become [[wiki links]].
func RenderMarkdown(res pipeline.Result) string {
	md := res.Metadata

	fm := frontmatter{
		Title:        title(res),
		Date:         noteDate(res),
		Participants: []string{},
		Topics:       []string{},
		Location:     md.Location,
		Description:  md.Description,
		Tags:         []string{"meeting"},
	}
	for _, p := range md.Participants {
		if name := strings.TrimSpace(p.Name); name != "" {
			fm.Participants = append(fm.Participants, fmt.Sprintf("[[%s]]", name))
		}
	}

	var head bytes.Buffer
	enc := yaml.NewEncoder(&head)
	enc.SetIndent(2)
	// encoding a plain struct of strings cannot fail
	_ = enc.Encode(fm)
	_ = enc.Close()

	transcription := res.TimelineText
	if transcription == "" {
		transcription = res.Transcription
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head.Bytes())
	b.WriteString("---\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString(strings.TrimSpace(res.Summary))
	b.WriteString("\n\n---\n\n")
	b.WriteString("## Transcription\n\n")
	b.WriteString(strings.TrimSpace(transcription))
	b.WriteString("\n")
	return b.String()
}

func title(res pipeline.Result) string {
	if t := strings.TrimSpace(res.Metadata.Title); t != "" {
		return t
	}
	return "Meeting"
}

func noteDate(res pipeline.Result) string {
	if ts := res.Metadata.TimeStart; ts != "" {
		if len(ts) > 19 {
			ts = ts[:19]
		}
		return ts
	}
	return res.CreatedAt.Format("2006-01-02T15:04:05")
}
