package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/veridex/internal/model"
)

const maxTitleLength = 50

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// NoteWriter renders ingested content as Markdown notes with YAML-style
// frontmatter for human browsing in an external document vault.
type NoteWriter struct {
	dir string
}

// NewNoteWriter creates a note writer rooted at dir
func NewNoteWriter(dir string) *NoteWriter {
	return &NoteWriter{dir: dir}
}

// NotePath builds the filesystem-safe note path for a content item:
// {content_id}-{sanitized_title_truncated_50}.md
func (w *NoteWriter) NotePath(id, title string) string {
	safe := unsafeFilenameRe.ReplaceAllString(strings.TrimSpace(title), "-")
	safe = strings.Trim(safe, "-")
	if len(safe) > maxTitleLength {
		safe = safe[:maxTitleLength]
		safe = strings.Trim(safe, "-")
	}
	if safe == "" {
		safe = "untitled"
	}
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.md", id, safe))
}

// Render produces the note body: frontmatter, summary, key terms,
// credibility breakdown, and the transcript-or-text content
func (w *NoteWriter) Render(content *model.IngestContent) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "url: %s\n", content.Source.URL)
	fmt.Fprintf(&b, "domain: %s\n", content.Source.Domain)
	fmt.Fprintf(&b, "source_type: %s\n", content.Source.SourceType)
	if content.Source.Author != "" {
		fmt.Fprintf(&b, "author: %s\n", content.Source.Author)
	}
	if content.Source.Channel != "" {
		fmt.Fprintf(&b, "channel: %s\n", content.Source.Channel)
	}
	if content.Source.Date != nil {
		fmt.Fprintf(&b, "date: %s\n", content.Source.Date.Format("2006-01-02"))
	}
	if content.Source.License != "" {
		fmt.Fprintf(&b, "license: %s\n", content.Source.License)
	}
	fmt.Fprintf(&b, "credibility: %.3f\n", content.Score.Total)
	fmt.Fprintf(&b, "trust_level: %s\n", content.Score.TrustLevel)
	fmt.Fprintf(&b, "indexed_at: %s\n", content.IndexedAt.UTC().Format("2006-01-02T15:04:05Z"))
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", content.Source.Title)

	if content.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(content.Summary)
		b.WriteString("\n\n")
	}

	if len(content.KeyTerms) > 0 {
		b.WriteString("## Key Terms\n\n")
		for _, term := range content.KeyTerms {
			fmt.Fprintf(&b, "- %s\n", term)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Credibility Assessment\n\n")
	fmt.Fprintf(&b, "- Source authority: %.3f\n", content.Score.SourceScore)
	fmt.Fprintf(&b, "- Transcript quality: %.3f\n", content.Score.TranscriptQuality)
	fmt.Fprintf(&b, "- Consensus: %.3f\n", content.Score.ConsensusScore)
	fmt.Fprintf(&b, "- Citation density: %.3f\n", content.Score.CitationDensity)
	fmt.Fprintf(&b, "- Freshness: %.3f\n", content.Score.FreshnessScore)
	fmt.Fprintf(&b, "- **Total: %.3f (%s)**\n\n", content.Score.Total, content.Score.TrustLevel)

	body := content.Transcript
	if body == "" {
		body = content.CleanText
	}
	if body != "" {
		b.WriteString("## Content\n\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	return b.String()
}

// Write renders the note and writes it to its path
func (w *NoteWriter) Write(content *model.IngestContent, extraSections ...string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create vault dir: %w", err)
	}

	note := w.Render(content)
	for _, section := range extraSections {
		if section != "" {
			note += "\n" + section + "\n"
		}
	}

	path := w.NotePath(content.ID, content.Source.Title)
	if err := os.WriteFile(path, []byte(note), 0644); err != nil {
		return "", fmt.Errorf("write vault note: %w", err)
	}

	return path, nil
}
