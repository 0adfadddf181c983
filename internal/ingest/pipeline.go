package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/veridex/internal/cache"
	"github.com/ppiankov/veridex/internal/extract"
	"github.com/ppiankov/veridex/internal/llm"
	"github.com/ppiankov/veridex/internal/model"
	"github.com/ppiankov/veridex/internal/score"
)

const (
	summarySentences = 3
	dedupCacheTTL    = 30 * time.Minute
)

// Request carries everything the fetch collaborator learned about one
// content item
type Request struct {
	URL          string
	Title        string
	Text         string
	Transcript   string
	Date         *time.Time
	Topic        model.TopicType
	Metadata     score.Metadata
	CrossSources []model.CrossSource
}

// Pipeline orchestrates dedup-checked ingestion: normalization, scoring,
// indexing, optional vault publication, and ledger auditing. It is
// synchronous; same-URL races between concurrent callers are resolved by
// the index's UNIQUE constraint.
type Pipeline struct {
	store      *Store
	ledger     *Ledger
	vault      *NoteWriter // nil disables note writing
	scorer     *score.Scorer
	filter     PrivacyFilter
	trial      TrialLogger
	summarizer *llm.Summarizer // nil disables AI note sections
	dedup      cache.Cache
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithVault enables vault-note writing under dir
func WithVault(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.vault = NewNoteWriter(dir)
		}
	}
}

// WithPrivacyFilter installs the note-writing gate
func WithPrivacyFilter(f PrivacyFilter) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.filter = f
		}
	}
}

// WithTrialLogger installs the outcome logger
func WithTrialLogger(t TrialLogger) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.trial = t
		}
	}
}

// WithSummarizer installs the optional note summarizer
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) {
		p.summarizer = s
	}
}

// NewPipeline creates a pipeline over an open store and ledger
func NewPipeline(store *Store, ledger *Ledger, weights model.Weights, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  store,
		ledger: ledger,
		scorer: score.NewScorer(weights),
		filter: AllowAll{},
		trial:  NewTrialLogger(nil),
		dedup:  cache.NewMemoryCache(dedupCacheTTL, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scorer exposes the pipeline's scorer for direct scoring calls
func (p *Pipeline) Scorer() *score.Scorer {
	return p.scorer
}

// Ingest processes one content item. It returns nil for duplicates and
// failures; failures are reported to the trial logger, never propagated.
// Batch callers are expected to fire and forget.
func (p *Pipeline) Ingest(ctx context.Context, req Request) *model.IngestContent {
	id := model.ContentID(req.URL)

	dup, err := p.isDuplicate(id)
	if err != nil {
		p.trial.LogFailure("ingest", err, req.URL, nil)
		return nil
	}
	if dup {
		p.trial.LogSuccess("ingest_skip_duplicate", req.URL, map[string]interface{}{"content_id": id})
		return nil
	}

	content, err := p.run(ctx, id, req)
	if err != nil {
		p.trial.LogFailure("ingest", err, req.URL, map[string]interface{}{"content_id": id})
		return nil
	}

	p.trial.LogSuccess("ingest", req.URL, map[string]interface{}{
		"content_id":  id,
		"trust_level": string(content.Score.TrustLevel),
		"total":       model.Round3(content.Score.Total),
	})

	return content
}

func (p *Pipeline) isDuplicate(id string) (bool, error) {
	if _, found := p.dedup.Get(id); found {
		return true, nil
	}
	has, err := p.store.Has(id)
	if err != nil {
		return false, err
	}
	if has {
		_ = p.dedup.Set(id, []byte{1}, 0)
	}
	return has, nil
}

func (p *Pipeline) run(ctx context.Context, id string, req Request) (*model.IngestContent, error) {
	domain := model.DomainOf(req.URL)

	cleanText := extract.Normalize(req.Text)
	transcript := extract.Normalize(req.Transcript)

	body := transcript
	if body == "" {
		body = cleanText
	}

	summary := extract.Summarize(body, summarySentences)
	keyTerms := extract.KeyTerms(body)

	credibility := p.scorer.Score(score.Input{
		Domain:       domain,
		Text:         cleanText,
		Transcript:   transcript,
		Date:         req.Date,
		Topic:        req.Topic,
		CrossSources: req.CrossSources,
		Metadata:     req.Metadata,
	})

	content := &model.IngestContent{
		ID: id,
		Source: model.IngestSource{
			URL:        req.URL,
			Title:      req.Title,
			Domain:     domain,
			SourceType: sourceTypeOf(req.Metadata.SourceType),
			Date:       req.Date,
			Author:     req.Metadata.Author,
			Channel:    req.Metadata.Channel,
			Verified:   req.Metadata.Verified || req.Metadata.ChannelVerified,
			License:    req.Metadata.License,
		},
		RawText:    req.Text,
		CleanText:  cleanText,
		Transcript: transcript,
		Summary:    summary,
		KeyTerms:   keyTerms,
		Score:      credibility,
		IndexedAt:  time.Now().UTC(),
	}

	if err := p.store.Insert(content); err != nil {
		return nil, err
	}
	_ = p.dedup.Set(id, []byte{1}, 0)

	if p.vault != nil && credibility.IsTrustworthy() {
		notePath, err := p.writeNote(ctx, content)
		if err != nil {
			return nil, err
		}
		if notePath != "" {
			content.VaultNote = notePath
			if err := p.store.SetVaultNote(id, notePath); err != nil {
				return nil, err
			}
		}
	}

	if err := p.appendLedger(content); err != nil {
		return nil, err
	}

	return content, nil
}

// writeNote renders and writes the vault note unless the privacy filter
// declines. A filtered note is not an error; the ingest still succeeds.
func (p *Pipeline) writeNote(ctx context.Context, content *model.IngestContent) (string, error) {
	path := p.vault.NotePath(content.ID, content.Source.Title)

	if !p.filter.ShouldIngest(path) {
		p.trial.LogSuccess("ingest_note_filtered", content.Source.URL, map[string]interface{}{"path": path})
		return "", nil
	}

	var extra string
	if p.summarizer != nil {
		section, err := p.summarizer.Summarize(ctx, content)
		if err != nil {
			// Summary is decoration; the note is still written without it
			p.trial.LogFailure("ingest_llm_summary", err, content.Source.URL, nil)
		} else {
			extra = section
		}
	}

	written, err := p.vault.Write(content, extra)
	if err != nil {
		return "", fmt.Errorf("write vault note: %w", err)
	}

	return written, nil
}

func (p *Pipeline) appendLedger(content *model.IngestContent) error {
	var vaultNote *string
	if content.VaultNote != "" {
		vaultNote = &content.VaultNote
	}

	return p.ledger.Append(model.LedgerEntry{
		TS:               time.Now().UTC().Format(time.RFC3339),
		Op:               "ingest",
		ContentID:        content.ID,
		URL:              content.Source.URL,
		Domain:           content.Source.Domain,
		CredibilityScore: model.Round3(content.Score.Total),
		TrustLevel:       string(content.Score.TrustLevel),
		HasTranscript:    content.Transcript != "",
		VaultNote:        vaultNote,
		Success:          true,
	})
}

// SearchHighTrust queries the index for rows at or above minScore
func (p *Pipeline) SearchHighTrust(minScore float64, limit int) ([]Row, error) {
	return p.store.SearchHighTrust(minScore, limit)
}

// Stats returns aggregate index statistics
func (p *Pipeline) Stats() (Stats, error) {
	return p.store.Stats()
}

func sourceTypeOf(tag string) model.SourceType {
	switch model.SourceType(tag) {
	case model.SourceYouTube, model.SourceArchive, model.SourceArxiv,
		model.SourceInstitutional, model.SourcePublisher:
		return model.SourceType(tag)
	default:
		return model.SourceUnknown
	}
}
