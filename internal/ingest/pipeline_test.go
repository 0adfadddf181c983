package ingest

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/veridex/internal/model"
	"github.com/ppiankov/veridex/internal/score"
)

type captureTrial struct {
	events []string
}

func (c *captureTrial) LogSuccess(action, context string, fields map[string]interface{}) {
	c.events = append(c.events, "success:"+action)
}

func (c *captureTrial) LogFailure(action string, err error, context string, fields map[string]interface{}) {
	c.events = append(c.events, "failure:"+action)
}

func (c *captureTrial) has(event string) bool {
	for _, e := range c.events {
		if e == event {
			return true
		}
	}
	return false
}

type denyAll struct{}

func (denyAll) ShouldIngest(string) bool { return false }

func testPipeline(t *testing.T, opts ...Option) (*Pipeline, *Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ledgerPath := filepath.Join(dir, "ledger.jsonl")
	pipeline := NewPipeline(store, NewLedger(ledgerPath), model.DefaultWeights(), opts...)
	return pipeline, store, ledgerPath
}

// An official standards-body domain plus cited sentences scores well
// above the trust threshold.
func trustworthyRequest() Request {
	return Request{
		URL:   "https://www.theiet.org/wiring-regulations-guide",
		Title: "Wiring Regulations Guide",
		Text: "BS 7671 sets the national wiring requirements for electrical installations. " +
			"Every final circuit must meet the maximum Zs values given in the tables. " +
			"Periodic inspection confirms that earthing and bonding remain effective.",
		Topic: model.TopicRegulation,
	}
}

// An unknown blog with repetitive uncited text lands in the low tier.
func lowTrustRequest() Request {
	return Request{
		URL:   "https://random-blog.example/hot-take",
		Title: "Hot Take",
		Text:  "buy buy buy buy buy buy buy buy buy buy",
	}
}

func TestPipeline_IngestThenDuplicate(t *testing.T) {
	trial := &captureTrial{}
	pipeline, store, _ := testPipeline(t, WithTrialLogger(trial))
	ctx := context.Background()

	first := pipeline.Ingest(ctx, trustworthyRequest())
	if first == nil {
		t.Fatal("first ingest should return content")
	}
	if first.ID != model.ContentID(first.Source.URL) {
		t.Errorf("content id mismatch: %s", first.ID)
	}
	if first.Summary == "" || len(first.KeyTerms) == 0 {
		t.Errorf("expected summary and key terms, got %q / %v", first.Summary, first.KeyTerms)
	}

	second := pipeline.Ingest(ctx, trustworthyRequest())
	if second != nil {
		t.Error("second ingest of the same url should return nil")
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalContent != 1 {
		t.Errorf("index should contain exactly one row, got %d", stats.TotalContent)
	}

	if !trial.has("success:ingest") {
		t.Error("expected an ingest success event")
	}
	if !trial.has("success:ingest_skip_duplicate") {
		t.Error("expected a duplicate skip event")
	}
}

func TestPipeline_DedupSurvivesFreshCache(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ledger := NewLedger(filepath.Join(dir, "ledger.jsonl"))

	first := NewPipeline(store, ledger, model.DefaultWeights())
	if first.Ingest(context.Background(), trustworthyRequest()) == nil {
		t.Fatal("first ingest should succeed")
	}

	// A second pipeline over the same store has an empty memory cache;
	// the index itself must still catch the duplicate.
	second := NewPipeline(store, ledger, model.DefaultWeights())
	if second.Ingest(context.Background(), trustworthyRequest()) != nil {
		t.Error("duplicate should be caught by the index, not just the cache")
	}
}

func TestPipeline_VaultNoteForTrustworthy(t *testing.T) {
	vaultDir := filepath.Join(t.TempDir(), "vault")
	pipeline, _, ledgerPath := testPipeline(t, WithVault(vaultDir))

	content := pipeline.Ingest(context.Background(), trustworthyRequest())
	if content == nil {
		t.Fatal("ingest should succeed")
	}
	if !content.Score.IsTrustworthy() {
		t.Fatalf("request should score trustworthy, got %s (%.3f)",
			content.Score.TrustLevel, content.Score.Total)
	}
	if content.VaultNote == "" {
		t.Fatal("trustworthy content should get a vault note")
	}
	if _, err := os.Stat(content.VaultNote); err != nil {
		t.Errorf("vault note file missing: %v", err)
	}

	line := readLedgerLine(t, ledgerPath)
	ok, err := VerifyEntry(line)
	if err != nil {
		t.Fatalf("verify ledger entry: %v", err)
	}
	if !ok {
		t.Error("ledger entry checksum should verify")
	}
}

func TestPipeline_NoVaultNoteForLowTrust(t *testing.T) {
	vaultDir := filepath.Join(t.TempDir(), "vault")
	pipeline, _, _ := testPipeline(t, WithVault(vaultDir))

	content := pipeline.Ingest(context.Background(), lowTrustRequest())
	if content == nil {
		t.Fatal("low-trust ingest still succeeds, only the note is skipped")
	}
	if content.Score.TrustLevel != model.TrustLow {
		t.Fatalf("request should score low, got %s (%.3f)",
			content.Score.TrustLevel, content.Score.Total)
	}
	if content.VaultNote != "" {
		t.Errorf("low-trust content should not get a vault note: %s", content.VaultNote)
	}
	if entries, err := os.ReadDir(vaultDir); err == nil && len(entries) > 0 {
		t.Errorf("vault dir should stay empty, found %d entries", len(entries))
	}
}

func TestPipeline_PrivacyFilterBlocksNote(t *testing.T) {
	vaultDir := filepath.Join(t.TempDir(), "vault")
	trial := &captureTrial{}
	pipeline, _, _ := testPipeline(t,
		WithVault(vaultDir), WithPrivacyFilter(denyAll{}), WithTrialLogger(trial))

	content := pipeline.Ingest(context.Background(), trustworthyRequest())
	if content == nil {
		t.Fatal("filtered ingest should still succeed")
	}
	if content.VaultNote != "" {
		t.Errorf("filtered content should have no vault note: %s", content.VaultNote)
	}
	if !trial.has("success:ingest_note_filtered") {
		t.Error("expected a note-filtered event")
	}
}

func readLedgerLine(t *testing.T, path string) []byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("ledger is empty")
	}
	return append([]byte(nil), scanner.Bytes()...)
}

func TestPipeline_ScorerExposed(t *testing.T) {
	pipeline, _, _ := testPipeline(t)
	got := pipeline.Scorer().Score(score.Input{Domain: "theiet.org"})
	if got.SourceScore != 1.0 {
		t.Errorf("expected official source score 1.0, got %.3f", got.SourceScore)
	}
}
