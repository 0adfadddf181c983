package ingest

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/veridex/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testContent(url string, total float64) *model.IngestContent {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	return &model.IngestContent{
		ID: model.ContentID(url),
		Source: model.IngestSource{
			URL:        url,
			Title:      "Test Content",
			Domain:     model.DomainOf(url),
			SourceType: model.SourceUnknown,
			Date:       &date,
		},
		CleanText: "Some clean text about earthing.",
		Summary:   "Some clean text about earthing.",
		KeyTerms:  []string{"earthing"},
		Score: model.CredibilityScore{
			Total:             total,
			SourceScore:       total,
			TranscriptQuality: 0.5,
			FreshnessScore:    0.5,
			TrustLevel:        model.TrustLevelFor(total),
		},
		IndexedAt: time.Now().UTC(),
	}
}

func TestStore_InsertAndHas(t *testing.T) {
	store := testStore(t)
	content := testContent("https://example.com/a", 0.8)

	has, err := store.Has(content.ID)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if has {
		t.Error("fresh store should not contain the id")
	}

	if err := store.Insert(content); err != nil {
		t.Fatalf("insert: %v", err)
	}

	has, err = store.Has(content.ID)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !has {
		t.Error("inserted id should be present")
	}
}

func TestStore_DuplicateInsert(t *testing.T) {
	store := testStore(t)
	content := testContent("https://example.com/a", 0.8)

	if err := store.Insert(content); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := store.Insert(content)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	// Same URL under a different id still violates the URL constraint
	clone := testContent("https://example.com/a", 0.8)
	clone.ID = "different-id-0000"
	if err := store.Insert(clone); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for url collision, got %v", err)
	}
}

func TestStore_SearchHighTrust(t *testing.T) {
	store := testStore(t)

	for _, item := range []struct {
		url   string
		total float64
	}{
		{"https://example.com/low", 0.3},
		{"https://example.com/mid", 0.6},
		{"https://example.com/high", 0.9},
	} {
		if err := store.Insert(testContent(item.url, item.total)); err != nil {
			t.Fatalf("insert %s: %v", item.url, err)
		}
	}

	rows, err := store.SearchHighTrust(0.5, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Total < rows[1].Total {
		t.Error("rows should be ordered by score descending")
	}
	if rows[0].URL != "https://example.com/high" {
		t.Errorf("unexpected top row: %s", rows[0].URL)
	}
}

func TestStore_Stats(t *testing.T) {
	store := testStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats on empty store: %v", err)
	}
	if stats.TotalContent != 0 || stats.AverageScore != 0 {
		t.Errorf("empty store stats should be zero: %+v", stats)
	}

	high := testContent("https://example.com/high", 0.9)
	high.Transcript = "a transcript"
	if err := store.Insert(high); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(testContent("https://example.com/low", 0.3)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalContent != 2 {
		t.Errorf("expected 2 total, got %d", stats.TotalContent)
	}
	if stats.HighTrustCount != 1 {
		t.Errorf("expected 1 high trust, got %d", stats.HighTrustCount)
	}
	if stats.WithTranscriptCount != 1 {
		t.Errorf("expected 1 with transcript, got %d", stats.WithTranscriptCount)
	}
	if stats.AverageScore != 0.6 {
		t.Errorf("expected average 0.6, got %f", stats.AverageScore)
	}
}

func TestStore_SetVaultNote(t *testing.T) {
	store := testStore(t)
	content := testContent("https://example.com/a", 0.8)

	if err := store.Insert(content); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.SetVaultNote(content.ID, "/vault/note.md"); err != nil {
		t.Fatalf("set vault note: %v", err)
	}

	rows, err := store.SearchHighTrust(0.5, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].VaultNote != "/vault/note.md" {
		t.Errorf("vault note not recorded: %+v", rows)
	}
}
