package ingest

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/veridex/internal/model"
)

func TestLedger_AppendAndVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	ledger := NewLedger(path)

	note := "/vault/abc-note.md"
	entries := []model.LedgerEntry{
		{
			TS: "2026-01-01T00:00:00Z", Op: "ingest",
			ContentID: "aaa", URL: "https://example.com/a", Domain: "example.com",
			CredibilityScore: 0.8, TrustLevel: "high", HasTranscript: true,
			VaultNote: &note, Success: true,
		},
		{
			TS: "2026-01-01T00:00:01Z", Op: "ingest",
			ContentID: "bbb", URL: "https://example.com/b", Domain: "example.com",
			CredibilityScore: 0.3, TrustLevel: "low", Success: true,
		},
	}

	for _, entry := range entries {
		if err := ledger.Append(entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 ledger lines, got %d", len(lines))
	}

	for i, line := range lines {
		ok, err := VerifyEntry(line)
		if err != nil {
			t.Fatalf("verify line %d: %v", i, err)
		}
		if !ok {
			t.Errorf("line %d checksum should verify", i)
		}
	}

	// Tampering with a field breaks the checksum
	tampered := strings.Replace(string(lines[0]), `"trust_level":"high"`, `"trust_level":"low"`, 1)
	if tampered == string(lines[0]) {
		t.Fatal("tamper replacement did not apply")
	}
	ok, err := VerifyEntry([]byte(tampered))
	if err != nil {
		t.Fatalf("verify tampered: %v", err)
	}
	if ok {
		t.Error("tampered line should fail verification")
	}
}
