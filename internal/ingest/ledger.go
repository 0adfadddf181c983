package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/veridex/internal/model"
)

// Ledger is the append-only audit log: one JSON line per ingest event.
// Each line carries a checksum over its own serialized fields. Lines do
// not chain to each other.
type Ledger struct {
	path string
}

// NewLedger creates a ledger writing to the given path
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Append writes one entry, filling in its checksum first
func (l *Ledger) Append(entry model.LedgerEntry) error {
	entry.Checksum = ""
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}
	entry.Checksum = EntryChecksum(payload)

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	return nil
}

// EntryChecksum computes the tamper-evidence tag for a serialized entry
func EntryChecksum(payload []byte) string {
	hash := sha256.Sum256(payload)
	return hex.EncodeToString(hash[:])[:16]
}

// VerifyEntry re-derives the checksum of a ledger line and compares it
func VerifyEntry(line []byte) (bool, error) {
	var entry model.LedgerEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return false, fmt.Errorf("unmarshal ledger entry: %w", err)
	}

	want := entry.Checksum
	entry.Checksum = ""
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("marshal ledger entry: %w", err)
	}

	return EntryChecksum(payload) == want, nil
}
