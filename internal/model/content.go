package model

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// SourceType tags where the content came from
type SourceType string

const (
	SourceYouTube       SourceType = "youtube"
	SourceArchive       SourceType = "archive"
	SourceArxiv         SourceType = "arxiv"
	SourceInstitutional SourceType = "institutional"
	SourcePublisher     SourceType = "publisher"
	SourceUnknown       SourceType = "unknown"
)

// IngestSource describes the origin of one content item.
// Immutable after construction.
type IngestSource struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Domain     string     `json:"domain"`
	SourceType SourceType `json:"source_type"`
	Date       *time.Time `json:"date,omitempty"`
	Author     string     `json:"author,omitempty"`
	Channel    string     `json:"channel,omitempty"`
	Verified   bool       `json:"verified"`
	License    string     `json:"license,omitempty"`
}

// IngestContent aggregates one source with its derived artifacts.
// Created once per successful ingest call; never mutated after creation.
type IngestContent struct {
	ID         string           `json:"id"`
	Source     IngestSource     `json:"source"`
	RawText    string           `json:"raw_text,omitempty"`
	CleanText  string           `json:"clean_text,omitempty"`
	Transcript string           `json:"transcript,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	KeyTerms   []string         `json:"key_terms,omitempty"`
	Score      CredibilityScore `json:"score"`
	IndexedAt  time.Time        `json:"indexed_at"`
	VaultNote  string           `json:"vault_note,omitempty"`
}

// ContentID derives the stable index key for a URL.
// Same URL always maps to the same id; different URLs for identical
// content are deliberately treated as distinct.
func ContentID(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])[:16]
}

// DomainOf extracts the network location of a URL, without port
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.ToLower(host)
}

// CrossSource is a sample of another item discussing similar claims,
// used for consensus scoring
type CrossSource struct {
	URL    string   `json:"url,omitempty"`
	Text   string   `json:"text,omitempty"`
	Claims []string `json:"claims,omitempty"`
}

// LedgerEntry is one append-only audit line per ingest event.
// Checksum covers the entry's own serialized fields; it does not chain
// to prior entries.
type LedgerEntry struct {
	TS               string  `json:"ts"`
	Op               string  `json:"op"`
	ContentID        string  `json:"content_id"`
	URL              string  `json:"url"`
	Domain           string  `json:"domain"`
	CredibilityScore float64 `json:"credibility_score"`
	TrustLevel       string  `json:"trust_level"`
	HasTranscript    bool    `json:"has_transcript"`
	VaultNote        *string `json:"vault_note"`
	Success          bool    `json:"success"`
	Checksum         string  `json:"checksum,omitempty"`
}
