// Package ingest turns raw fetched content into scored, indexed,
// optionally vault-published records with an append-only audit trail.
package ingest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/ppiankov/veridex/internal/model"
)

// ErrDuplicate is returned when a URL is already indexed
var ErrDuplicate = errors.New("content already indexed")

// Store manages the SQLite content index: one row per unique URL,
// primary key derived deterministically from the URL.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the content index at the given path
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS contents (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT,
			domain TEXT,
			source_type TEXT,
			date TEXT,
			author TEXT,
			channel TEXT,
			verified INTEGER NOT NULL DEFAULT 0,
			license TEXT,
			summary TEXT,
			key_terms TEXT,
			clean_text TEXT,
			transcript TEXT,
			total REAL NOT NULL,
			source_score REAL NOT NULL,
			transcript_quality REAL NOT NULL,
			consensus_score REAL NOT NULL,
			citation_density REAL NOT NULL,
			freshness_score REAL NOT NULL,
			trust_level TEXT NOT NULL,
			indexed_at TEXT NOT NULL,
			vault_note_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_total ON contents(total)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_trust ON contents(trust_level)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// Has reports whether a content id is already indexed
func (s *Store) Has(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM contents WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	return true, nil
}

// Insert persists one content row. A UNIQUE violation on id or url is
// reported as ErrDuplicate so races between concurrent ingesters of the
// same URL collapse into the duplicate outcome.
func (s *Store) Insert(content *model.IngestContent) error {
	keyTerms, err := json.Marshal(content.KeyTerms)
	if err != nil {
		return fmt.Errorf("marshal key terms: %w", err)
	}

	var date interface{}
	if content.Source.Date != nil {
		date = content.Source.Date.UTC().Format(time.RFC3339)
	}

	_, err = s.db.Exec(
		`INSERT INTO contents (
			id, url, title, domain, source_type, date, author, channel,
			verified, license, summary, key_terms, clean_text, transcript,
			total, source_score, transcript_quality, consensus_score,
			citation_density, freshness_score, trust_level, indexed_at,
			vault_note_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ID,
		content.Source.URL,
		content.Source.Title,
		content.Source.Domain,
		string(content.Source.SourceType),
		date,
		content.Source.Author,
		content.Source.Channel,
		boolToInt(content.Source.Verified),
		content.Source.License,
		content.Summary,
		string(keyTerms),
		content.CleanText,
		content.Transcript,
		model.Round3(content.Score.Total),
		model.Round3(content.Score.SourceScore),
		model.Round3(content.Score.TranscriptQuality),
		model.Round3(content.Score.ConsensusScore),
		model.Round3(content.Score.CitationDensity),
		model.Round3(content.Score.FreshnessScore),
		string(content.Score.TrustLevel),
		content.IndexedAt.UTC().Format(time.RFC3339),
		nullable(content.VaultNote),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicate
		}
		return fmt.Errorf("insert content: %w", err)
	}

	return nil
}

// SetVaultNote records the vault note path on an indexed row
func (s *Store) SetVaultNote(id, path string) error {
	_, err := s.db.Exec(`UPDATE contents SET vault_note_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("set vault note: %w", err)
	}
	return nil
}

// Row is one queried index entry
type Row struct {
	ID         string
	URL        string
	Title      string
	Domain     string
	Total      float64
	TrustLevel model.TrustLevel
	Date       *time.Time
	VaultNote  string
}

// SearchHighTrust returns indexed rows at or above the minimum score,
// ordered by score then date descending
func (s *Store) SearchHighTrust(minScore float64, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, url, title, domain, total, trust_level, date, vault_note_path
		 FROM contents
		 WHERE total >= ?
		 ORDER BY total DESC, date DESC
		 LIMIT ?`,
		minScore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var r Row
		var date, vaultNote sql.NullString
		var trust string
		if err := rows.Scan(&r.ID, &r.URL, &r.Title, &r.Domain, &r.Total, &trust, &date, &vaultNote); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.TrustLevel = model.TrustLevel(trust)
		if date.Valid && date.String != "" {
			if t, err := time.Parse(time.RFC3339, date.String); err == nil {
				r.Date = &t
			}
		}
		r.VaultNote = vaultNote.String
		results = append(results, r)
	}

	return results, rows.Err()
}

// Stats summarizes the content index
type Stats struct {
	TotalContent        int     `json:"total_content"`
	HighTrustCount      int     `json:"high_trust_count"`
	WithTranscriptCount int     `json:"with_transcript_count"`
	AverageScore        float64 `json:"average_score"`
}

// Stats computes aggregate index statistics
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	var avg sql.NullFloat64

	err := s.db.QueryRow(
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN trust_level = 'high' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transcript IS NOT NULL AND transcript != '' THEN 1 ELSE 0 END), 0),
			AVG(total)
		 FROM contents`,
	).Scan(&stats.TotalContent, &stats.HighTrustCount, &stats.WithTranscriptCount, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("index stats: %w", err)
	}

	if avg.Valid {
		stats.AverageScore = model.Round3(avg.Float64)
	}

	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
