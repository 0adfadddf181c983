package model

import "math"

// TrustLevel is a coarse bucketing of the continuous credibility score
type TrustLevel string

const (
	TrustHigh   TrustLevel = "high"
	TrustMedium TrustLevel = "medium"
	TrustLow    TrustLevel = "low"
)

// Trust tier thresholds over the weighted total
const (
	TrustHighThreshold   = 0.70
	TrustMediumThreshold = 0.50
)

// TrustLevelFor maps a total score to its trust tier
func TrustLevelFor(total float64) TrustLevel {
	switch {
	case total >= TrustHighThreshold:
		return TrustHigh
	case total >= TrustMediumThreshold:
		return TrustMedium
	default:
		return TrustLow
	}
}

// TopicType controls how aggressively freshness decays
type TopicType string

const (
	TopicRegulation  TopicType = "regulation"
	TopicStandard    TopicType = "standard"
	TopicFundamental TopicType = "fundamental"
	TopicTool        TopicType = "tool"
	TopicPractice    TopicType = "practice"
)

// ParseTopicType converts a topic tag to a TopicType, defaulting to fundamental
func ParseTopicType(s string) TopicType {
	switch TopicType(s) {
	case TopicRegulation, TopicStandard, TopicTool, TopicPractice:
		return TopicType(s)
	default:
		return TopicFundamental
	}
}

// CredibilityScore is the immutable result of one scoring call.
// Every field is in [0,1]; Total is the weighted sum of the five sub-scores.
type CredibilityScore struct {
	Total             float64    `json:"total"`
	SourceScore       float64    `json:"source_score"`
	TranscriptQuality float64    `json:"transcript_quality"`
	ConsensusScore    float64    `json:"consensus_score"`
	CitationDensity   float64    `json:"citation_density"`
	FreshnessScore    float64    `json:"freshness_score"`
	TrustLevel        TrustLevel `json:"trust_level"`
}

// IsTrustworthy reports whether the score clears the medium tier
func (s CredibilityScore) IsTrustworthy() bool {
	return s.TrustLevel != TrustLow
}

// ToMap flattens the score for storage and display, rounded to 3 decimals
func (s CredibilityScore) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"total":              Round3(s.Total),
		"source_score":       Round3(s.SourceScore),
		"transcript_quality": Round3(s.TranscriptQuality),
		"consensus_score":    Round3(s.ConsensusScore),
		"citation_density":   Round3(s.CitationDensity),
		"freshness_score":    Round3(s.FreshnessScore),
		"trust_level":        string(s.TrustLevel),
	}
}

// Round3 rounds to 3 decimal places
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Weights holds the per-component aggregation weights.
// Zero-valued components fall back to defaults before normalization.
type Weights struct {
	Source     float64 `json:"source" yaml:"source"`
	Transcript float64 `json:"transcript" yaml:"transcript"`
	Consensus  float64 `json:"consensus" yaml:"consensus"`
	Citation   float64 `json:"citation" yaml:"citation"`
	Freshness  float64 `json:"freshness" yaml:"freshness"`
}

// DefaultWeights returns the standard component weights
func DefaultWeights() Weights {
	return Weights{
		Source:     0.35,
		Transcript: 0.25,
		Consensus:  0.15,
		Citation:   0.15,
		Freshness:  0.10,
	}
}

// Normalized merges zero components with defaults and rescales so the
// weights sum to 1.0. Partial overrides always produce a valid distribution.
func (w Weights) Normalized() Weights {
	def := DefaultWeights()
	if w.Source == 0 {
		w.Source = def.Source
	}
	if w.Transcript == 0 {
		w.Transcript = def.Transcript
	}
	if w.Consensus == 0 {
		w.Consensus = def.Consensus
	}
	if w.Citation == 0 {
		w.Citation = def.Citation
	}
	if w.Freshness == 0 {
		w.Freshness = def.Freshness
	}

	sum := w.Source + w.Transcript + w.Consensus + w.Citation + w.Freshness
	if sum <= 0 {
		return def
	}

	return Weights{
		Source:     w.Source / sum,
		Transcript: w.Transcript / sum,
		Consensus:  w.Consensus / sum,
		Citation:   w.Citation / sum,
		Freshness:  w.Freshness / sum,
	}
}

// Sum returns the total of all component weights
func (w Weights) Sum() float64 {
	return w.Source + w.Transcript + w.Consensus + w.Citation + w.Freshness
}
