package score

import (
	"math"
	"strings"
	"time"

	"github.com/ppiankov/veridex/internal/extract"
	"github.com/ppiankov/veridex/internal/model"
)

// timeNow is the clock used for freshness decay (injectable for tests)
var timeNow = time.Now

// Standards bodies, government registries, and long-term archives.
// Matched before everything else.
var officialDomains = map[string]bool{
	"theiet.org":         true,
	"bsigroup.com":       true,
	"iec.ch":             true,
	"iso.org":            true,
	"ieee.org":           true,
	"ietf.org":           true,
	"w3.org":             true,
	"nist.gov":           true,
	"legislation.gov.uk": true,
	"hse.gov.uk":         true,
	"archive.org":        true,
}

// Academic and government TLD suffixes
var institutionalSuffixes = []string{
	".edu", ".ac.uk", ".gov", ".gov.uk", ".mil", ".edu.au", ".ac.nz",
}

// Known technical publishers
var publisherDomains = map[string]bool{
	"oreilly.com":       true,
	"springer.com":      true,
	"wiley.com":         true,
	"elsevier.com":      true,
	"nature.com":        true,
	"sciencedirect.com": true,
	"cambridge.org":     true,
}

// Half-life in days per topic classification
var halfLifeDays = map[model.TopicType]float64{
	model.TopicRegulation:  730,
	model.TopicStandard:    1095,
	model.TopicTool:        365,
	model.TopicPractice:    730,
	model.TopicFundamental: 1825,
}

const (
	referenceWordCount       = 2000.0 // words for a full-length transcript
	excellentCitationDensity = 0.30   // cited sentences per sentence
	classicAgeDays           = 3650.0 // fundamentals older than this are classics
	classicFreshness         = 0.9
	unknownSourceFloor       = 0.2
	neutralFreshness         = 0.5
)

// Metadata carries source evidence consumed by the authority rules.
// Extra keys are recorded by the pipeline but never interpreted here.
type Metadata struct {
	SourceType      string
	Author          string
	Channel         string
	Verified        bool
	ChannelVerified bool
	HasReferences   bool
	License         string
	Extra           map[string]string
}

// Input is the evidence for one scoring call. All fields are optional
// except Domain; absent inputs degrade to neutral or zero sub-scores.
type Input struct {
	Domain       string
	Text         string
	Transcript   string
	Date         *time.Time
	Topic        model.TopicType
	CrossSources []model.CrossSource
	Metadata     Metadata
}

// Scorer produces reproducible, explainable credibility scores.
// It owns no state beyond its normalized weights and performs no I/O.
type Scorer struct {
	weights model.Weights
}

// NewScorer creates a scorer. Weights are merged over defaults and
// renormalized so they always sum to 1.0.
func NewScorer(weights model.Weights) *Scorer {
	return &Scorer{weights: weights.Normalized()}
}

// Weights returns the normalized component weights in use
func (s *Scorer) Weights() model.Weights {
	return s.weights
}

// Score computes the five sub-scores and their weighted total.
// Deterministic for fixed inputs and a fixed clock.
func (s *Scorer) Score(in Input) model.CredibilityScore {
	body := in.Transcript
	if body == "" {
		body = in.Text
	}

	source := s.sourceAuthority(in.Domain, in.Metadata)
	quality := s.transcriptQuality(body)
	citation := s.citationDensity(body)
	freshness := s.freshness(in.Date, in.Topic)
	consensus := s.consensus(body, in.CrossSources)

	total := s.weights.Source*source +
		s.weights.Transcript*quality +
		s.weights.Consensus*consensus +
		s.weights.Citation*citation +
		s.weights.Freshness*freshness
	total = clamp01(total)

	return model.CredibilityScore{
		Total:             total,
		SourceScore:       source,
		TranscriptQuality: quality,
		ConsensusScore:    consensus,
		CitationDensity:   citation,
		FreshnessScore:    freshness,
		TrustLevel:        model.TrustLevelFor(total),
	}
}

// sourceAuthority walks the rule chain in priority order; the first
// matching rule wins. Unknown sources get a floor, never zero.
func (s *Scorer) sourceAuthority(domain string, meta Metadata) float64 {
	host := strings.ToLower(strings.TrimSpace(domain))

	if matchesDomain(host, officialDomains) {
		return 1.0
	}

	for _, suffix := range institutionalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return 0.85
		}
	}

	if matchesDomain(host, publisherDomains) {
		return 0.7
	}

	if meta.Verified || meta.ChannelVerified {
		return 0.6
	}

	if meta.Author != "" && meta.HasReferences {
		return 0.5
	}

	return unknownSourceFloor
}

// transcriptQuality scores text on length, lexical diversity, and
// transcription noise. Empty text scores zero.
func (s *Scorer) transcriptQuality(text string) float64 {
	if text == "" {
		return 0.0
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return 0.0
	}

	lengthScore := math.Min(float64(len(words))/referenceWordCount, 1.0)

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = true
	}
	diversity := float64(len(unique)) / float64(len(words))

	inaudible := len(extract.FindInaudible(text))
	otherNoise := len(extract.FindBracketNoise(text)) - inaudible
	if otherNoise < 0 {
		otherNoise = 0
	}

	inaudiblePenalty := math.Min(0.05*float64(inaudible), 0.30)
	noisePenalty := math.Min(0.02*float64(otherNoise), 0.20)

	return clamp01(0.4*lengthScore + 0.4*diversity + 0.2 - inaudiblePenalty - noisePenalty)
}

// citationDensity measures the fraction of sentences carrying technical
// or standards references, normalized against an excellent density.
func (s *Scorer) citationDensity(text string) float64 {
	if text == "" {
		return 0.0
	}

	sentences := extract.SplitSentences(text)
	if len(sentences) == 0 {
		return 0.0
	}

	cited := 0
	for _, sentence := range sentences {
		if extract.MatchesStandard(sentence) || extract.MatchesTechnical(sentence) {
			cited++
		}
	}

	density := float64(cited) / float64(len(sentences))
	return math.Min(density/excellentCitationDensity, 1.0)
}

// freshness applies exponential half-life decay per topic. A missing
// date is neutral, not stale. Fundamentals past ten years are classics.
func (s *Scorer) freshness(date *time.Time, topic model.TopicType) float64 {
	if date == nil {
		return neutralFreshness
	}

	ageDays := timeNow().Sub(*date).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	if topic == model.TopicFundamental && ageDays >= classicAgeDays {
		return classicFreshness
	}

	halfLife, ok := halfLifeDays[topic]
	if !ok {
		halfLife = halfLifeDays[model.TopicFundamental]
	}

	return clamp01(math.Pow(0.5, ageDays/halfLife))
}

// consensus checks each extracted claim for a case-insensitive substring
// match in any cross-source's text or pre-extracted claims. Intentionally
// crude: no stemming or semantic similarity.
func (s *Scorer) consensus(text string, crossSources []model.CrossSource) float64 {
	if text == "" || len(crossSources) == 0 {
		return 0.0
	}

	claims := extract.Claims(text)
	if len(claims) == 0 {
		return 0.0
	}

	matched := 0
	for _, claim := range claims {
		needle := strings.ToLower(claim)
		for _, cs := range crossSources {
			if cs.Text != "" && strings.Contains(strings.ToLower(cs.Text), needle) {
				matched++
				break
			}
			found := false
			for _, other := range cs.Claims {
				if strings.Contains(strings.ToLower(other), needle) {
					found = true
					break
				}
			}
			if found {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(claims))
}

// matchesDomain checks exact and parent-domain matches
// (sub.theiet.org matches theiet.org)
func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
