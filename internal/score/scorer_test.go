package score

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/veridex/internal/model"
)

// fixClock pins the scorer clock for reproducible freshness scores
func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func daysAgo(now time.Time, days int) *time.Time {
	d := now.AddDate(0, 0, -days)
	return &d
}

func TestScorer_Determinism(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	in := Input{
		Domain:     "example.com",
		Transcript: "The circuit carries 13 A at 230 V. Table 4 lists the limits. See BS 7671 for details.",
		Date:       daysAgo(timeNow(), 90),
		Topic:      model.TopicStandard,
		Metadata:   Metadata{Author: "J. Smith", HasReferences: true},
	}

	first := scorer.Score(in)
	for i := 0; i < 5; i++ {
		if got := scorer.Score(in); got != first {
			t.Fatalf("score changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestScorer_RangeInvariant(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	future := timeNow().AddDate(1, 0, 0)
	noisy := strings.Repeat("[inaudible] [Music] word. ", 500)

	inputs := []Input{
		{},
		{Domain: "theiet.org"},
		{Domain: "blog.example", Text: noisy, Date: &future, Topic: model.TopicTool},
		{Domain: "x", Transcript: strings.Repeat("a ", 10000), Date: daysAgo(timeNow(), 20000), Topic: model.TopicRegulation},
	}

	for i, in := range inputs {
		result := scorer.Score(in)
		subs := []float64{
			result.Total, result.SourceScore, result.TranscriptQuality,
			result.ConsensusScore, result.CitationDensity, result.FreshnessScore,
		}
		for j, v := range subs {
			if v < 0 || v > 1 {
				t.Errorf("input %d sub-score %d out of range: %f", i, j, v)
			}
		}
		switch result.TrustLevel {
		case model.TrustHigh, model.TrustMedium, model.TrustLow:
		default:
			t.Errorf("input %d: unexpected trust level %q", i, result.TrustLevel)
		}
		if result.Total >= 0.70 && result.TrustLevel != model.TrustHigh {
			t.Errorf("input %d: total %f should be high trust", i, result.Total)
		}
		if result.Total < 0.50 && result.TrustLevel != model.TrustLow {
			t.Errorf("input %d: total %f should be low trust", i, result.Total)
		}
	}
}

func TestScorer_WeightNormalization(t *testing.T) {
	scorer := NewScorer(model.Weights{Source: 2, Transcript: 2})

	sum := scorer.Weights().Sum()
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("expected weights to sum to 1.0, got %f", sum)
	}

	// Unset components keep their defaults before renormalization
	w := scorer.Weights()
	if w.Source <= w.Consensus {
		t.Errorf("overridden source weight should dominate: %+v", w)
	}
}

func TestScorer_SourceAuthorityChain(t *testing.T) {
	scorer := NewScorer(model.Weights{})

	tests := []struct {
		name   string
		domain string
		meta   Metadata
		want   float64
	}{
		{"official standards body", "theiet.org", Metadata{}, 1.0},
		{"official subdomain", "shop.theiet.org", Metadata{}, 1.0},
		{"government registry", "legislation.gov.uk", Metadata{}, 1.0},
		{"academic TLD", "eng.cam.ac.uk", Metadata{}, 0.85},
		{"us university", "mit.edu", Metadata{}, 0.85},
		{"technical publisher", "oreilly.com", Metadata{}, 0.7},
		{"verified channel", "youtube.com", Metadata{ChannelVerified: true}, 0.6},
		{"verified flag", "some-blog.net", Metadata{Verified: true}, 0.6},
		{"author with references", "some-blog.net", Metadata{Author: "A. Person", HasReferences: true}, 0.5},
		{"author without references", "some-blog.net", Metadata{Author: "A. Person"}, 0.2},
		{"unknown floor", "random-blog.com", Metadata{}, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.sourceAuthority(tt.domain, tt.meta)
			if got != tt.want {
				t.Errorf("sourceAuthority(%q) = %f, want %f", tt.domain, got, tt.want)
			}
		})
	}
}

func TestScorer_SourceMonotonicity(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	text := "Voltage drop on the ring final must not exceed 5%. See BS 7671 Table 4Ab."
	date := daysAgo(timeNow(), 200)

	iet := scorer.Score(Input{Domain: "theiet.org", Text: text, Date: date, Topic: model.TopicStandard})
	blog := scorer.Score(Input{Domain: "random-blog.com", Text: text, Date: date, Topic: model.TopicStandard})

	if iet.Total <= blog.Total {
		t.Errorf("expected theiet.org (%f) to outscore random-blog.com (%f)", iet.Total, blog.Total)
	}
}

func TestScorer_FreshnessMonotonicity(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	text := "The regulation requires RCD protection on socket circuits rated up to 32 A."
	recent := scorer.Score(Input{Domain: "example.com", Text: text, Date: daysAgo(timeNow(), 700), Topic: model.TopicRegulation})
	stale := scorer.Score(Input{Domain: "example.com", Text: text, Date: daysAgo(timeNow(), 7000), Topic: model.TopicRegulation})

	if recent.Total <= stale.Total {
		t.Errorf("expected recent regulation (%f) to outscore stale (%f)", recent.Total, stale.Total)
	}
}

func TestScorer_FreshnessClassicOverride(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	date := daysAgo(timeNow(), 3650)

	if got := scorer.freshness(date, model.TopicFundamental); got != 0.9 {
		t.Errorf("ten-year-old fundamental should score 0.9 exactly, got %f", got)
	}
	if got := scorer.freshness(date, model.TopicRegulation); got >= 0.9 {
		t.Errorf("ten-year-old regulation should decay below 0.9, got %f", got)
	}
	if got := scorer.freshness(nil, model.TopicFundamental); got != 0.5 {
		t.Errorf("missing date should be neutral 0.5, got %f", got)
	}
}

func TestScorer_TranscriptQuality(t *testing.T) {
	scorer := NewScorer(model.Weights{})

	if got := scorer.transcriptQuality(""); got != 0.0 {
		t.Errorf("empty text should score 0, got %f", got)
	}

	clean := scorer.transcriptQuality("The earth fault loop impedance was measured at each outlet on the circuit.")
	noisy := scorer.transcriptQuality("The earth [inaudible] loop [inaudible] was [unclear] at each [?] on the circuit.")
	if noisy >= clean {
		t.Errorf("inaudible markers should lower quality: clean %f, noisy %f", clean, noisy)
	}

	repetitive := scorer.transcriptQuality(strings.Repeat("test ", 2000))
	if repetitive > 0.7 {
		t.Errorf("fully repetitive text should not score high on diversity, got %f", repetitive)
	}
}

func TestScorer_CitationDensity(t *testing.T) {
	scorer := NewScorer(model.Weights{})

	if got := scorer.citationDensity(""); got != 0.0 {
		t.Errorf("empty text should score 0, got %f", got)
	}

	dense := "The supply is 230 V nominal. Table 2 gives maximum Zs values. BS 7671 defines the limits."
	if got := scorer.citationDensity(dense); got != 1.0 {
		t.Errorf("fully cited text should cap at 1.0, got %f", got)
	}

	sparse := "Electricity is useful. Everyone should learn about it. It powers our homes. " +
		"Safety matters a great deal. Wiring can be complicated. Professionals train for years. " +
		"Always be careful. Accidents do happen. The supply operates at 230 V."
	got := scorer.citationDensity(sparse)
	if got <= 0 || got >= 1 {
		t.Errorf("sparse citations should score between 0 and 1, got %f", got)
	}
}

func TestScorer_Consensus(t *testing.T) {
	scorer := NewScorer(model.Weights{})

	text := "The maximum Zs for a 32 A type B breaker is 1.37 ohms according to BS 7671."

	if got := scorer.consensus(text, nil); got != 0.0 {
		t.Errorf("no cross sources should score 0, got %f", got)
	}
	if got := scorer.consensus("no technical content here at all, just chatter", []model.CrossSource{{Text: "anything"}}); got != 0.0 {
		t.Errorf("no extractable claims should score 0, got %f", got)
	}

	agreeing := []model.CrossSource{{
		Text: "As published elsewhere: the maximum zs for a 32 a type b breaker is 1.37 ohms according to bs 7671. More detail follows.",
	}}
	if got := scorer.consensus(text, agreeing); got != 1.0 {
		t.Errorf("fully corroborated claim should score 1.0, got %f", got)
	}

	disagreeing := []model.CrossSource{{Text: "Completely unrelated content about cooking."}}
	if got := scorer.consensus(text, disagreeing); got != 0.0 {
		t.Errorf("uncorroborated claim should score 0, got %f", got)
	}
}

func TestScorer_ScenarioAuthoritativeTranscript(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	transcript := strings.Repeat(
		"The earthing arrangement must comply with BS 7671 and the measured Zs was 0.35 ohms. ", 100)

	result := scorer.Score(Input{
		Domain:     "theiet.org",
		Transcript: transcript,
		Date:       daysAgo(timeNow(), 180),
		Topic:      model.TopicFundamental,
		Metadata:   Metadata{Verified: true},
	})

	if result.Total < 0.65 {
		t.Errorf("authoritative fresh transcript should score >= 0.65, got %f", result.Total)
	}
	if result.TrustLevel == model.TrustLow {
		t.Errorf("expected high or medium trust, got %s", result.TrustLevel)
	}
}

func TestScorer_ScenarioLowQualityBlog(t *testing.T) {
	fixClock(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	scorer := NewScorer(model.Weights{})

	result := scorer.Score(Input{
		Domain: "random-blog.xyz",
		Text:   "Um, like, electricity is cool.",
		Date:   daysAgo(timeNow(), 5*365),
		Topic:  model.TopicFundamental,
	})

	if result.Total >= 0.5 {
		t.Errorf("low-quality stale blog should score < 0.5, got %f", result.Total)
	}
	if result.TrustLevel != model.TrustLow {
		t.Errorf("expected low trust, got %s", result.TrustLevel)
	}
	if result.IsTrustworthy() {
		t.Error("low trust content should not be trustworthy")
	}
}

func TestCredibilityScore_ToMapRounding(t *testing.T) {
	s := model.CredibilityScore{
		Total:             0.7190001,
		SourceScore:       1.0,
		TranscriptQuality: 0.5045,
		ConsensusScore:    0,
		CitationDensity:   0.3333333,
		FreshnessScore:    0.93419,
		TrustLevel:        model.TrustHigh,
	}

	m := s.ToMap()
	if m["total"] != 0.719 {
		t.Errorf("total rounding: got %v", m["total"])
	}
	if m["citation_density"] != 0.333 {
		t.Errorf("citation rounding: got %v", m["citation_density"])
	}
	if m["trust_level"] != "high" {
		t.Errorf("trust level: got %v", m["trust_level"])
	}
}
