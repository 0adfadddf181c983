package extract

import (
	"strings"
)

// Normalize cleans transcript or article text for scoring and storage:
// timestamp tokens and spoken filler are stripped, whitespace collapsed.
// Empty input stays empty so "no data" remains distinguishable.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = timestampRe.ReplaceAllString(text, " ")
	text = fillerRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// SplitSentences splits plain text into sentences (simple heuristic)
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= 3 {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting inside numbers like "7.5"
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' {
				flush()
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}

	return sentences
}

// Summarize joins the first n sentences into a period-terminated summary
func Summarize(text string, n int) string {
	if text == "" || n <= 0 {
		return ""
	}

	sentences := SplitSentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}

	summary := strings.TrimSpace(strings.Join(sentences, " "))
	if summary == "" {
		return ""
	}
	if !strings.HasSuffix(summary, ".") && !strings.HasSuffix(summary, "!") && !strings.HasSuffix(summary, "?") {
		summary += "."
	}
	return summary
}

// Electrical-domain vocabulary scanned for during key-term extraction
var domainVocabulary = []string{
	"earthing", "bonding", "rcd", "rcbo", "circuit breaker",
	"consumer unit", "insulation resistance", "voltage drop",
	"earth fault", "impedance", "power factor", "transformer",
	"three-phase", "ring final", "surge protection",
}

const (
	maxKeyTerms        = 10
	maxProperPhrases   = 5
	maxVocabularyTerms = 5
)

// KeyTerms extracts up to 10 salient terms from text: named standards
// (upper-cased), capitalized multi-word phrases, and electrical-domain
// vocabulary. Discovery order is preserved, duplicates collapse.
func KeyTerms(text string) []string {
	if text == "" {
		return nil
	}

	var terms []string
	seen := make(map[string]bool)

	add := func(term string) bool {
		if len(terms) >= maxKeyTerms {
			return false
		}
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" || seen[key] {
			return true
		}
		seen[key] = true
		terms = append(terms, strings.TrimSpace(term))
		return true
	}

	for _, m := range standardRe.FindAllString(text, -1) {
		if !add(strings.ToUpper(m)) {
			return terms
		}
	}

	phrases := 0
	for _, m := range properPhraseRe.FindAllString(text, -1) {
		if phrases >= maxProperPhrases {
			break
		}
		if !add(m) {
			return terms
		}
		phrases++
	}

	lower := strings.ToLower(text)
	vocab := 0
	for _, term := range domainVocabulary {
		if vocab >= maxVocabularyTerms {
			break
		}
		if strings.Contains(lower, term) {
			if !add(term) {
				return terms
			}
			vocab++
		}
	}

	return terms
}
