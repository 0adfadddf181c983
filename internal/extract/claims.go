package extract

import "strings"

const (
	maxClaims      = 20
	maxClaimLength = 200
)

// Claims extracts candidate factual-claim sentences from plain text:
// sentences referencing a named standard or carrying technical markers.
// Each claim is whitespace-normalized, truncated to 200 characters, and
// deduplicated; at most 20 claims are returned.
func Claims(text string) []string {
	if text == "" {
		return nil
	}

	var claims []string
	seen := make(map[string]bool)

	for _, sentence := range SplitSentences(text) {
		if !MatchesStandard(sentence) && !MatchesTechnical(sentence) {
			continue
		}

		claim := whitespaceRe.ReplaceAllString(strings.TrimSpace(sentence), " ")
		if len(claim) > maxClaimLength {
			claim = claim[:maxClaimLength]
		}

		key := strings.ToLower(claim)
		if seen[key] {
			continue
		}
		seen[key] = true

		claims = append(claims, claim)
		if len(claims) >= maxClaims {
			break
		}
	}

	return claims
}
