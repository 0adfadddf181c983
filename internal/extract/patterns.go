package extract

import "regexp"

// Named-standard references, e.g. "BS 7671", "IEC 60364-4-41", "IEEE 802".
var standardRe = regexp.MustCompile(`\b(?:BS|EN|IEC|ISO|IEEE|DIN|NFPA|CISPR)[ -]?\d{2,6}(?:[-:]\d{1,4})*\b`)

// Technical sentence markers: numbered equations/figures/tables, bracketed
// citations, and electrical quantity expressions.
var technicalRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:equation|eq\.|figure|fig\.|table)\s*\(?\d+\)?`),
	regexp.MustCompile(`\[\d+(?:\s*,\s*\d+)*\]`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:mV|kV|V|mA|kA|A|kW|MW|W|kWh|kHz|Hz|kVA|VA|m?ohms?|[kM]?Ω|µF|uF|mH)\b`),
	regexp.MustCompile(`(?i)\b(?:impedance|power factor|earth fault loop|Zs|Ze|R1\s*\+\s*R2)\b`),
}

// Transcription noise markers that indicate unreliable audio capture
var inaudibleRe = regexp.MustCompile(`(?i)\[(?:inaudible|unclear|\?)\]`)

// Any other bracketed annotation ([Music], [Applause], [00:12] leftovers)
var bracketNoiseRe = regexp.MustCompile(`\[[^\]]{1,40}\]`)

// Timestamp tokens, with or without surrounding brackets
var timestampRe = regexp.MustCompile(`\[?\b\d{1,2}:\d{2}(?::\d{2})?\b\]?`)

// Spoken filler stripped during normalization
var fillerRe = regexp.MustCompile(`(?i)\b(?:u+m+|u+h+|e+r+|a+h+|like|you know)\b[,.]?`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Capitalized multi-word phrases, a cheap proper-noun heuristic
var properPhraseRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

// FindInaudible returns all transcription-failure markers in the text
func FindInaudible(text string) []string {
	return inaudibleRe.FindAllString(text, -1)
}

// FindBracketNoise returns all bracketed annotations in the text,
// including the inaudible markers
func FindBracketNoise(text string) []string {
	return bracketNoiseRe.FindAllString(text, -1)
}

// MatchesStandard reports whether the text references a named standard
func MatchesStandard(text string) bool {
	return standardRe.MatchString(text)
}

// MatchesTechnical reports whether the text carries technical markers
func MatchesTechnical(text string) bool {
	for _, re := range technicalRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
