package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reLowerUpper  = regexp.MustCompile(`([a-z])([A-Z])`)
	reDigitLetter = regexp.MustCompile(`(\d)([A-Za-z])`)
	reLetterDigit = regexp.MustCompile(`([A-Za-z])(\d)`)
	reWideGap     = regexp.MustCompile(`[ \t]{3,}`)
	reGapSplit    = regexp.MustCompile(`\s{2,}`)
)

const (
	// Lines longer than this are candidates for gap splitting.
	longLineLen = 100
	// Gap-split fragments must be longer than this to survive.
	minFragmentLen = 3
)

// Normalizer turns a raw text blob into ordered candidate menu lines,
// repairing common OCR and extraction artifacts.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize applies the fixed cleanup sequence. The order matters: later
// substitutions rely on the spacing fixed by earlier ones.
func (n *Normalizer) Normalize(raw string) []string {
	text := n.Clean(raw)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, splitWideLine(line)...)
	}
	return lines
}

// Clean performs the character-level fixes without splitting into lines.
func (n *Normalizer) Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// "ChickenLoMein" -> "Chicken Lo Mein"
	text = reLowerUpper.ReplaceAllString(text, "$1 $2")
	// "10Chicken" -> "10 Chicken", "Combo2" -> "Combo 2"
	text = reDigitLetter.ReplaceAllString(text, "$1 $2")
	text = reLetterDigit.ReplaceAllString(text, "$1 $2")
	// OCR reads capital I as a pipe
	text = strings.ReplaceAll(text, "|", "I")
	// keep double-space separators, squash anything wider
	text = reWideGap.ReplaceAllString(text, "  ")
	return text
}

// splitWideLine breaks OCR lines that glue several items together with
// large gaps. Short lines and lines without a gap pass through untouched.
func splitWideLine(line string) []string {
	if utf8.RuneCountInString(line) <= longLineLen || !reGapSplit.MatchString(line) {
		return []string{line}
	}

	var out []string
	for _, frag := range reGapSplit.Split(line, -1) {
		frag = strings.TrimSpace(frag)
		if utf8.RuneCountInString(frag) > minFragmentLen {
			out = append(out, frag)
		}
	}
	return out
}
