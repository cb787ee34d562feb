package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// Price is a price token found in a line.
type Price struct {
	Raw   string  // full matched token, currency symbol or suffix included
	Value float64 // parsed numeric part
	Start int     // byte offset of Raw in the line
	End   int
}

type pricePattern struct {
	name string
	re   *regexp.Regexp
}

// pricePatterns are tried in order; the first pattern that matches anywhere
// in the line wins. Each pattern captures the numeric part in group 1.
var pricePatterns = []pricePattern{
	{"dollar", regexp.MustCompile(`\$(\d+(?:\.\d{1,2})?)`)},
	{"dollar-space", regexp.MustCompile(`\$\s+(\d+(?:\.\d{1,2})?)`)},
	{"trailing-dollar", regexp.MustCompile(`(\d+(?:\.\d{1,2})?)\s*\$`)},
	{"dollars-word", regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*dollars?\b`)},
	{"usd", regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s*USD\b`)},
	{"each", regexp.MustCompile(`(?i)(\d+(?:\.\d{1,2})?)\s+each\b`)},
	{"price-label", regexp.MustCompile(`(?i)price:\s*\$\s*(\d+(?:\.\d{1,2})?)`)},
}

// ExtractPrice returns the first price found in line. No range validation
// happens here; implausible values are the quality scorer's concern.
func ExtractPrice(line string) (Price, bool) {
	for _, p := range pricePatterns {
		loc := p.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		value, err := strconv.ParseFloat(line[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		return Price{
			Raw:   line[loc[0]:loc[1]],
			Value: value,
			Start: loc[0],
			End:   loc[1],
		}, true
	}
	return Price{}, false
}

// HasPrice reports whether any price pattern matches.
func HasPrice(line string) bool {
	_, ok := ExtractPrice(line)
	return ok
}

var reTrailingSeparators = regexp.MustCompile(`[\s:\-–—]+$`)
var reLeadingSeparators = regexp.MustCompile(`^[\s:\-–—]+`)

// StripPrice removes the price token and any separator punctuation left
// dangling at the end of the remaining text.
func StripPrice(line string, p Price) string {
	rest := line[:p.Start] + " " + line[p.End:]
	rest = strings.TrimSpace(rest)
	rest = reTrailingSeparators.ReplaceAllString(rest, "")
	rest = reLeadingSeparators.ReplaceAllString(rest, "")
	return collapseSpaces(rest)
}

var reSpaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
