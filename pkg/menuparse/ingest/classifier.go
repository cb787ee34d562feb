package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineClass is the classifier verdict for one normalized line.
type LineClass int

const (
	Unclassified LineClass = iota
	Skip
	CategoryHeader
	MenuItemLine
)

func (c LineClass) String() string {
	switch c {
	case Skip:
		return "SKIP"
	case CategoryHeader:
		return "CATEGORY_HEADER"
	case MenuItemLine:
		return "MENU_ITEM"
	}
	return "UNCLASSIFIED"
}

var (
	rePhone = regexp.MustCompile(`\(?\b\d{3}\)?[\s.\-]?\d{3}[\s.\-]\d{4}\b`)
	// "123 Main St", "4500 W. Broad Street, Richmond"; the street word must
	// end the line or be followed by a comma, unit or ZIP code
	reStreetAddress = regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[a-z0-9.']+\s+){1,4}(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|highway|hwy|parkway|pkwy|court)\.?(?:\s*$|\s*,|\s+(?:suite|ste|apt|unit|#)|\s+\d{5}\b)`)
	reSuite         = regexp.MustCompile(`(?i)\b(?:suite|ste\.?)\s*#?\s*\d+`)
	reStateZip      = regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`)

	reWeekdayRange = regexp.MustCompile(`(?i)\b(?:mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)[a-z]*\.?\s*(?:-|–|to|thru|through)\s*(?:mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)`)
	reHoursWord    = regexp.MustCompile(`(?i)\b(?:business hours|hours of operation|open daily|open 7 days|opening hours|we are open|closed on)\b|^hours\b`)
	reTimeRange    = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*[ap]\.?m\.?\s*(?:-|–|to)\s*\d{1,2}(?::\d{2})?\s*[ap]\.?m\.?`)
	reBareTime     = regexp.MustCompile(`(?i)^\d{1,2}(?::\d{2})?\s*(?:[ap]\.?m\.?)?(?:\s*(?:-|–|to)\s*\d{1,2}(?::\d{2})?\s*(?:[ap]\.?m\.?)?)?$`)
	reURL          = regexp.MustCompile(`(?i)https?://|\bwww\.|\.(?:com|net|org|us|biz|info)\b`)
	reBoilerplate  = regexp.MustCompile(`(?i)\bpowered by\b|\bcopyright\b|©|\ball rights reserved\b|\bprivacy policy\b|\bterms of (?:use|service)\b|\bfollow us\b|\blike us on\b`)
	// OCR noise: six or more consonants in a row never spells a dish
	reConsonantRun = regexp.MustCompile(`(?i)[bcdfghjklmnpqrstvwxz]{6,}`)

	reMealHeader     = regexp.MustCompile(`(?i)^(?:lunch|dinner|breakfast|brunch)\s+(?:special|menu|combo|includes?)`)
	reIncludesHeader = regexp.MustCompile(`(?i)^(?:includes?|comes?\s+with|served\s+with|with)[:\s]`)
	reCategoryish    = regexp.MustCompile(`(?i)\b(?:specials?|menus?|combos?|combinations?|served|with)\b`)
	reOnlyNoise      = regexp.MustCompile(`^[\d\s\p{P}\p{S}]+$`)
	reJoiner         = `\s+(?:with|in|and|&|w/)(?:\s|$)`
)

// skipPatterns mark lines that are never menu content.
var skipPatterns = []*regexp.Regexp{
	reWeekdayRange,
	reHoursWord,
	reTimeRange,
	reBareTime,
	rePhone,
	reURL,
	reBoilerplate,
	reConsonantRun,
}

// addressPatterns skip a line only when it carries no price.
var addressPatterns = []*regexp.Regexp{
	reStreetAddress,
	reSuite,
	reStateZip,
}

const (
	minItemLen        = 3
	maxItemLen        = 250
	maxHeaderLen      = 50
	maxKeywordHeader  = 35
	maxBareHeader     = 25
	minUpperHeaderLen = 4
	maxUpperHeaderLen = 35
)

// Classifier decides, per line, whether it is boilerplate, a section header
// or a dish. Checks run in fixed precedence: skip, then header, then item.
type Classifier struct {
	lexicon      Lexicon
	bare         map[string]struct{}
	dishKeywords *regexp.Regexp
	dishPhrase   *regexp.Regexp
	skipPhrases  []string
}

// NewClassifier builds a classifier over the given vocabulary.
func NewClassifier(lex Lexicon) *Classifier {
	lex = DefaultLexicon().Extend(lex)

	bare := make(map[string]struct{}, len(lex.BareCategories))
	for _, b := range lex.BareCategories {
		bare[strings.ToLower(b)] = struct{}{}
	}

	dish := wordAlternation(lex.DishKeywords)
	c := &Classifier{
		lexicon:      lex,
		bare:         bare,
		dishKeywords: dish,
		skipPhrases:  lex.SkipPhrases,
	}
	if dish != nil {
		c.dishPhrase = regexp.MustCompile(dish.String() + reJoiner)
	}
	return c
}

// Lexicon returns the effective vocabulary.
func (c *Classifier) Lexicon() Lexicon {
	return c.lexicon
}

// Classify returns the verdict for a line.
func (c *Classifier) Classify(line string) LineClass {
	switch {
	case c.IsSkippable(line):
		return Skip
	case c.IsHeader(line):
		return CategoryHeader
	case c.IsMenuItem(line):
		return MenuItemLine
	}
	return Unclassified
}

// IsSkippable reports boilerplate: hours, phone numbers, addresses, URLs,
// copyright lines, bare times and OCR consonant soup. A priced line is never
// skipped as an address.
func (c *Classifier) IsSkippable(line string) bool {
	for _, re := range skipPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	if !HasPrice(line) {
		for _, re := range addressPatterns {
			if re.MatchString(line) {
				return true
			}
		}
	}
	lower := strings.ToLower(line)
	for _, p := range c.skipPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsHeader reports a category header. It does not re-check IsSkippable;
// Classify applies the precedence.
func (c *Classifier) IsHeader(line string) bool {
	line = strings.TrimSpace(line)
	n := utf8.RuneCountInString(line)
	if n == 0 {
		return false
	}

	if reMealHeader.MatchString(line) {
		return true
	}
	if n < maxHeaderLen && c.keywordHeader(line, n) {
		return true
	}
	if c.upperHeader(line, n) {
		return true
	}
	return reIncludesHeader.MatchString(line)
}

func (c *Classifier) keywordHeader(line string, n int) bool {
	lower := strings.ToLower(line)
	if !c.containsCategoryKeyword(lower) {
		return false
	}
	if n >= maxKeywordHeader || c.looksLikeDish(line) || HasPrice(line) {
		return false
	}
	if reCategoryish.MatchString(line) {
		return true
	}
	if n < maxBareHeader {
		_, ok := c.bare[strings.TrimSpace(strings.TrimRight(lower, ": "))]
		return ok
	}
	return false
}

func (c *Classifier) upperHeader(line string, n int) bool {
	if n < minUpperHeaderLen || n >= maxUpperHeaderLen {
		return false
	}
	if !hasLetter(line) || line != strings.ToUpper(line) {
		return false
	}
	return !HasPrice(line) && !c.looksLikeDish(line)
}

// HasCategoryKeyword reports whether name contains a section keyword.
func (c *Classifier) HasCategoryKeyword(name string) bool {
	return c.containsCategoryKeyword(strings.ToLower(name))
}

func (c *Classifier) containsCategoryKeyword(lower string) bool {
	for _, kw := range c.lexicon.CategoryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// looksLikeDish matches "chicken with ...", "BEEF AND BROCCOLI" and the like.
func (c *Classifier) looksLikeDish(line string) bool {
	return c.dishPhrase != nil && c.dishPhrase.MatchString(line)
}

// IsMenuItem reports a dish line. Like IsHeader it assumes the caller has
// already ruled out skip and header verdicts.
func (c *Classifier) IsMenuItem(line string) bool {
	line = strings.TrimSpace(line)
	n := utf8.RuneCountInString(line)
	if n < minItemLen || n > maxItemLen {
		return false
	}
	if reOnlyNoise.MatchString(line) {
		return false
	}
	alpha := alphaRatio(line)
	if alpha < 0.2 {
		return false
	}
	if rePhone.MatchString(line) || reStreetAddress.MatchString(line) {
		return false
	}

	if HasPrice(line) {
		return true
	}
	if c.dishKeywords != nil && c.dishKeywords.MatchString(line) && n > 4 && n < 120 {
		return true
	}
	words := len(strings.Fields(line))
	return words >= 2 && words <= 8 && n > 5 && n < 100 && alpha >= 0.3
}

func alphaRatio(s string) float64 {
	total, letters := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
