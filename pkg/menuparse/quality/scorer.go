// Package quality scores parsed menus and flags the ones that need manual
// cleanup. Scoring is read-only and safe to run concurrently.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/stoplist"
)

// Score is the quality verdict for one menu.
type Score struct {
	TotalItems              int      `json:"total_items"`
	GarbledItems            int      `json:"garbled_items"`
	NonMenuItems            int      `json:"non_menu_items"`
	ValidItems              int      `json:"valid_items"`
	ItemsWithPrice          int      `json:"items_with_price"`
	ItemsWithValidPrice     int      `json:"items_with_valid_price"`
	ItemsWithBadPrice       int      `json:"items_with_bad_price"`
	ItemsWithMissingDecimal int      `json:"items_with_missing_decimal"`
	TotalCategories         int      `json:"total_categories"`
	GenericCategories       int      `json:"generic_categories"`
	NonGenericCategories    int      `json:"non_generic_categories"`
	OverallScore            int      `json:"overall_score"`
	NeedsCleaning           bool     `json:"needs_cleaning"`
	Issues                  []string `json:"issues,omitempty"`
}

// Price plausibility bounds.
const (
	MinPlausiblePrice = 0.50
	MaxPlausiblePrice = 100.0
)

// Score thresholds and penalties.
const (
	CleaningThreshold = 70
	maxIssues         = 10
	minItems          = 3
)

var garbledPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[bcdfghjklmnpqrstvwxz]{5,}`),
	regexp.MustCompile(`\d{5,}`),
	// fragmented capitals: "B E EF", "CH K N"
	regexp.MustCompile(`\b[A-Z]{1,2}\s+[A-Z]{1,2}\s+[A-Z]{1,2}\b`),
	// mojibake; CJK scripts are real dish names
	regexp.MustCompile(`[^\x00-\x7F\p{Han}\p{Hiragana}\p{Katakana}\p{Hangul}]{3,}`),
	regexp.MustCompile(`[^\p{L}\p{N}\s'&.,()\-/]{3,}`),
	regexp.MustCompile(`\x{FFFD}`),
}

var nonMenuKeywords = []string{
	"hours", "copyright", "©", "all rights reserved", "www.", "http", ".com",
	"phone", "tel:", "fax", "call us", "order online", "powered by", "terms",
	"privacy", "follow us",
}

var (
	reAddress = regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[a-z0-9.']+\s+){1,3}(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|highway|hwy)\b`)
	rePhone   = regexp.MustCompile(`\(?\b\d{3}\)?[\s.\-]?\d{3}[\s.\-]\d{4}\b`)
)

// Scorer computes quality scores against a generic category stoplist.
type Scorer struct {
	generic *stoplist.Manager
}

// NewScorer creates a scorer. A nil stoplist means the built-in one.
func NewScorer(generic *stoplist.Manager) *Scorer {
	if generic == nil {
		generic = stoplist.NewManager(nil)
	}
	return &Scorer{generic: generic}
}

// Generic exposes the stoplist in use.
func (s *Scorer) Generic() *stoplist.Manager {
	return s.generic
}

// ScoreItems scores a flat item list. With no categories known, the
// generic-category rules do not apply.
func (s *Scorer) ScoreItems(items []*menu.MenuItem) Score {
	return s.score(items, nil)
}

// ScoreDocument scores a document's items and its category names.
func (s *Scorer) ScoreDocument(doc *menu.MenuDocument) Score {
	if doc == nil {
		return s.score(nil, nil)
	}
	return s.score(doc.Items, doc.CategoryNames())
}

func (s *Scorer) score(items []*menu.MenuItem, categories []string) Score {
	sc := Score{
		TotalItems:      len(items),
		TotalCategories: len(categories),
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		switch {
		case IsGarbled(item.Name):
			sc.GarbledItems++
			sc.addIssue("garbled: %q", item.Name)
		case IsNonMenu(item):
			sc.NonMenuItems++
			sc.addIssue("non-menu: %q", item.Name)
		default:
			sc.ValidItems++
			s.checkPrice(&sc, item)
		}
	}

	sc.GenericCategories = s.generic.CountGeneric(categories)
	sc.NonGenericCategories = sc.TotalCategories - sc.GenericCategories

	sc.OverallScore = overall(sc)
	sc.NeedsCleaning = sc.OverallScore < CleaningThreshold ||
		sc.GarbledItems > 0 || sc.NonMenuItems > 0 || sc.ItemsWithBadPrice > 0
	if sc.TotalItems < minItems {
		sc.addIssue("too few items: %d", sc.TotalItems)
	}
	return sc
}

func (s *Scorer) checkPrice(sc *Score, item *menu.MenuItem) {
	if !item.HasPrice() {
		return
	}
	sc.ItemsWithPrice++
	value := *item.PriceNumber
	raw := priceText(item)

	switch {
	case value > MaxPlausiblePrice && !strings.Contains(raw, "."):
		// "$850" was most likely "$8.50"
		sc.ItemsWithBadPrice++
		sc.ItemsWithMissingDecimal++
		sc.addIssue("missing decimal: %q (%s)", raw, item.Name)
	case value < MinPlausiblePrice || value > MaxPlausiblePrice:
		sc.ItemsWithBadPrice++
		sc.addIssue("bad price: %q (%s)", raw, item.Name)
	default:
		sc.ItemsWithValidPrice++
	}
}

func overall(sc Score) int {
	score := 100

	if sc.TotalItems > 0 {
		total := float64(sc.TotalItems)
		switch garbled := float64(sc.GarbledItems) / total; {
		case garbled > 0.3:
			score -= 30
		case garbled > 0.1:
			score -= 15
		}
		switch nonMenu := float64(sc.NonMenuItems) / total; {
		case nonMenu > 0.2:
			score -= 20
		case nonMenu > 0.05:
			score -= 10
		}
	}

	if sc.ItemsWithPrice > 0 && float64(sc.ItemsWithValidPrice)/float64(sc.ItemsWithPrice) < 0.5 {
		score -= 15
	}
	if sc.ItemsWithMissingDecimal > 0 {
		score -= 10
	}
	if sc.TotalCategories > 0 && sc.GenericCategories == sc.TotalCategories {
		score -= 10
	}
	if sc.TotalItems < minItems {
		score -= 20
	}
	if sc.TotalCategories > 3 && sc.GenericCategories*2 < sc.TotalCategories {
		score += 5
	}

	return max(0, min(100, score))
}

func (sc *Score) addIssue(format string, args ...any) {
	if len(sc.Issues) >= maxIssues {
		return
	}
	sc.Issues = append(sc.Issues, fmt.Sprintf(format, args...))
}

// IsGarbled reports OCR-artifact names.
func IsGarbled(name string) bool {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= 2 {
		return true
	}
	for _, re := range garbledPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsNonMenu reports items that are really boilerplate: hours, legal text,
// contact details or an address.
func IsNonMenu(item *menu.MenuItem) bool {
	text := item.Name + " " + item.DescriptionText()
	lower := strings.ToLower(text)
	for _, kw := range nonMenuKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if rePhone.MatchString(text) {
		return true
	}
	// "1/2 Rack St. Louis Ribs $15.99" is a dish, not an address
	return !item.HasPrice() && reAddress.MatchString(text)
}

func priceText(item *menu.MenuItem) string {
	if item.Price != nil && *item.Price != "" {
		return *item.Price
	}
	return fmt.Sprintf("%g", *item.PriceNumber)
}
