package ingest

import (
	"regexp"
	"sort"
	"strings"
)

// Lexicon holds the vocabulary the classifier matches against. The defaults
// can be extended from configuration but never shrunk.
type Lexicon struct {
	CategoryKeywords []string // substrings that mark a section header
	BareCategories   []string // whole-line header names
	DishKeywords     []string // words that mark a dish line
	SkipPhrases      []string // literal phrases that mark boilerplate
}

// DefaultCategoryKeywords are substrings found in section headers.
var DefaultCategoryKeywords = []string{
	"appetizer", "starter", "soup", "salad", "entree", "entrée", "dessert",
	"beverage", "drink", "side order", "rice", "noodle", "lo mein", "chow mein",
	"wok", "szechuan", "sichuan", "hunan", "cantonese", "seafood", "poultry",
	"vegetable", "vegetarian", "combo", "combination", "dim sum", "sushi",
	"sashimi", "platter", "sandwich", "burger", "pizza", "pasta", "kids",
	"children", "lunch", "dinner", "breakfast", "brunch",
}

// DefaultBareCategories are header names that qualify on their own when short.
var DefaultBareCategories = []string{
	"appetizers", "appetizer", "starters", "soups", "soup", "salads",
	"entrees", "entree", "entrées", "mains", "main courses", "desserts",
	"dessert", "beverages", "drinks", "sides", "side orders", "rice",
	"fried rice", "noodles", "lo mein", "chow mein", "seafood", "poultry",
	"chicken", "beef", "pork", "vegetables", "vegetarian", "specials",
	"chef's specials", "house specials", "combination plates", "combos",
	"sushi", "rolls", "dim sum", "wok", "szechuan", "hunan", "kids menu",
	"sandwiches", "burgers", "pizza", "pasta", "lunch", "dinner",
	"breakfast", "brunch",
}

// DefaultDishKeywords are words that make a line look like a dish.
var DefaultDishKeywords = []string{
	"chicken", "beef", "pork", "shrimp", "prawn", "fish", "salmon", "tuna",
	"crab", "lobster", "scallop", "squid", "calamari", "tofu", "duck",
	"lamb", "veggie", "vegetable", "noodle", "rice", "soup", "roll",
	"dumpling", "wonton", "bun", "taco", "burrito", "pizza", "pasta",
	"burger", "sandwich", "salad", "curry", "steak", "wing", "fries", "cake",
	"pie", "tea", "coffee", "soda", "juice", "egg", "mein", "foo young",
	"teriyaki", "tempura", "ramen", "pho", "sushi",
}

// DefaultLexicon returns a copy of the built-in vocabulary.
func DefaultLexicon() Lexicon {
	return Lexicon{
		CategoryKeywords: append([]string(nil), DefaultCategoryKeywords...),
		BareCategories:   append([]string(nil), DefaultBareCategories...),
		DishKeywords:     append([]string(nil), DefaultDishKeywords...),
	}
}

// Extend merges extra vocabulary into the lexicon, lowercasing and
// de-duplicating entries.
func (l Lexicon) Extend(extra Lexicon) Lexicon {
	return Lexicon{
		CategoryKeywords: mergeTerms(l.CategoryKeywords, extra.CategoryKeywords),
		BareCategories:   mergeTerms(l.BareCategories, extra.BareCategories),
		DishKeywords:     mergeTerms(l.DishKeywords, extra.DishKeywords),
		SkipPhrases:      mergeTerms(l.SkipPhrases, extra.SkipPhrases),
	}
}

func mergeTerms(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// wordAlternation builds a case-insensitive regexp matching any of the
// terms as whole words, with an optional plural "s". Longer terms are
// listed first so multi-word terms win over their prefixes.
func wordAlternation(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	sorted := append([]string(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(t))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)(?:e?s)?\b`)
}
