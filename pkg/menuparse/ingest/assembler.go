package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

var reEnumeration = regexp.MustCompile(`^\d+\s*[.)]\s+`)

const (
	maxPriceOnlyLen   = 20
	minDescriptionLen = 10
	maxDescriptionLen = 200
	minItemNameLen    = 2
)

// ScanState is the accumulator threaded through the line scan: the closed
// categories, the category still open, and every emitted item in order.
type ScanState struct {
	Categories []*menu.Category
	Current    *menu.Category
	Items      []*menu.MenuItem
}

// openCategory closes the current category and starts a new one. Empty
// categories are dropped.
func (s *ScanState) openCategory(name string) {
	s.closeCategory()
	s.Current = &menu.Category{Name: name, Items: []*menu.MenuItem{}}
}

func (s *ScanState) closeCategory() {
	if s.Current != nil && len(s.Current.Items) > 0 {
		s.Categories = append(s.Categories, s.Current)
	}
	s.Current = nil
}

func (s *ScanState) addItem(item *menu.MenuItem) {
	if s.Current == nil {
		s.Current = &menu.Category{Name: menu.FallbackCategory, Items: []*menu.MenuItem{}}
	}
	s.Current.Items = append(s.Current.Items, item)
	s.Items = append(s.Items, item)
}

// Assembler folds classified lines into categories and items.
type Assembler struct {
	classifier *Classifier
}

// NewAssembler creates an assembler that classifies with c.
func NewAssembler(c *Classifier) *Assembler {
	return &Assembler{classifier: c}
}

// Assemble scans lines once, left to right, and returns the final state with
// the open category closed.
func (a *Assembler) Assemble(lines []string) ScanState {
	var state ScanState
	for i := 0; i < len(lines); {
		consumed := a.Step(&state, lines, i)
		i += consumed
	}
	state.closeCategory()

	// items without any surviving category get one synthetic group
	if len(state.Categories) == 0 && len(state.Items) > 0 {
		state.Categories = []*menu.Category{{
			Name:  menu.FallbackCategory,
			Items: append([]*menu.MenuItem(nil), state.Items...),
		}}
	}
	return state
}

// Step processes lines[i] and returns how many lines it consumed (at least
// one). Look-ahead lines used for a price or description count as consumed.
func (a *Assembler) Step(state *ScanState, lines []string, i int) int {
	line := lines[i]
	switch a.classifier.Classify(line) {
	case CategoryHeader:
		state.openCategory(line)
		return 1
	case MenuItemLine:
		item, consumed := a.buildItem(lines, i)
		if item != nil {
			state.addItem(item)
		}
		return consumed
	}
	return 1
}

// buildItem turns lines[i] into an item, borrowing a price and description
// from the lines that follow when the item line lacks them.
func (a *Assembler) buildItem(lines []string, i int) (*menu.MenuItem, int) {
	line := lines[i]
	next := i + 1
	item := &menu.MenuItem{}
	name := line

	if p, ok := ExtractPrice(line); ok {
		name = StripPrice(line, p)
		setPrice(item, p)
	} else if next < len(lines) && a.usableLookahead(lines[next]) {
		follow := lines[next]
		if p, ok := ExtractPrice(follow); ok {
			rest := StripPrice(follow, p)
			if utf8.RuneCountInString(follow) < maxPriceOnlyLen && !hasLetter(rest) {
				setPrice(item, p)
				next++
			} else if rest != "" {
				setPrice(item, p)
				item.Description = menu.StringPtr(rest)
				next++
			}
		}
	}

	name = reEnumeration.ReplaceAllString(strings.TrimSpace(name), "")
	item.Name = collapseSpaces(name)

	if item.Description == nil && next < len(lines) {
		if desc, ok := a.descriptionCandidate(lines[next]); ok {
			item.Description = menu.StringPtr(desc)
			next++
		}
	}

	if utf8.RuneCountInString(item.Name) < minItemNameLen {
		return nil, next - i
	}
	return item, next - i
}

// usableLookahead rejects boilerplate and headers as price continuations.
func (a *Assembler) usableLookahead(line string) bool {
	return !a.classifier.IsSkippable(line) && !a.classifier.IsHeader(line)
}

func (a *Assembler) descriptionCandidate(line string) (string, bool) {
	n := utf8.RuneCountInString(line)
	if n < minDescriptionLen || n > maxDescriptionLen {
		return "", false
	}
	if a.classifier.IsSkippable(line) || a.classifier.IsHeader(line) || HasPrice(line) {
		return "", false
	}
	return collapseSpaces(line), true
}

func setPrice(item *menu.MenuItem, p Price) {
	item.Price = menu.StringPtr(strings.TrimFunc(p.Raw, unicode.IsSpace))
	item.PriceNumber = menu.FloatPtr(p.Value)
}
