package stoplist

import (
	"sort"
	"strings"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// Manager holds the generic category stoplist: names that carry no
// menu-section meaning.
type Manager struct {
	stops map[string]Reason
}

// Reason records where a generic name came from
type Reason struct {
	Builtin    bool    // shipped default
	Configured bool    // added from lexicon configuration
	Suggested  bool    // promoted from a corpus suggestion
	Share      float64 // fraction of menus using the name, for suggestions
}

// NewManager creates a stoplist seeded with the built-in generic names plus
// extra. The fallback category name is always present.
func NewManager(extra []string) *Manager {
	m := &Manager{stops: make(map[string]Reason)}
	for _, s := range menu.GenericCategoryNames() {
		m.stops[normalize(s)] = Reason{Builtin: true}
	}
	for _, s := range extra {
		key := normalize(s)
		if key == "" {
			continue
		}
		if _, ok := m.stops[key]; !ok {
			m.stops[key] = Reason{Configured: true}
		}
	}
	return m
}

// IsGeneric reports whether a category name is generic. Matching ignores
// case, surrounding whitespace and a trailing colon.
func (m *Manager) IsGeneric(name string) bool {
	_, ok := m.stops[normalize(name)]
	return ok
}

// Add adds a name to the stoplist with a reason
func (m *Manager) Add(name string, reason Reason) {
	key := normalize(name)
	if key == "" {
		return
	}
	m.stops[key] = reason
}

// Remove removes a name from the stoplist. The fallback category can not be
// removed.
func (m *Manager) Remove(name string) {
	key := normalize(name)
	if key == normalize(menu.FallbackCategory) {
		return
	}
	delete(m.stops, key)
}

// All returns all generic names, sorted
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// CountGeneric returns how many of the given category names are generic.
func (m *Manager) CountGeneric(names []string) int {
	n := 0
	for _, name := range names {
		if m.IsGeneric(name) {
			n++
		}
	}
	return n
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSpace(strings.TrimRight(name, ":"))
}

// Stats describes how one category name is used across a corpus of menus.
type Stats struct {
	Name       string
	MenuCount  int
	MenuShare  float64 // MenuCount / total menus
	AvgItems   float64
	HasKeyword bool // name contains a section keyword such as "soup"
}

// CollectStats tallies category names across documents. hasKeyword reports
// whether a name contains a known section keyword; nil means none do.
func CollectStats(docs []*menu.MenuDocument, hasKeyword func(string) bool) []Stats {
	type acc struct {
		menus int
		items int
	}
	byName := make(map[string]*acc)
	total := 0
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		total++
		seen := make(map[string]bool)
		for _, c := range doc.Categories {
			key := normalize(c.Name)
			if key == "" {
				continue
			}
			a, ok := byName[key]
			if !ok {
				a = &acc{}
				byName[key] = a
			}
			a.items += len(c.Items)
			if !seen[key] {
				seen[key] = true
				a.menus++
			}
		}
	}

	stats := make([]Stats, 0, len(byName))
	for key, a := range byName {
		s := Stats{
			Name:      key,
			MenuCount: a.menus,
			AvgItems:  float64(a.items) / float64(a.menus),
		}
		if total > 0 {
			s.MenuShare = float64(a.menus) / float64(total)
		}
		if hasKeyword != nil {
			s.HasKeyword = hasKeyword(key)
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].MenuCount != stats[j].MenuCount {
			return stats[i].MenuCount > stats[j].MenuCount
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// Candidate represents a suggested generic name
type Candidate struct {
	Name   string
	Reason Reason
	Score  float64 // confidence score
}

// SuggestCandidates proposes names that look generic: widely used across
// menus, large catch-all groups, and free of any section keyword.
func (m *Manager) SuggestCandidates(stats []Stats, thresholds Thresholds) []Candidate {
	var candidates []Candidate

	if thresholds.MinMenus == 0 {
		thresholds.MinMenus = 3
	}

	for _, s := range stats {
		if m.IsGeneric(s.Name) {
			continue // already generic
		}
		if s.HasKeyword || s.MenuCount < thresholds.MinMenus {
			continue
		}
		if s.MenuShare < thresholds.MenuShare || s.AvgItems < thresholds.AvgItems {
			continue
		}

		score := s.MenuShare
		if thresholds.AvgItems > 0 {
			score = (s.MenuShare + min(s.AvgItems/(2*thresholds.AvgItems), 1)) / 2
		}
		candidates = append(candidates, Candidate{
			Name:   s.Name,
			Reason: Reason{Suggested: true, Share: s.MenuShare},
			Score:  score,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates
}

// Thresholds defines criteria for generic name suggestions
type Thresholds struct {
	MinMenus  int     // e.g., 3 - seen in at least 3 menus
	MenuShare float64 // e.g., 0.2 - used by 20% of menus
	AvgItems  float64 // e.g., 8 - catch-all groups tend to be large
}

// DefaultThresholds returns sensible default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinMenus:  3,
		MenuShare: 0.2,
		AvgItems:  8,
	}
}
