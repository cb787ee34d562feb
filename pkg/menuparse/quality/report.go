package quality

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

// Rank returns the results that need cleaning, worst first. Ties are broken
// by name so the order is stable across runs.
func Rank(results []Result) []Result {
	var ranked []Result
	for _, r := range results {
		if r.Score.NeedsCleaning {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.OverallScore != ranked[j].Score.OverallScore {
			return ranked[i].Score.OverallScore < ranked[j].Score.OverallScore
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// Summary aggregates a batch.
type Summary struct {
	Menus         int
	NeedsCleaning int
	AverageScore  float64
	Failed        int
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	var sum Summary
	total := 0
	for _, r := range results {
		sum.Menus++
		total += r.Score.OverallScore
		if r.Score.NeedsCleaning {
			sum.NeedsCleaning++
		}
		if r.Status == menu.StatusFailed {
			sum.Failed++
		}
	}
	if sum.Menus > 0 {
		sum.AverageScore = float64(total) / float64(sum.Menus)
	}
	return sum
}

// WriteTable prints the ranked report.
func WriteTable(w io.Writer, results []Result) error {
	if _, err := fmt.Fprintf(w, "%-28s  %5s  %5s  %7s  %7s  %7s  %5s  %s\n",
		"MENU", "SCORE", "ITEMS", "GARBLED", "NONMENU", "BADPRC", "CATS", "TOP ISSUE"); err != nil {
		return err
	}
	for _, r := range results {
		sc := r.Score
		issue := ""
		if len(sc.Issues) > 0 {
			issue = sc.Issues[0]
		}
		if _, err := fmt.Fprintf(w, "%-28s  %5d  %5d  %7d  %7d  %7d  %5d  %s\n",
			truncate(r.Name, 28), sc.OverallScore, sc.TotalItems, sc.GarbledItems,
			sc.NonMenuItems, sc.ItemsWithBadPrice, sc.TotalCategories, issue); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
