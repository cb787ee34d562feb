package quality

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

func batchDocs(n int) []Named {
	docs := make([]Named, n)
	for i := range docs {
		items := []*menu.MenuItem{item("Egg Roll"), item("Wonton Soup")}
		if i%2 == 0 {
			items = append(items, item("xkvbgz"), item("Mapo Tofu"))
		}
		doc := docOf(items, menu.FallbackCategory)
		doc.Metadata.ParsingStatus = menu.StatusSuccess
		docs[i] = Named{Name: fmt.Sprintf("place-%02d", i), Document: doc}
	}
	return docs
}

func TestScoreBatchMatchesSequential(t *testing.T) {
	s := NewScorer(nil)
	docs := batchDocs(25)

	results, err := s.ScoreBatch(context.Background(), docs, 4)
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	for i, d := range docs {
		assert.Equal(t, d.Name, results[i].Name)
		assert.Equal(t, menu.StatusSuccess, results[i].Status)
		assert.Equal(t, s.ScoreDocument(d.Document), results[i].Score)
	}
}

func TestScoreBatchCancelled(t *testing.T) {
	s := NewScorer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScoreBatch(ctx, batchDocs(5), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreBatchEmpty(t *testing.T) {
	s := NewScorer(nil)

	results, err := s.ScoreBatch(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRank(t *testing.T) {
	results := []Result{
		{Name: "b", Score: Score{OverallScore: 50, NeedsCleaning: true}},
		{Name: "c", Score: Score{OverallScore: 90}},
		{Name: "a", Score: Score{OverallScore: 50, NeedsCleaning: true}},
		{Name: "d", Score: Score{OverallScore: 30, NeedsCleaning: true}},
	}

	ranked := Rank(results)
	require.Len(t, ranked, 3)
	assert.Equal(t, "d", ranked[0].Name)
	assert.Equal(t, "a", ranked[1].Name)
	assert.Equal(t, "b", ranked[2].Name)
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Result{
		{Name: "a", Status: menu.StatusSuccess, Score: Score{OverallScore: 100}},
		{Name: "b", Status: menu.StatusFailed, Score: Score{OverallScore: 60, NeedsCleaning: true}},
	})

	assert.Equal(t, 2, sum.Menus)
	assert.Equal(t, 1, sum.NeedsCleaning)
	assert.Equal(t, 1, sum.Failed)
	assert.InDelta(t, 80.0, sum.AverageScore, 0.001)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []Result{
		{Name: "golden-dragon", Score: Score{OverallScore: 55, TotalItems: 12, GarbledItems: 3, Issues: []string{`garbled: "xkvbgz"`}}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "MENU")
	assert.Contains(t, out, "golden-dragon")
	assert.Contains(t, out, `garbled: "xkvbgz"`)
}
