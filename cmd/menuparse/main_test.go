package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/menuparse/pkg/menuparse/config"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
)

const pagesJSONL = `{"place_id":"dragon","url":"https://dragon.example/menu","content_type":"html","text":"<h2>APPETIZERS</h2><p>Egg Roll $1.50</p><p>Crab Rangoon $5.95</p><h2>SOUPS</h2><p>Wonton Soup $3.25</p>"}
{"place_id":"wok","content_type":"ocr","text":"Kung Pao Chicken $850\nBeef Broccoli $9.95\nPork Fried Rice $7.50"}
`

// resetFlags restores every flag to its default between runs of the shared
// command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, env := range []string{config.EnvDBPath, config.EnvDatabaseURL, config.EnvLexicon, config.EnvWorkers, config.EnvBrowserFallback} {
		t.Setenv(env, "")
	}
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommandFromStdin(t *testing.T) {
	out, err := execute(t, "APPETIZERS\nEgg Roll $1.50\nSOUPS\nWonton Soup $3.25\n", "parse", "--url", "https://dragon.example/menu")
	require.NoError(t, err)

	var doc menu.MenuDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, menu.StatusSuccess, doc.Metadata.ParsingStatus)
	assert.Equal(t, []string{"APPETIZERS", "SOUPS"}, doc.CategoryNames())
	assert.Equal(t, "https://dragon.example/menu", doc.Metadata.SourceURL)
}

func TestParseCommandHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.html")
	require.NoError(t, os.WriteFile(path, []byte("<ul><li>Pad Thai $11</li><li>Tom Yum Soup $6</li><li>Green Curry $12</li></ul>"), 0o644))

	out, err := execute(t, "", "parse", "--in", path, "--compact")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"), "compact output is one line")

	var doc menu.MenuDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 3, doc.Metadata.TotalItems)
	assert.Equal(t, []string{menu.FallbackCategory}, doc.CategoryNames())
}

func TestParseCommandRejectsUnknownType(t *testing.T) {
	_, err := execute(t, "Egg Roll $1.50", "parse", "--type", "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown --type")
}

func TestScoreCommand(t *testing.T) {
	parsed, err := execute(t, "Kung Pao Chicken $850\nBeef Broccoli $9.95\nPork Fried Rice $7.50", "parse")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(parsed), 0o644))

	out, err := execute(t, "", "score", "--in", path)
	require.NoError(t, err)

	var sc quality.Score
	require.NoError(t, json.Unmarshal([]byte(out), &sc))
	assert.Equal(t, 80, sc.OverallScore)
	assert.Equal(t, 1, sc.ItemsWithMissingDecimal)
	assert.True(t, sc.NeedsCleaning)
}

func TestIngestReportReprocess(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "pages.jsonl")
	db := filepath.Join(dir, "menus.db")
	require.NoError(t, os.WriteFile(data, []byte(pagesJSONL), 0o644))

	out, err := execute(t, "", "ingest", "--data", data, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "stored=2 failed=0 needs_cleaning=1")

	out, err = execute(t, "", "report", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "wok")
	assert.NotContains(t, out, "dragon")
	assert.Contains(t, out, "2 menus, 1 need cleaning")

	out, err = execute(t, "", "report", "--db", db, "--all", "--suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "dragon")
	assert.Contains(t, out, "Generic category suggestions (0)")

	out, err = execute(t, "", "reprocess", "--db", db, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "processed=2 updated=0 errors=0")
}

func TestIngestRequiresData(t *testing.T) {
	_, err := execute(t, "", "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestFetchSaveRequiresPlaceID(t *testing.T) {
	_, err := execute(t, "", "fetch", "--url", "https://dragon.example/menu", "--save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--place-id")
}

func TestInvalidWorkersRejected(t *testing.T) {
	_, err := execute(t, "", "reprocess", "--db", filepath.Join(t.TempDir(), "m.db"), "--workers", "1000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}
