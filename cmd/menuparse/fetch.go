package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/cognicore/menuparse/internal/fetch"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a menu page, parse and score it",
	Long:  "Fetch a restaurant menu page, extract the menu text, parse and score it. With --save the result is stored under --place-id.",
	RunE:  runFetch,
}

var (
	fetchURL     string
	fetchPlaceID string
	fetchSave    bool
	fetchBrowser bool
	fetchVerbose bool
)

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "Menu page URL (required)")
	fetchCmd.Flags().StringVar(&fetchPlaceID, "place-id", "", "Place ID to store the menu under (required with --save)")
	fetchCmd.Flags().BoolVar(&fetchSave, "save", false, "Store the parsed menu")
	fetchCmd.Flags().BoolVar(&fetchBrowser, "browser", false, "Fall back to headless Chrome for script-rendered pages (env MENUPARSE_BROWSER_FALLBACK)")
	fetchCmd.Flags().BoolVarP(&fetchVerbose, "verbose", "v", false, "Verbose output")
	_ = fetchCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(fetchCmd)
}

type fetchOutput struct {
	URL      string             `json:"url"`
	PlaceID  string             `json:"place_id,omitempty"`
	Document *menu.MenuDocument `json:"document"`
	Quality  quality.Score      `json:"quality"`
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if fetchSave && fetchPlaceID == "" {
		return fmt.Errorf("--place-id is required with --save")
	}

	engine, s, err := openEngine(cmd, fetchSave)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := cmd.Context()
	opts := &fetch.Options{Timeout: s.FetchTimeout, UserAgent: s.UserAgent}
	useBrowser := s.BrowserFallback || fetchBrowser

	var res *fetch.Result
	if useBrowser {
		res, err = fetch.Rendered(ctx, fetchURL, opts, fetchVerbose)
	} else {
		res, err = fetch.URL(ctx, fetchURL, opts)
	}
	if err != nil {
		return err
	}
	if fetchVerbose {
		log.Printf("Fetched %s: status %d, %d chars of menu text", res.URL, res.StatusCode, len(res.Text))
	}
	if !useBrowser && fetch.ShouldUseBrowser(res.Text) {
		log.Printf("Warning: very little text extracted from %s; try --browser", res.URL)
	}

	raw := menu.RawMenuText{Text: res.MenuHTML, SourceURL: res.URL, ContentType: menu.ContentHTML}
	out := fetchOutput{URL: res.URL, PlaceID: fetchPlaceID}

	if fetchSave {
		rec, err := engine.ParseAndStore(ctx, fetchPlaceID, raw)
		if err != nil {
			return fmt.Errorf("failed to store menu: %w", err)
		}
		out.Document, out.Quality = rec.Document, *rec.Quality
		log.Printf("Stored menu %s (id %s)", rec.PlaceID, rec.ID)
	} else {
		p, err := engine.Process(ctx, raw)
		if err != nil {
			return err
		}
		out.Document, out.Quality = p.Document, p.Score
	}

	return writeJSON(cmd.OutOrStdout(), out, false)
}
