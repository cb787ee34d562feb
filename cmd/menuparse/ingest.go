package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/menuparse/internal/scrape"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse, score and store a batch of scraped pages",
	Long:  "Read scraped pages from a JSONL file (place_id, url, content_type, text per line), parse and score each one, and store the results.",
	RunE:  runIngest,
}

var ingestData string

func init() {
	ingestCmd.Flags().StringVar(&ingestData, "data", "", "Input JSONL file (required)")
	_ = ingestCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	pages, err := scrape.LoadFromJSONL(ingestData)
	if err != nil {
		return fmt.Errorf("failed to load pages: %w", err)
	}
	log.Printf("Loaded %d pages from %s", len(pages), ingestData)

	engine, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := cmd.Context()
	start := time.Now()
	stored, failed, flagged := 0, 0, 0

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := engine.ParseAndStore(ctx, page.PlaceID, page.Raw())
		if err != nil {
			log.Printf("Warning: failed to ingest %s: %v", page.PlaceID, err)
			failed++
			continue
		}
		stored++
		if rec.Quality != nil && rec.Quality.NeedsCleaning {
			flagged++
		}

		if (i+1)%10 == 0 {
			log.Printf("Processed %d/%d pages", i+1, len(pages))
		}
	}

	log.Printf("Ingested %d pages in %s (%d failed, %d need cleaning)",
		stored, time.Since(start).Round(time.Millisecond), failed, flagged)
	fmt.Fprintf(cmd.OutOrStdout(), "stored=%d failed=%d needs_cleaning=%d\n", stored, failed, flagged)
	return nil
}
