package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Re-parse stored menus with the current vocabulary",
	Long:  "Re-parse the stored text of every menu with the current lexicon, rescore it and save the menus whose structure changed.",
	RunE:  runReprocess,
}

func init() {
	rootCmd.AddCommand(reprocessCmd)
}

func runReprocess(cmd *cobra.Command, _ []string) error {
	engine, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	start := time.Now()
	res, err := engine.Reprocess(cmd.Context())
	if err != nil {
		return fmt.Errorf("reprocess: %w", err)
	}
	log.Printf("Reprocessed %d menus in %s", res.Processed, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "processed=%d updated=%d errors=%d\n", res.Processed, res.Updated, res.Errors)
	return nil
}
