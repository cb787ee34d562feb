package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a parsed MenuDocument",
	Long:  "Read a MenuDocument JSON file (as printed by parse) and print its quality score as JSON.",
	RunE:  runScore,
}

var (
	scoreInput   string
	scoreCompact bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "in", "i", "", "MenuDocument JSON file, - for stdin (required)")
	scoreCmd.Flags().BoolVar(&scoreCompact, "compact", false, "Print compact JSON")
	_ = scoreCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	comp, err := loadComponents(s)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, scoreInput)
	if err != nil {
		return err
	}
	var doc menu.MenuDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	score := comp.Scorer.ScoreDocument(&doc)
	return writeJSON(cmd.OutOrStdout(), score, scoreCompact)
}
