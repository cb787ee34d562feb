package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/menuparse/pkg/menuparse"
	"github.com/cognicore/menuparse/pkg/menuparse/quality"
	"github.com/cognicore/menuparse/pkg/menuparse/stoplist"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rank stored menus that need cleaning",
	Long:  "Rescore stored menus with the current vocabulary and print the ones that need manual cleaning, worst first. --suggest also proposes category names that look generic.",
	RunE:  runReport,
}

var (
	reportLimit   int
	reportAll     bool
	reportSuggest bool
)

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "Only consider the N most recently updated menus (0 = all)")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "List every menu, not only the ones needing cleaning")
	reportCmd.Flags().BoolVar(&reportSuggest, "suggest", false, "Suggest generic category names for the lexicon")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	engine, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := cmd.Context()
	results, err := engine.Report(ctx, menuparse.ReportRequest{Limit: reportLimit, All: reportAll})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := quality.WriteTable(out, results); err != nil {
		return err
	}

	all := results
	if !reportAll {
		if all, err = engine.Report(ctx, menuparse.ReportRequest{Limit: reportLimit, All: true}); err != nil {
			return err
		}
	}
	sum := quality.Summarize(all)
	fmt.Fprintf(out, "\n%d menus, %d need cleaning, %d failed, average score %.1f\n",
		sum.Menus, sum.NeedsCleaning, sum.Failed, sum.AverageScore)

	if !reportSuggest {
		return nil
	}
	candidates, err := engine.SuggestGeneric(ctx, reportLimit, stoplist.DefaultThresholds())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nGeneric category suggestions (%d):\n", len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(out, "  %-28s share=%.2f score=%.2f\n", c.Name, c.Reason.Share, c.Score)
	}
	return nil
}
