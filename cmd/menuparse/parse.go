package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/menuparse/pkg/menuparse/extract"
	"github.com/cognicore/menuparse/pkg/menuparse/menu"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse raw menu text into a MenuDocument",
	Long:  "Parse raw menu text (HTML, OCR or PDF text) from a file or stdin and print the structured MenuDocument as JSON.",
	RunE:  runParse,
}

var (
	parseInput   string
	parseURL     string
	parseType    string
	parseCompact bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInput, "in", "i", "-", "Input file, - for stdin")
	parseCmd.Flags().StringVar(&parseURL, "url", "", "Source URL recorded in the metadata")
	parseCmd.Flags().StringVar(&parseType, "type", "", "Content type: html, text, image or pdf (default: detect)")
	parseCmd.Flags().BoolVar(&parseCompact, "compact", false, "Print compact JSON")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	comp, err := loadComponents(s)
	if err != nil {
		return err
	}

	if parseType != "" && parseType != "text" && menu.ParseContentType(parseType) == "" {
		return fmt.Errorf("unknown --type %q", parseType)
	}

	data, err := readInput(cmd, parseInput)
	if err != nil {
		return err
	}

	raw := menu.RawMenuText{
		Text:        string(data),
		SourceURL:   parseURL,
		ContentType: menu.ParseContentType(parseType),
	}
	if err := raw.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	var text string
	if parseType == "text" {
		// plain text even when it starts with "<"
		text, err = extract.NewTextExtractor().Extract(cmd.Context(), raw)
	} else {
		text, err = extract.Default().Extract(cmd.Context(), raw)
	}
	if err != nil {
		return err
	}

	doc := comp.Pipeline.Parse(text, raw.SourceURL)
	return writeJSON(cmd.OutOrStdout(), doc, parseCompact)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
