// Package main provides the command line entrypoint for scoring copy offline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/copyscore/backend/analyzer"
	"github.com/copyscore/backend/textscore"
)

type scoreOptions struct {
	html      bool
	keywords  int
	dict      string
	statsOnly bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "copyscore",
		Short:         "Readability and quality scoring for marketing and email copy",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newScoreCmd())

	return rootCmd
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score a file, or stdin when the file is omitted or -",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "treat the input as an HTML email body")
	cmd.Flags().IntVar(&opts.keywords, "keywords", textscore.DefaultMaxKeywords, "number of keywords to report")
	cmd.Flags().StringVar(&opts.dict, "dict", "", "CMU pronouncing dictionary used to count syllables")
	cmd.Flags().BoolVar(&opts.statsOnly, "stats-only", false, "print only the text statistics")

	return cmd
}

func runScore(cmd *cobra.Command, args []string, opts *scoreOptions) error {
	if opts.keywords <= 0 {
		return fmt.Errorf("--keywords must be positive, got %d", opts.keywords)
	}

	content, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	scorerOpts := []textscore.Option{textscore.WithMaxKeywords(opts.keywords)}
	if opts.dict != "" {
		dict, err := textscore.LoadSyllableDictionary(opts.dict)
		if err != nil {
			return fmt.Errorf("failed to load syllable dictionary: %w", err)
		}
		scorerOpts = append(scorerOpts, textscore.WithSyllableCounter(dict.Count))
	}

	format := analyzer.FormatText
	if opts.html {
		format = analyzer.FormatHTML
	}

	analysis, err := analyzer.Evaluate(cmd.Context(), textscore.NewScorer(scorerOpts...), analyzer.Request{
		Content:     content,
		Format:      format,
		MaxKeywords: opts.keywords,
	})
	if err != nil {
		return fmt.Errorf("failed to score content: %w", err)
	}

	var result any = analysis
	if opts.statsOnly {
		result = analysis.Statistics
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
