// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/plagiarism-engine/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text|-]",
	Short: "Compare a submission with the reference corpus",
	Long: `Analyze corrects OCR noise in the submission, ranks the reference corpus
by similarity, and prints the verdict with the closest matches.

The submission is read from the arguments, from --file, or from stdin when
the only argument is "-". With --external the Crossref lookup runs
alongside the local comparison.`,
	RunE: runAnalyze,
}

var externalCmd = &cobra.Command{
	Use:   "external [text|-]",
	Short: "Check a submission against Crossref abstracts",
	Long: `External extracts keywords from the submission, queries Crossref, and
scores each returned abstract by word trigram overlap. Results for the same
keyword query are reused for the cache TTL while serve is running; the CLI
starts with an empty cache on every invocation.`,
	RunE: runExternal,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.seedIfEnabled(ctx, io.Discard); err != nil {
		return err
	}

	withExternal, _ := cmd.Flags().GetBool("external")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if withExternal {
		rep, err := a.svc.AnalyzeFull(ctx, req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, rep)
		}
		printLocalReport(out, rep.Local)
		fmt.Fprintln(out)
		printExternalReport(out, rep.External)
		return nil
	}

	rep, err := a.svc.AnalyzeLocal(ctx, req)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, rep)
	}
	printLocalReport(out, rep)
	return nil
}

func runExternal(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.svc.AnalyzeExternal(cmd.Context(), req)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	printExternalReport(cmd.OutOrStdout(), rep)
	return nil
}

// requestFromFlags assembles the submission from --file, "-" (stdin), or
// the joined arguments.
func requestFromFlags(cmd *cobra.Command, args []string) (analysis.Request, error) {
	student, _ := cmd.Flags().GetString("student")
	file, _ := cmd.Flags().GetString("file")

	var text string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("reading submission: %w", err)
		}
		text = string(data)
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return analysis.Request{}, fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		return analysis.Request{}, fmt.Errorf("submission text required: pass it as arguments, with --file, or '-' for stdin")
	}
	return analysis.Request{StudentID: student, Text: text}, nil
}

func printLocalReport(w io.Writer, rep analysis.LocalReport) {
	fmt.Fprintf(w, "Student:        %s\n", rep.StudentID)
	fmt.Fprintf(w, "Decision:       %s (%s)\n", rep.Decision, rep.Color)
	fmt.Fprintf(w, "Highest score:  %.4f\n", rep.HighestScore)
	fmt.Fprintf(w, "Word count:     %d\n", rep.WordCount)

	if len(rep.TopMatches) == 0 {
		fmt.Fprintln(w, "\nNo reference documents to compare against.")
		return
	}
	fmt.Fprintf(w, "\n%-4s  %-6s  %-18s  %s\n", "Rank", "Score", "Category", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, m := range rep.TopMatches {
		fmt.Fprintf(w, "%-4d  %.4f  %-18s  %s\n", i+1, m.Score, truncate(m.Category, 18), truncate(m.Title, 44))
	}
}

func printExternalReport(w io.Writer, rep analysis.ExternalReport) {
	fmt.Fprintf(w, "Keywords:  %s\n", strings.Join(rep.QueryKeywords, ", "))
	cached := ""
	if rep.FromCache {
		cached = " (cached)"
	}
	fmt.Fprintf(w, "Results:   %d in %.3fs%s\n", rep.ResultCount, rep.LatencySeconds, cached)
	if rep.ResultCount == 0 {
		return
	}

	fmt.Fprintf(w, "\n%-4s  %-9s  %-9s  %-4s  %s\n", "Rank", "Relevance", "Overlap", "Year", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, r := range rep.Sources {
		rel, overlap, year := "-", "-", "-"
		if r.Score != nil {
			rel = fmt.Sprintf("%.4f", *r.Score)
		}
		if r.PlagiarismScore != nil {
			overlap = fmt.Sprintf("%.4f", *r.PlagiarismScore)
		}
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		title := r.Title
		if r.DOI != "" {
			title += " [" + r.DOI + "]"
		}
		fmt.Fprintf(w, "%-4d  %-9s  %-9s  %-4s  %s\n", i+1, rel, overlap, year, truncate(title, 50))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// seedIfEnabled loads the sample corpus into an empty store when
// corpus.seed is on.
func (a *app) seedIfEnabled(ctx context.Context, w io.Writer) error {
	if !a.cfg.Corpus.Seed {
		return nil
	}
	_, err := a.store.Seed(ctx, w)
	return err
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, externalCmd} {
		c.Flags().String("file", "", "read the submission from a file")
		c.Flags().String("student", "cli", "student identifier recorded in the report")
		c.Flags().Bool("json", false, "output the report as JSON")
		rootCmd.AddCommand(c)
	}
	analyzeCmd.Flags().Bool("external", false, "also query Crossref")
	analyzeCmd.Flags().Int("top", 0, "number of matches to list (overrides detection.top_matches)")
	viper.BindPFlag("detection.top_matches", analyzeCmd.Flags().Lookup("top"))
}
