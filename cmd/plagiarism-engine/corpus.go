// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the reference corpus",
	Long: `Corpus manages the SQLite store of reference documents that submissions
are compared against. Documents can be seeded from the bundled samples,
imported from YAML or JSON, listed, exported, and removed.`,
}

var corpusSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the bundled sample documents into an empty corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = a.store.Seed(cmd.Context(), cmd.OutOrStdout())
		return err
	},
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reference documents in insertion order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.store.Documents(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if docs == nil {
				docs = []types.ReferenceDocument{}
			}
			return writeJSON(out, docs)
		}
		printDocuments(out, docs)
		return nil
	},
}

var corpusAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one reference document",
	Long: `Add stores one reference document. The content comes from --content or,
when --file is given, from that file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := documentFromFlags(cmd)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stored, err := a.store.Add(cmd.Context(), doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s %q\n", stored.ID, stored.Title)
		return nil
	},
}

var corpusImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import reference documents from a YAML or JSON file",
	Long: `Import reads a list of reference documents and inserts them in a single
transaction. One invalid document rejects the whole file. Documents without
an id get a fresh one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.store.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents from %s\n", n, args[0])
		return nil
	},
}

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		format = strings.ToLower(format)
		if format != "yaml" && format != "json" {
			return fmt.Errorf("unknown export format %q (want yaml or json)", format)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		if format == "json" {
			err = a.store.ExportJSON(cmd.Context(), w)
		} else {
			err = a.store.ExportYAML(cmd.Context(), w)
		}
		if err != nil {
			return err
		}
		if output != "" && output != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "exported corpus to %s\n", output)
		}
		return nil
	},
}

var corpusRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove reference documents by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, id := range args {
			if err := a.store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("removing %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
		}
		return nil
	},
}

func documentFromFlags(cmd *cobra.Command) (types.ReferenceDocument, error) {
	var doc types.ReferenceDocument
	doc.Title, _ = cmd.Flags().GetString("title")
	doc.Category, _ = cmd.Flags().GetString("category")
	doc.Source, _ = cmd.Flags().GetString("source")
	doc.Content, _ = cmd.Flags().GetString("content")

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return doc, fmt.Errorf("reading content: %w", err)
		}
		doc.Content = strings.TrimSpace(string(data))
	}
	return doc, nil
}

func printDocuments(w io.Writer, docs []types.ReferenceDocument) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "corpus is empty")
		return
	}
	fmt.Fprintf(w, "%-36s  %-18s  %-16s  %s\n", "ID", "Category", "Source", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range docs {
		fmt.Fprintf(w, "%-36s  %-18s  %-16s  %s\n", d.ID, truncate(d.Category, 18), truncate(d.Source, 16), d.Title)
	}
	fmt.Fprintf(w, "\n%d documents\n", len(docs))
}

func init() {
	corpusListCmd.Flags().Bool("json", false, "output documents as JSON")

	corpusAddCmd.Flags().String("title", "", "document title")
	corpusAddCmd.Flags().String("category", "", "document category (e.g. Biology)")
	corpusAddCmd.Flags().String("source", "", "where the document comes from")
	corpusAddCmd.Flags().String("content", "", "document text")
	corpusAddCmd.Flags().String("file", "", "read the document text from a file")

	corpusExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	corpusExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	corpusCmd.AddCommand(corpusSeedCmd, corpusListCmd, corpusAddCmd, corpusImportCmd, corpusExportCmd, corpusRemoveCmd)
	rootCmd.AddCommand(corpusCmd)
}
