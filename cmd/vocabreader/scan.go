package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabreader/pkg/saved"
	"github.com/japaniel/vocabreader/pkg/scan"
	"github.com/japaniel/vocabreader/pkg/source"
)

// NewScanCommand creates the scan command
func NewScanCommand(opts *rootOptions) *cobra.Command {
	var (
		workers  int
		jsonOut  bool
		listKeys bool
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Report glossary coverage for every chapter",
		Long: `Scan chapter_<N>.txt files under root (or root/chapters) and report per
chapter how many words the glossary covers and how many of the glossary
words occurring there the user has saved.

With --glossary every chapter is matched against that glossary, otherwise
each chapter uses its own vocab_ch<N>.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			chapters, err := source.Chapters(root)
			if err != nil {
				return err
			}
			if len(chapters) == 0 {
				return fmt.Errorf("no chapter_<N>.txt files under %s", root)
			}

			a, err := openApp(opts, stderrLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			tz, err := a.cfg.Tokenizer()
			if err != nil {
				return err
			}
			sc := &scan.Scanner{
				Tokenizer: tz,
				Saved:     saved.New(nil, a.bridge.Load(ctx, a.cfg.User)...),
				Workers:   workers,
				Logger:    a.logger,
			}
			if a.cfg.Glossary != "" {
				if sc.Index, err = a.index(); err != nil {
					return err
				}
			}

			results, err := sc.Scan(ctx, chapters)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return printScan(cmd, results, listKeys)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent chapters (default: number of CPUs)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&listKeys, "words", false, "List the glossary words found in each chapter")

	return cmd
}

func printScan(cmd *cobra.Command, results []scan.Result, listKeys bool) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CHAPTER\tWORDS\tHITS\tCOVERAGE\tDISTINCT\tSAVED\t")
	var words, hits int
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%d\t-\t-\t-\t-\t-\t %s\n", r.Chapter, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.1f%%\t%d\t%d\t\n", r.Chapter, r.Words, r.Hits, 100*r.Coverage(), len(r.Distinct), r.Saved)
		words += r.Words
		hits += r.Hits
	}
	total := scan.Result{Words: words, Hits: hits}
	fmt.Fprintf(tw, "total\t%d\t%d\t%.1f%%\t\t\t\n", words, hits, 100*total.Coverage())
	if err := tw.Flush(); err != nil {
		return err
	}

	if listKeys {
		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Err == nil {
				fmt.Fprintf(out, "\nchapter %d: %v\n", r.Chapter, r.Distinct)
			}
		}
	}
	return nil
}
