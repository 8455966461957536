package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabreader/pkg/export"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/saved"
)

// NewSavedCommand creates the saved command and its subcommands
func NewSavedCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Inspect and manage saved words",
	}
	cmd.AddCommand(
		newSavedListCommand(opts),
		newSavedUsersCommand(opts),
		newSavedClearCommand(opts),
		newSavedExportCommand(opts),
	)
	return cmd
}

func newSavedListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved words of a user",
		Long: `List the saved words of a user in sorted order. With a glossary the
English definition is shown and words missing from the glossary are counted
but not listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, stderrLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			keys := a.bridge.Load(cmd.Context(), a.cfg.User)
			out := cmd.OutOrStdout()
			if a.cfg.Glossary == "" {
				for _, k := range keys {
					fmt.Fprintln(out, k)
				}
				fmt.Fprintf(out, "%d saved words for %s\n", len(keys), a.cfg.User)
				return nil
			}

			ix, err := a.index()
			if err != nil {
				return err
			}
			set := saved.New(ix, keys...)
			visible := set.Visible()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, k := range visible {
				e, _ := ix.Get(k)
				fmt.Fprintf(tw, "%s\t%s\n", e.Word, e.DefinitionEnglish)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d saved words for %s", len(visible), a.cfg.User)
			if orphans := set.Len() - len(visible); orphans > 0 {
				fmt.Fprintf(out, " (%d not in this glossary)", orphans)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newSavedUsersCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every user with saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, stderrLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.store.Users(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tSAVED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%d\n", u.Name, u.SavedWords)
			}
			return tw.Flush()
		},
	}
}

func newSavedClearCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved word of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear saved words without --yes")
			}
			a, err := openApp(opts, stderrLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			n := len(a.bridge.Load(cmd.Context(), a.cfg.User))
			if err := a.bridge.Save(cmd.Context(), a.cfg.User, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d saved words for %s\n", n, a.cfg.User)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing")

	return cmd
}

func newSavedExportCommand(opts *rootOptions) *cobra.Command {
	var (
		file      string
		clipboard bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved words with their definitions as CSV",
		Long: `Export the saved words of a user as a CSV table with the columns
"Wort (DE)", "Definition (DE)" and "Definition (EN)". Words missing from the
glossary are skipped.

Examples:
  vocabreader saved export --glossary vocab.json > words.csv
  vocabreader saved export --glossary vocab.json --file words.csv
  vocabreader saved export --glossary vocab.json --clipboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && clipboard {
				return errors.New("--file and --clipboard are mutually exclusive")
			}
			a, err := openApp(opts, stderrLogger(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			ix, err := a.index()
			if err != nil {
				return err
			}
			entries := savedEntries(ix, a.bridge.Load(cmd.Context(), a.cfg.User))

			switch {
			case clipboard:
				if !export.ClipboardAvailable() {
					return errors.New("no system clipboard available")
				}
				if err := export.ToClipboard(entries); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d words to the clipboard\n", len(entries))
			case file != "":
				if err := export.WriteFile(file, entries); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d words to %s\n", len(entries), file)
			default:
				return export.WriteCSV(cmd.OutOrStdout(), entries)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write the CSV to a file instead of stdout")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "Copy the CSV to the system clipboard")

	return cmd
}

// savedEntries resolves saved keys to glossary entries, skipping orphans.
func savedEntries(ix *glossary.Index, keys []string) []glossary.Entry {
	set := saved.New(ix, keys...)
	visible := set.Visible()
	out := make([]glossary.Entry, 0, len(visible))
	for _, k := range visible {
		e, _ := ix.Get(k)
		out = append(out, e)
	}
	return out
}
