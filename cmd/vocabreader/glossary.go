package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabreader/pkg/config"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/source"
)

// NewGlossaryCommand creates the glossary command and its subcommands
func NewGlossaryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Check, merge and download glossary files",
	}
	cmd.AddCommand(
		newGlossaryCheckCommand(opts),
		newGlossaryMergeCommand(),
		newGlossaryFetchCommand(),
		newGlossaryImportCommand(),
	)
	return cmd
}

func newGlossaryCheckCommand(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a glossary and report duplicate keys",
		Long: `Parse a glossary file, build its lookup index with the configured
boundary characters and report how many words it defines, how many words
collide on the same key and how the words are spread over chapters.

Without a file argument the configured glossary is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Glossary
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no glossary given")
			}

			entries, err := glossary.LoadFile(path)
			if err != nil {
				return err
			}
			ix, err := glossary.NewIndex(entries, glossary.WithNormalizer(cfg.Normalizer()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d entries, %d distinct words\n", path, len(entries), ix.Len())
			chapters := glossary.ByChapter(entries)
			nums := make([]int, 0, len(chapters))
			for n := range chapters {
				nums = append(nums, n)
			}
			sort.Ints(nums)
			for _, n := range nums {
				fmt.Fprintf(out, "  chapter %d: %d entries\n", n, len(chapters[n]))
			}

			dups := ix.Duplicates()
			for _, d := range dups {
				fmt.Fprintf(out, "  duplicate %q: entries %d and %d (later wins)\n", d.Key, d.First, d.Second)
			}
			if strict && len(dups) > 0 {
				return &glossary.DuplicateError{Duplicates: dups}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any key is defined twice")

	return cmd
}

func newGlossaryMergeCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "merge <approved.json>",
		Short: "Merge approved words into the per-chapter vocabulary files",
		Long: `Merge a file of approved glossary entries into the chapter vocabulary
files under the project root. Each entry goes to vocab_ch<N>.json of its
chapter; an entry for a word already present replaces it, new words are
appended. Entries without a chapter number are skipped.

Examples:
  vocabreader glossary merge approved.json --root ./buddenbrooks`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := glossary.LoadFile(args[0])
			if err != nil {
				return err
			}
			existing, err := source.VocabFiles(root)
			if err != nil {
				return err
			}

			byChapter := glossary.ByChapter(incoming)
			nums := make([]int, 0, len(byChapter))
			for n := range byChapter {
				nums = append(nums, n)
			}
			sort.Ints(nums)

			out := cmd.OutOrStdout()
			for _, n := range nums {
				path, ok := existing[n]
				var current []glossary.Entry
				if ok {
					if current, err = glossary.LoadFile(path); err != nil {
						return err
					}
				} else {
					path = source.VocabPath(root, n)
				}
				merged := glossary.Merge(current, byChapter[n])
				if err := glossary.WriteFile(path, merged); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(out, "chapter %d: %d -> %d words (%s)\n", n, len(current), len(merged), path)
			}
			if skipped := len(incoming) - countEntries(byChapter); skipped > 0 {
				fmt.Fprintf(out, "skipped %d entries without a chapter\n", skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Project root holding chapters and vocab_data")

	return cmd
}

func countEntries(m map[int][]glossary.Entry) int {
	n := 0
	for _, es := range m {
		n += len(es)
	}
	return n
}

func newGlossaryFetchCommand() *cobra.Command {
	var jmdict bool

	cmd := &cobra.Command{
		Use:   "fetch [url] [dest]",
		Short: "Download a glossary file",
		Long: `Download a glossary or a jmdict-simplified dictionary to dest unless
it already exists. .gz and .tar.gz downloads are unpacked. The default
destination is glossary.json in the state directory.

With --jmdict the url is omitted and the latest jmdict-simplified English
dictionary is downloaded (default destination jmdict-eng-common.json).`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var url, dest string
			if jmdict {
				if len(args) > 1 {
					return errors.New("--jmdict takes at most a destination")
				}
				dest = filepath.Join(config.StateDir(), "jmdict-eng-common.json")
				if len(args) == 1 {
					dest = args[0]
				}
				var err error
				if url, err = glossary.LatestJMdictURL(cmd.Context()); err != nil {
					return fmt.Errorf("failed to find latest dictionary release: %w", err)
				}
			} else {
				if len(args) == 0 {
					return errors.New("a url is required (or use --jmdict)")
				}
				url = args[0]
				dest = filepath.Join(config.StateDir(), "glossary.json")
				if len(args) == 2 {
					dest = args[1]
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Downloading %s...\n", url)
			if err := glossary.Fetch(cmd.Context(), url, dest); err != nil {
				return fmt.Errorf("fetch glossary: %w", err)
			}
			// Dictionaries for import-jmdict are fetched the same way but are
			// not glossaries yet.
			entries, err := glossary.LoadFile(dest)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s (not a glossary: %v)\n", dest, err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Glossary at %s has %d entries\n", dest, len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jmdict, "jmdict", false, "Download the latest jmdict-simplified English dictionary")

	return cmd
}

func newGlossaryImportCommand() *cobra.Command {
	var common bool

	cmd := &cobra.Command{
		Use:   "import-jmdict <jmdict.json> <out.json>",
		Short: "Convert a jmdict-simplified dictionary into a glossary",
		Long: `Convert a jmdict-simplified JSON file into a glossary for reading Japanese
with --segmenter japanese. Every written form becomes one entry with the
English glosses, the German glosses when the file has them and the kana
readings as context.

Examples:
  vocabreader glossary fetch https://example.com/jmdict-eng-common.json.tgz jmdict.json
  vocabreader glossary import-jmdict jmdict.json ja.json --common`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loading dictionary from %s...\n", args[0])
			dict, err := glossary.LoadJMdict(args[0])
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}
			entries := glossary.FromJMdict(dict, common)
			if err := glossary.WriteFile(args[1], entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d glossary entries from %d dictionary entries to %s\n", len(entries), len(dict), args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&common, "common", false, "Keep only forms marked common")

	return cmd
}
