package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set during build with -ldflags
var version = "dev"

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vocabreader",
		Short: "Read a text with glossary words annotated and build a vocabulary list",
		Long: `vocabreader shows a text page by page, marks every word found in a
glossary with its definition and lets you collect words into a saved list
that persists between runs.

Run 'vocabreader read' for the terminal reader or 'vocabreader serve' for
the HTTP reader.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/vocabreader/config.yaml)")
	flags.StringVarP(&opts.user, "user", "u", "", "Reader identity")
	flags.StringVarP(&opts.text, "text", "t", "", "Text to read (txt, md, html, epub, pdf)")
	flags.StringVar(&opts.url, "url", "", "Web page to read instead of --text")
	flags.StringVarP(&opts.glossary, "glossary", "g", "", "Glossary file (JSON or YAML)")
	flags.StringVar(&opts.storeDriver, "store", "", "Saved-word store: sqlite or file")
	flags.StringVar(&opts.storePath, "store-path", "", "Saved-word store location")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Words per page")
	flags.StringVar(&opts.mode, "mode", "", "Definition display: english or full")
	flags.StringVar(&opts.duplicates, "duplicates", "", "Glossary collisions: overwrite or reject")
	flags.StringVar(&opts.segmenter, "segmenter", "", "Word segmenter: none or japanese")

	root.AddCommand(
		NewReadCommand(opts),
		NewServeCommand(opts),
		NewSavedCommand(opts),
		NewGlossaryCommand(opts),
		NewScanCommand(opts),
		NewConfigCommand(opts),
		NewVersionCommand(),
	)
	return root
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vocabreader",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vocabreader version %s\n", version)
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
