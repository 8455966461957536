package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/japaniel/vocabreader/pkg/config"
	"github.com/japaniel/vocabreader/pkg/session"
	"github.com/japaniel/vocabreader/pkg/tui"
)

// NewReadCommand creates the read command
func NewReadCommand(opts *rootOptions) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a text in the terminal",
		Long: `Open the text in the terminal reader. Glossary words are highlighted
with their definition; select a word with tab or the arrow keys and press
space to save it.

Keys:
  tab/→  shift+tab/←   move between glossary words
  space/enter          save or unsave the selected word
  n/p                  next or previous page
  d                    toggle English only / full definitions
  s                    toggle the saved-word sidebar
  e                    export saved words as CSV
  x                    clear saved words
  q                    save and quit

Examples:
  vocabreader read --text buddenbrooks.txt --glossary vocab.json
  vocabreader read --url https://example.com/article --glossary vocab.yaml --user anna`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, opts, exportPath)
		},
	}

	cmd.Flags().StringVarP(&exportPath, "export", "e", "", "CSV file written by the export key (default: clipboard)")

	return cmd
}

func runRead(cmd *cobra.Command, opts *rootOptions, exportPath string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Warnings would draw over the alternate screen; send them to a file.
	if err := os.MkdirAll(config.StateDir(), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	logFile, err := tea.LogToFile(filepath.Join(config.StateDir(), "vocabreader.log"), "vocabreader")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := log.Default()

	a, err := openApp(opts, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ix, err := a.index()
	if err != nil {
		return err
	}
	doc, err := a.document(ctx, opts.url)
	if err != nil {
		return err
	}

	writer := a.writeBehind()
	defer writer.Close()

	base, err := a.sessionConfig(ctx, ix, doc, writer)
	if err != nil {
		return err
	}
	sess, err := session.New(ctx, base)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(tui.Config{Session: sess, ExportPath: exportPath}),
		tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	// The model closes the session on quit; this covers interrupts.
	closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer closeCancel()
	if err := sess.Close(closeCtx); err != nil {
		logger.Printf("Warning: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal reader: %w", runErr)
	}
	return nil
}
