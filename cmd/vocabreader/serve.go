package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabreader/pkg/server"
	"github.com/japaniel/vocabreader/pkg/session"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reader over HTTP",
		Long: `Serve the text over HTTP. Every reader gets an isolated session keyed
by the user query parameter; the page at / is a small browser reader over
the JSON API.

Endpoints:
  GET    /api/page?user=U
  POST   /api/nav          {"user":U,"dir":"next"|"prev"|"goto","page":N}
  POST   /api/click        {"user":U,"key":K,"saved":bool}
  GET    /api/saved?user=U
  DELETE /api/saved?user=U
  DELETE /api/saved/{key}?user=U
  GET    /api/saved.csv?user=U

Examples:
  vocabreader serve --text buddenbrooks.txt --glossary vocab.json
  vocabreader serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := openApp(opts, stderrLogger(cmd))
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

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(session.NewManager(base), a.logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %q (%d glossary words) on http://%s\n", doc.Title, ix.Len(), addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")

	return cmd
}
