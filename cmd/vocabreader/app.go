package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabreader/pkg/config"
	"github.com/japaniel/vocabreader/pkg/db"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/persist"
	"github.com/japaniel/vocabreader/pkg/session"
	"github.com/japaniel/vocabreader/pkg/source"
)

// rootOptions holds the persistent flags. Zero values mean "use the config
// file".
type rootOptions struct {
	configPath  string
	user        string
	text        string
	url         string
	glossary    string
	storeDriver string
	storePath   string
	pageSize    int
	mode        string
	duplicates  string
	segmenter   string
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.User, o.user)
	override(&cfg.Text, o.text)
	override(&cfg.Glossary, o.glossary)
	override(&cfg.Store.Driver, o.storeDriver)
	override(&cfg.Store.Path, o.storePath)
	override(&cfg.DisplayMode, o.mode)
	override(&cfg.Duplicates, o.duplicates)
	override(&cfg.Segmenter, o.segmenter)
	if o.pageSize != 0 {
		cfg.WordsPerPage = o.pageSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// savedStore is what the CLI needs from either store implementation.
type savedStore interface {
	persist.Store
	persist.ProgressStore
	Users(ctx context.Context) ([]db.UserSummary, error)
}

// app is the wiring shared by every command that touches saved words.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  savedStore
	bridge *persist.Bridge
	closer io.Closer
}

func newApp(cfg *config.Config, logger *log.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	path := cfg.StorePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	switch cfg.StoreDriver() {
	case "file":
		a.store = persist.NewFileStore(path)
	default:
		s, err := persist.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		a.store = s
		a.closer = s
	}
	a.bridge = persist.NewBridge(a.store, logger)
	return a, nil
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// index loads the configured glossary.
func (a *app) index() (*glossary.Index, error) {
	if a.cfg.Glossary == "" {
		return nil, errors.New("no glossary given (use --glossary or set glossary in the config file)")
	}
	entries, err := glossary.LoadFile(a.cfg.Glossary)
	if err != nil {
		return nil, fmt.Errorf("load glossary: %w", err)
	}
	policy, err := a.cfg.DuplicatePolicy()
	if err != nil {
		return nil, err
	}
	return glossary.NewIndex(entries,
		glossary.WithNormalizer(a.cfg.Normalizer()),
		glossary.WithDuplicatePolicy(policy),
		glossary.WithLogger(a.logger),
	)
}

// document loads the text to read: the --url page when given, otherwise the
// configured file.
func (a *app) document(ctx context.Context, url string) (source.Document, error) {
	if url != "" {
		fmt.Fprintf(os.Stderr, "Fetching %s...\n", url)
		return source.FetchURL(ctx, url)
	}
	if a.cfg.Text == "" {
		return source.Document{}, errors.New("no text given (use --text, --url or set text in the config file)")
	}
	doc, err := source.Load(a.cfg.Text)
	if err != nil {
		return source.Document{}, fmt.Errorf("load text: %w", err)
	}
	return doc, nil
}

// sessionConfig builds the base configuration shared by every reader of doc.
func (a *app) sessionConfig(ctx context.Context, ix *glossary.Index, doc source.Document, writer *persist.WriteBehind) (session.Config, error) {
	mode, err := a.cfg.Mode()
	if err != nil {
		return session.Config{}, err
	}
	tz, err := a.cfg.Tokenizer()
	if err != nil {
		return session.Config{}, err
	}
	cfg := session.Config{
		User:      a.cfg.User,
		Document:  doc,
		Tokenizer: tz,
		Index:     ix,
		PageSize:  a.cfg.WordsPerPage,
		Mode:      mode,
		Bridge:    a.bridge,
		Writer:    writer,
		Logger:    a.logger,
	}
	cfg.Tokens = tz.Tokenize(doc.Text)

	if s, ok := a.store.(*persist.SQLiteStore); ok {
		if err := s.RegisterDocument(ctx, doc.Path, doc.Title, doc.Hash, len(cfg.Tokens)); err != nil {
			a.logger.Printf("Warning: failed to register document %s: %v", doc.Path, err)
		}
	}
	return cfg, nil
}

// writeBehind starts the background saver for the app's store. Failures are
// logged by the bridge.
func (a *app) writeBehind() *persist.WriteBehind {
	return persist.NewWriteBehind(a.bridge.Save, a.cfg.Store.FlushInterval)
}

// stderrLogger is the warning logger for non-interactive commands.
func stderrLogger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}

// openApp loads the config and opens the store in one step.
func openApp(opts *rootOptions, logger *log.Logger) (*app, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger)
}
