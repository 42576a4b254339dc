package cmd

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/docview/internal/docload"
	"github.com/marcus/docview/internal/i18n"
	"github.com/marcus/docview/internal/store"
	"github.com/marcus/docview/pkg/viewer"
	"github.com/marcus/docview/pkg/viewer/password"
)

var openCmd = &cobra.Command{
	Use:   "open <manifest.json>...",
	Short: "Open one or more documents",
	Long: `Open documents described by JSON manifests:

  {"title": "Q3 Report", "path": "q3.pdf", "password_hash": "$2a$10$..."}

With several manifests a picker is shown first. Use --plain, or pipe the
passwords on stdin, for a line based prompt instead of the full screen view.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().Bool("plain", false, "Prompt line by line instead of the full screen view")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	docs, err := loadDocuments(args)
	if err != nil {
		return err
	}

	tr := i18n.New(cfg.Locale)
	slog.Debug("starting viewer", "locale", tr.Tag(), "documents", len(docs))

	s := store.New(password.MaxAttempts)
	l := docload.NewLoader(s)
	l.OnStatusChange(func(st docload.Status) {
		slog.Debug("load status", "status", st, "last_err", l.LastError())
	})

	plain, _ := cmd.Flags().GetBool("plain")
	if plain || !term.IsTerminal(int(os.Stdin.Fd())) {
		return newPlainSession(s, l, tr.T, newLineReader(os.Stdin)).run(docs)
	}

	m := viewer.New(viewer.Options{
		Store:       s,
		Loader:      l,
		Translate:   tr.T,
		Documents:   docs,
		DialogWidth: cfg.DialogWidth,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Store changes can happen inside Update; Send must not block there.
	unsubscribe := s.Subscribe(func() {
		slog.Debug("store changed", "open", s.OpenElements(), "attempt", s.Attempt())
		go p.Send(viewer.StoreChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

// loadDocuments reads every manifest and pairs it with its verifier.
func loadDocuments(paths []string) ([]viewer.Document, error) {
	docs := make([]viewer.Document, 0, len(paths))
	for _, path := range paths {
		m, err := docload.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, viewer.Document{Manifest: m, Verifier: docload.VerifierFor(m)})
	}
	return docs, nil
}
