package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/marcus/docview/internal/docload"
	"github.com/marcus/docview/internal/i18n"
	"github.com/marcus/docview/internal/output"
	"github.com/marcus/docview/internal/store"
	"github.com/marcus/docview/pkg/viewer"
	"github.com/marcus/docview/pkg/viewer/password"
)

// lineReader returns the next line of input without its line ending.
type lineReader func() (string, error)

// newLineReader reads from f. Terminal input is read without echo.
func newLineReader(f *os.File) lineReader {
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		return func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(output.Stdout)
			return string(b), err
		}
	}
	return readerLines(f)
}

func readerLines(r io.Reader) lineReader {
	br := bufio.NewReader(r)
	return func() (string, error) {
		line, err := br.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err == io.EOF && line != "" {
			return line, nil
		}
		return line, err
	}
}

// plainSession drives the password dialog line by line, for pipes and
// terminals where the full screen viewer is not wanted. An empty line
// cancels.
type plainSession struct {
	store     *store.Store
	loader    *docload.Loader
	translate viewer.TranslateFunc
	pw        *password.Modal
	read      lineReader
}

func newPlainSession(s *store.Store, l *docload.Loader, tr viewer.TranslateFunc, read lineReader) *plainSession {
	return &plainSession{
		store:     s,
		loader:    l,
		translate: tr,
		pw:        password.New(),
		read:      read,
	}
}

func (p *plainSession) sync() {
	p.pw.SetProps(viewer.PropsFromStore(p.store, p.translate))
}

// run opens every document in turn. Documents that end up locked are
// reported in the returned error.
func (p *plainSession) run(docs []viewer.Document) error {
	var errs []error
	for _, doc := range docs {
		if p.open(doc) == docload.StatusLocked {
			errs = append(errs, fmt.Errorf("%s: %w", doc.Manifest.DisplayTitle(), docload.ErrAttemptsExceeded))
		}
	}
	return errors.Join(errs...)
}

func (p *plainSession) open(doc viewer.Document) docload.Status {
	p.loader.Begin(doc.Manifest, doc.Verifier)
	p.sync()

	for p.pw.IsOpen() {
		output.Println(ansi.Strip(p.pw.View()))

		if p.pw.State() != password.StateEnteringPassword {
			p.loader.Abort()
			p.sync()
			break
		}

		line, err := p.read()
		if err != nil && !errors.Is(err, io.EOF) {
			slog.Warn("read password", "err", err)
		}
		if err != nil || line == "" {
			p.pw.HandleCancel()
			continue
		}

		p.pw.HandleInputChange(line)
		if err := p.pw.HandleSubmit(); err != nil {
			slog.Warn("submit password", "title", doc.Manifest.DisplayTitle(), "err", err)
			p.loader.Abort()
		}
		p.sync()
	}

	p.report(doc.Manifest)
	return p.loader.Status()
}

func (p *plainSession) report(m *docload.Manifest) {
	params := map[string]any{i18n.ParamTitle: m.DisplayTitle()}
	switch p.loader.Status() {
	case docload.StatusLoaded:
		output.Success("%s", p.translate(i18n.KeyDocumentUnlocked, params))
		output.Println(m.Path)
	case docload.StatusAborted, docload.StatusLocked:
		output.Warning("%s", p.translate(i18n.KeyDocumentLocked, params))
	}
}
