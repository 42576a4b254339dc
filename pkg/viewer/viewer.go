// Package viewer is the terminal document viewer. It composes the document
// pane, the loading indicator and the password dialog, and keeps the dialog
// in step with the shared application store.
package viewer

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/docview/internal/docload"
	"github.com/marcus/docview/internal/i18n"
	"github.com/marcus/docview/internal/store"
	"github.com/marcus/docview/pkg/viewer/modal"
	"github.com/marcus/docview/pkg/viewer/password"
)

const (
	defaultWidth       = 80
	defaultHeight      = 24
	defaultDialogWidth = 56
	pickerListID       = "documents"
)

// TranslateFunc resolves a message key.
type TranslateFunc func(key string, params map[string]any) string

// Document is one entry the viewer can open.
type Document struct {
	Manifest *docload.Manifest
	// Verifier is nil for unprotected documents.
	Verifier docload.Verifier
}

// StoreChangedMsg tells the model to re-read the store.
type StoreChangedMsg struct{}

// beginLoadMsg asks the model to load docs[idx].
type beginLoadMsg struct {
	idx int
}

// verifiedMsg reports that a password check finished.
type verifiedMsg struct{}

// verifyRequest is a submitted password waiting to be checked off the
// Update path.
type verifyRequest struct {
	password string
	check    store.CheckPasswordFunc
}

// verification tracks the password check in flight.
type verification struct {
	pending *verifyRequest
	running bool
}

// Options configures a Model.
type Options struct {
	Store       *store.Store
	Loader      *docload.Loader
	Translate   TranslateFunc
	Documents   []Document
	DialogWidth int
}

// Model is the bubbletea model of the viewer.
type Model struct {
	store     *store.Store
	loader    *docload.Loader
	translate TranslateFunc
	docs      []Document

	pw          *password.Modal
	dialogWidth int
	verify      *verification
	spinner     spinner.Model
	picker    *modal.Modal
	pickerIdx *int
	picking   bool

	Width    int
	Height   int
	quitting bool
}

// New builds the viewer. With more than one document a picker is shown
// first; a single document starts loading from Init.
func New(opts Options) Model {
	tr := opts.Translate
	if tr == nil {
		tr = func(key string, _ map[string]any) string { return key }
	}

	dialogWidth := opts.DialogWidth
	if dialogWidth <= 0 {
		dialogWidth = defaultDialogWidth
	}
	pw := password.New()
	pw.SetWidth(dialogWidth)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(modal.Primary)

	m := Model{
		store:     opts.Store,
		loader:    opts.Loader,
		translate: tr,
		docs:      opts.Documents,
		pw:          pw,
		dialogWidth: dialogWidth,
		verify:      &verification{},
		spinner:     sp,
		pickerIdx:   new(int),
	}
	if len(m.docs) > 1 {
		m.openPicker()
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if len(m.docs) == 1 {
		cmds = append(cmds, func() tea.Msg { return beginLoadMsg{idx: 0} })
	}
	return tea.Batch(cmds...)
}

// Password exposes the dialog for inspection.
func (m Model) Password() *password.Modal {
	return m.pw
}

// Picking reports whether the document picker is shown.
func (m Model) Picking() bool {
	return m.picking
}

// Quitting reports whether the model asked the program to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// PropsFromStore derives the password dialog props from the store.
func PropsFromStore(s *store.Store, tr TranslateFunc) password.Props {
	return password.Props{
		IsOpen:        s.IsOpen(store.ElementPasswordModal),
		Attempt:       s.Attempt(),
		CloseElement:  s.Close,
		Translate:     tr,
		CheckPassword: s.CheckPasswordFunc(),
	}
}

// sync pushes the store state into the password dialog. Submissions are
// queued and checked by verifyCmd so a slow verifier does not block Update.
func (m Model) sync() {
	props := PropsFromStore(m.store, m.translate)
	if check := m.store.CheckPasswordFunc(); check != nil {
		v := m.verify
		props.CheckPassword = func(pw string) {
			if v.running || v.pending != nil {
				return
			}
			v.pending = &verifyRequest{password: pw, check: check}
		}
	}
	m.pw.SetProps(props)
}

// verifyCmd starts the queued password check, if any.
func (m Model) verifyCmd() tea.Cmd {
	req := m.verify.pending
	if req == nil {
		return nil
	}
	m.verify.pending = nil
	m.verify.running = true
	return func() tea.Msg {
		req.check(req.password)
		return verifiedMsg{}
	}
}

// verifying reports whether a password check is in flight.
func (m Model) verifying() bool {
	return m.verify.running || m.verify.pending != nil
}

func (m *Model) openPicker() {
	items := make([]modal.ListItem, len(m.docs))
	for i, d := range m.docs {
		items[i] = modal.ListItem{ID: strconv.Itoa(i), Label: d.Manifest.DisplayTitle(), Data: d}
	}
	m.picker = modal.New(m.translate(i18n.KeySelectDocument, nil),
		modal.WithWidth(56),
		modal.WithVariant(modal.VariantInfo),
	).AddSection(modal.List(pickerListID, items, m.pickerIdx, modal.WithMaxVisible(8)))
	m.picking = true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.pw.SetWidth(max(10, min(m.dialogWidth, msg.Width-4)))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StoreChangedMsg:
		m.sync()
		return m, nil

	case verifiedMsg:
		m.verify.running = false
		m.sync()
		return m, nil

	case beginLoadMsg:
		if msg.idx < 0 || msg.idx >= len(m.docs) {
			return m, nil
		}
		m.picking = false
		doc := m.docs[msg.idx]
		m.loader.Begin(doc.Manifest, doc.Verifier)
		m.sync()
		return m, nil

	case password.DismissedMsg:
		m.loader.Abort()
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.pw.IsOpen() {
		if m.verifying() {
			return m, nil
		}
		if msg.String() == "r" && m.pw.State() == password.StateCancelled {
			m.retry()
			return m, nil
		}
		cmd := m.pw.Update(msg)
		m.sync()
		return m, tea.Batch(cmd, m.verifyCmd())
	}

	if m.picking {
		action, cmd := m.picker.HandleKey(msg)
		switch action {
		case "":
		case modal.ActionCancel:
			if m.loader.Current() == nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.picking = false
		default:
			idx, err := strconv.Atoi(action)
			if err == nil {
				return m, func() tea.Msg { return beginLoadMsg{idx: idx} }
			}
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		if m.loader.Status() == docload.StatusAborted {
			m.retry()
		}
	case "o":
		if len(m.docs) > 1 {
			m.openPicker()
		}
	}
	return m, nil
}

// retry reopens the password dialog for the current document. The dialog
// has to observe the close so that its form is reset.
func (m Model) retry() {
	m.store.Close(store.ElementPasswordModal)
	m.sync()
	if err := m.loader.Retry(); err != nil {
		slog.Debug("retry password entry", "err", err)
	}
	m.sync()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w, h := m.Width, m.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}

	bg := m.renderBackground(w, h)

	switch {
	case m.pw.IsOpen():
		return m.pw.Overlay(bg, w, h)
	case m.picking:
		return m.picker.Overlay(bg, w, h)
	case m.store.IsOpen(store.ElementProgressModal):
		return m.progressDialog().Overlay(bg, w, h)
	}
	return bg
}

func (m Model) progressDialog() *modal.Modal {
	title := ""
	if doc := m.loader.Current(); doc != nil {
		title = doc.DisplayTitle()
	}
	text := m.translate(i18n.KeyLoadingDocument, map[string]any{i18n.ParamTitle: title})
	return modal.New("", modal.WithWidth(40), modal.WithHints(false)).
		AddSection(modal.Text(m.spinner.View() + " " + text))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(modal.Primary)
	statusOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusWarn  = lipgloss.NewStyle().Foreground(modal.Warning)
)

func (m Model) renderBackground(w, h int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("docview"))
	sb.WriteString("\n\n")

	doc := m.loader.Current()
	switch {
	case doc == nil:
		sb.WriteString(modal.MutedText.Render(m.translate(i18n.KeyNoDocument, nil)))
	case m.loader.Status() == docload.StatusLoaded:
		sb.WriteString(statusOK.Render(m.translate(i18n.KeyDocumentUnlocked, map[string]any{i18n.ParamTitle: doc.DisplayTitle()})))
		sb.WriteString("\n")
		sb.WriteString(modal.MutedText.Render(doc.Path))
	case m.loader.Status() == docload.StatusAborted:
		sb.WriteString(statusWarn.Render(m.translate(i18n.KeyDocumentLocked, map[string]any{i18n.ParamTitle: doc.DisplayTitle()})))
		sb.WriteString("\n")
		sb.WriteString(modal.MutedText.Render(m.translate(i18n.KeyReopenHint, nil)))
	case m.loader.Status() == docload.StatusLocked:
		sb.WriteString(statusWarn.Render(m.translate(i18n.KeyDocumentLocked, map[string]any{i18n.ParamTitle: doc.DisplayTitle()})))
	}

	return lipgloss.NewStyle().Width(w).Height(h).Render(sb.String())
}
