package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActionCancel is returned by HandleKey when Esc is pressed.
const ActionCancel = "cancel"

const defaultWidth = 50

// Variant selects the visual treatment of a dialog.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// FocusableInfo describes a focusable element produced by a section render.
// Offsets are relative to the section's top-left corner.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// RenderedSection is the output of a single section render.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
	// Hidden sections take no vertical space.
	Hidden bool
}

// Section is one vertical block of a dialog.
type Section interface {
	// Render draws the section at the given content width. focusID is the
	// ID of the element that currently holds focus.
	Render(contentWidth int, focusID string) RenderedSection
	// Update handles a message while focusID holds focus. A non-empty
	// action string is reported to the caller of HandleKey.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the outer width of the dialog.
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w > 0 {
			m.width = w
		}
	}
}

// WithVariant sets the dialog variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) {
		m.variant = v
	}
}

// WithHints toggles the keyboard hint line.
func WithHints(show bool) Option {
	return func(m *Modal) {
		m.showHints = show
	}
}

// WithPrimaryAction sets the action returned when Enter is not consumed by
// the focused element.
func WithPrimaryAction(actionID string) Option {
	return func(m *Modal) {
		m.primaryAction = actionID
	}
}

// Modal is a declarative dialog.
type Modal struct {
	title         string
	width         int
	variant       Variant
	showHints     bool
	primaryAction string
	sections      []Section

	focusIDs []string
	focusIdx int
	// wantFocus is applied on the next layout pass.
	wantFocus string
	laidOut   bool
}

// New creates a dialog with the given title.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:     title,
		width:     defaultWidth,
		showHints: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section and returns the dialog for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	m.laidOut = false
	return m
}

// SetFocus moves focus to the element with the given ID. Unknown IDs are
// remembered until an element with that ID is rendered.
func (m *Modal) SetFocus(id string) {
	m.wantFocus = id
	for i, fid := range m.focusIDs {
		if fid == id {
			m.focusIdx = i
			m.wantFocus = ""
			return
		}
	}
}

// FocusedID returns the ID of the focused element, or "" when nothing is
// focusable.
func (m *Modal) FocusedID() string {
	m.ensureLayout()
	if len(m.focusIDs) == 0 {
		return ""
	}
	return m.focusIDs[m.focusIdx]
}

// contentWidth is the width available inside border and padding.
func (m *Modal) contentWidth() int {
	return max(10, m.width-4)
}

// ensureLayout renders once so the focus ring exists before the first key.
func (m *Modal) ensureLayout() {
	if !m.laidOut {
		m.renderBody()
	}
}

// renderBody renders all sections and rebuilds the focus ring.
func (m *Modal) renderBody() string {
	cw := m.contentWidth()

	focused := ""
	if len(m.focusIDs) > 0 && m.focusIdx < len(m.focusIDs) {
		focused = m.focusIDs[m.focusIdx]
	}
	if m.wantFocus != "" {
		focused = m.wantFocus
	}

	// Two passes: the first discovers focusables so that a pending focus
	// request can be resolved, the second renders with the final focus.
	ids := m.collectFocusables(cw, focused)
	if focused == "" && len(ids) > 0 {
		focused = ids[0]
	}
	found := false
	for i, id := range ids {
		if id == focused {
			m.focusIdx = i
			found = true
			break
		}
	}
	if !found {
		m.focusIdx = 0
		if len(ids) > 0 {
			focused = ids[0]
		}
	} else if m.wantFocus == focused {
		m.wantFocus = ""
	}
	m.focusIDs = ids

	parts := make([]string, 0, len(m.sections))
	for _, s := range m.sections {
		rs := s.Render(cw, focused)
		if rs.Hidden {
			continue
		}
		parts = append(parts, rs.Content)
	}
	m.laidOut = true
	return strings.Join(parts, "\n")
}

func (m *Modal) collectFocusables(cw int, focused string) []string {
	var ids []string
	for _, s := range m.sections {
		rs := s.Render(cw, focused)
		for _, f := range rs.Focusables {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// View renders the framed dialog without positioning it.
func (m *Modal) View() string {
	body := m.renderBody()

	var sb strings.Builder
	if m.title != "" {
		sb.WriteString(ModalTitle.Foreground(borderColor(m.variant)).Render(m.title))
		sb.WriteString("\n\n")
	}
	sb.WriteString(body)
	if m.showHints {
		sb.WriteString("\n\n")
		sb.WriteString(MutedText.Render(m.hints()))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(m.variant)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(sb.String())
}

func (m *Modal) hints() string {
	if len(m.focusIDs) > 1 {
		return "tab switch  enter select  esc close"
	}
	if len(m.focusIDs) == 1 || m.primaryAction != "" {
		return "enter select  esc close"
	}
	return "esc close"
}

// Overlay renders the dialog centered over background. Background lines
// hidden behind the dialog are replaced; the rest stay visible.
func (m *Modal) Overlay(background string, screenW, screenH int) string {
	return overlayCenter(background, m.View(), screenW, screenH)
}

// HandleKey processes a key press. It returns a non-empty action when the
// user activated something.
func (m *Modal) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	m.ensureLayout()

	switch msg.String() {
	case "tab":
		m.cycleFocus(1)
		return "", nil
	case "shift+tab":
		m.cycleFocus(-1)
		return "", nil
	case "esc":
		return ActionCancel, nil
	}

	focusID := m.FocusedID()
	var cmds []tea.Cmd
	for _, s := range m.sections {
		action, cmd := s.Update(msg, focusID)
		if action != "" {
			return action, cmd
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if msg.String() == "enter" && m.primaryAction != "" {
		return m.primaryAction, tea.Batch(cmds...)
	}
	return "", tea.Batch(cmds...)
}

func (m *Modal) cycleFocus(delta int) {
	if len(m.focusIDs) == 0 {
		return
	}
	n := len(m.focusIDs)
	m.focusIdx = ((m.focusIdx+delta)%n + n) % n
	m.wantFocus = ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
