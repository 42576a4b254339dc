package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// textSection renders wrapped static text.
type textSection struct {
	text  string
	style lipgloss.Style
}

// Text creates a static text section.
func Text(s string) Section {
	return &textSection{text: s, style: Body}
}

// StyledText creates a static text section rendered with style.
func StyledText(s string, style lipgloss.Style) Section {
	return &textSection{text: s, style: style}
}

func (s *textSection) Render(contentWidth int, _ string) RenderedSection {
	return RenderedSection{Content: s.style.Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) {
	return "", nil
}

type spacerSection struct{}

// Spacer creates a blank line.
func Spacer() Section {
	return spacerSection{}
}

func (spacerSection) Render(int, string) RenderedSection {
	return RenderedSection{Content: ""}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) {
	return "", nil
}

// ButtonDef describes one button of a button row.
type ButtonDef struct {
	Label  string
	ID     string
	danger bool
}

// ButtonOption configures a ButtonDef.
type ButtonOption func(*ButtonDef)

// BtnDanger renders the button with the danger palette.
func BtnDanger() ButtonOption {
	return func(b *ButtonDef) {
		b.danger = true
	}
}

// Btn creates a button definition. Activating it yields id as the action.
func Btn(label, id string, opts ...ButtonOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons creates a horizontal row of buttons.
func Buttons(btns ...ButtonDef) Section {
	return &buttonsSection{buttons: btns}
}

func (s *buttonsSection) Render(_ int, focusID string) RenderedSection {
	var parts []string
	var focusables []FocusableInfo
	x := 0
	for i, b := range s.buttons {
		style := Button
		switch {
		case b.danger && b.ID == focusID:
			style = ButtonDangerFocused
		case b.danger:
			style = ButtonDanger
		case b.ID == focusID:
			style = ButtonFocused
		}
		rendered := style.Render(b.Label)
		if i > 0 {
			parts = append(parts, "  ")
			x += 2
		}
		parts = append(parts, rendered)
		w := ansi.StringWidth(rendered)
		focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		x += w
	}
	return RenderedSection{
		Content:    strings.Join(parts, ""),
		Focusables: focusables,
	}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	if keyMsg.String() != "enter" && keyMsg.String() != " " {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID {
			return b.ID, nil
		}
	}
	return "", nil
}

// InputOption configures an input section.
type InputOption func(*inputSection)

// WithLabel renders a label line above the input.
func WithLabel(label string) InputOption {
	return func(s *inputSection) {
		s.label = label
	}
}

// WithError styles the input as rejected.
func WithError(errored bool) InputOption {
	return func(s *inputSection) {
		s.errored = errored
	}
}

// WithSubmitAction makes Enter on the focused input yield actionID.
func WithSubmitAction(actionID string) InputOption {
	return func(s *inputSection) {
		s.submitAction = actionID
	}
}

type inputSection struct {
	id           string
	model        *textinput.Model
	label        string
	errored      bool
	submitAction string
}

// Input creates a single line input section backed by model. The model is
// focused and blurred to follow dialog focus.
func Input(id string, model *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{id: id, model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *inputSection) Render(contentWidth int, focusID string) RenderedSection {
	focused := focusID == s.id
	if focused && !s.model.Focused() {
		s.model.Focus()
	} else if !focused && s.model.Focused() {
		s.model.Blur()
	}

	box := InputBox
	switch {
	case s.errored:
		box = InputBoxError
	case focused:
		box = InputBoxFocused
	}
	// border (2) + padding (2)
	s.model.Width = max(1, contentWidth-6)

	var sb strings.Builder
	offsetY := 0
	if s.label != "" {
		sb.WriteString(InputLabel.Render(s.label))
		sb.WriteString("\n")
		offsetY = 1
	}
	sb.WriteString(box.Width(contentWidth - 2).Render(s.model.View()))

	return RenderedSection{
		Content: sb.String(),
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetY: offsetY,
			Width:   contentWidth,
			Height:  3,
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		return s.submitAction, nil
	}
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	return "", cmd
}

type whenSection struct {
	cond    func() bool
	section Section
}

// When renders section only while cond returns true.
func When(cond func() bool, section Section) Section {
	return &whenSection{cond: cond, section: section}
}

func (s *whenSection) Render(contentWidth int, focusID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{Hidden: true}
	}
	return s.section.Render(contentWidth, focusID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.section.Update(msg, focusID)
}
