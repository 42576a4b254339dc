// Package password implements the dialog that asks the user for the password
// of a protected document.
//
// The dialog owns only its form state (the typed password and whether the
// user cancelled). Visibility, the failed attempt counter and the
// verification callback are supplied by the host through Props.
package password

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/docview/internal/i18n"
	"github.com/marcus/docview/internal/store"
	"github.com/marcus/docview/pkg/viewer/modal"
)

// MaxAttempts is the number of failed attempts after which the dialog stops
// offering the password form.
const MaxAttempts = 3

// ProgressElementID is closed when the dialog opens.
const ProgressElementID = store.ElementProgressModal

// Focus and action IDs used inside the dialog.
const (
	inputID      = "password"
	actionSubmit = "submit"
	actionCancel = modal.ActionCancel
)

// ErrNoVerifier is returned by HandleSubmit when no callback is installed.
var ErrNoVerifier = errors.New("no password verification callback registered")

// State is the view the dialog shows.
type State int

const (
	// StateEnteringPassword shows the password form.
	StateEnteringPassword State = iota
	// StateCancelled shows the cancellation notice.
	StateCancelled
	// StateExceeded shows the attempts-exceeded notice. It takes precedence
	// over every other state.
	StateExceeded
)

func (s State) String() string {
	switch s {
	case StateEnteringPassword:
		return "entering_password"
	case StateCancelled:
		return "cancelled"
	case StateExceeded:
		return "exceeded"
	default:
		return "unknown"
	}
}

// SelectState picks the view for the given attempt count and cancel flag.
func SelectState(attempt int, userCancelled bool) State {
	switch {
	case attempt >= MaxAttempts:
		return StateExceeded
	case userCancelled:
		return StateCancelled
	default:
		return StateEnteringPassword
	}
}

// RemainingAttempts returns how many tries are left after attempt failures.
func RemainingAttempts(attempt int) int {
	return max(0, MaxAttempts-attempt)
}

// Props is the configuration pushed into the dialog by its host.
type Props struct {
	IsOpen        bool
	Attempt       int
	CloseElement  func(elementID string)
	Translate     func(key string, params map[string]any) string
	CheckPassword func(password string)
}

// DismissedMsg is emitted when the user asks to leave a notice view
// (cancelled or exceeded). The host decides whether to close the dialog.
type DismissedMsg struct {
	State State
}

// Modal is the password dialog. The zero value is not usable; use New.
type Modal struct {
	props Props

	password      string
	userCancelled bool
	// checkOverride is set by SetCheckPasswordFunc and wins over
	// props.CheckPassword until the dialog closes.
	checkOverride func(string)

	input  textinput.Model
	dialog *modal.Modal
	// dialogKey identifies what dialog was built for.
	dialogKey dialogKey
	width     int
}

type dialogKey struct {
	state   State
	attempt int
	valid   bool
}

// New returns a closed dialog.
func New() *Modal {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = ""

	return &Modal{
		input: ti,
		width: 56,
	}
}

// SetWidth sets the dialog width in cells.
func (m *Modal) SetWidth(w int) {
	if w > 0 && w != m.width {
		m.width = w
		m.dialogKey.valid = false
	}
}

// Props returns the props last pushed by the host.
func (m *Modal) Props() Props {
	return m.props
}

// SetProps replaces the props and runs the visibility transitions: opening
// closes the progress element, closing resets the form.
func (m *Modal) SetProps(p Props) {
	prev := m.props
	m.props = p

	switch {
	case !prev.IsOpen && p.IsOpen:
		slog.Debug("password dialog opened", "attempt", p.Attempt)
		if p.CloseElement != nil {
			p.CloseElement(ProgressElementID)
		}
		m.dialogKey.valid = false
	case prev.IsOpen && !p.IsOpen:
		slog.Debug("password dialog closed")
		m.resetForm()
		m.checkOverride = nil
	}
}

// SetCheckPasswordFunc installs fn as the verification callback, replacing
// whatever the props supplied. The override is dropped when the dialog
// closes; passing nil removes it earlier.
func (m *Modal) SetCheckPasswordFunc(fn func(password string)) {
	m.checkOverride = fn
}

func (m *Modal) checkFunc() func(string) {
	if m.checkOverride != nil {
		return m.checkOverride
	}
	return m.props.CheckPassword
}

func (m *Modal) resetForm() {
	m.password = ""
	m.userCancelled = false
	m.input.SetValue("")
	m.dialogKey.valid = false
}

// IsOpen reports whether the dialog is visible.
func (m *Modal) IsOpen() bool {
	return m.props.IsOpen
}

// Password returns the text currently in the form.
func (m *Modal) Password() string {
	return m.password
}

// UserCancelled reports whether the user dismissed the form.
func (m *Modal) UserCancelled() bool {
	return m.userCancelled
}

// State returns the view the dialog currently shows.
func (m *Modal) State() State {
	return SelectState(m.props.Attempt, m.userCancelled)
}

// HandleInputChange replaces the form text.
func (m *Modal) HandleInputChange(text string) {
	m.password = text
	if m.input.Value() != text {
		m.input.SetValue(text)
	}
}

// HandleSubmit passes the form text to the verification callback. Without a
// callback nothing happens and ErrNoVerifier is returned.
func (m *Modal) HandleSubmit() error {
	fn := m.checkFunc()
	if fn == nil {
		slog.Warn("password submitted with no verification callback")
		return ErrNoVerifier
	}
	fn(m.password)
	return nil
}

// HandleCancel marks the form as cancelled. Closing the dialog is left to
// the host.
func (m *Modal) HandleCancel() {
	m.userCancelled = true
}

// Update routes a bubbletea message into the dialog. Messages are ignored
// while the dialog is closed.
func (m *Modal) Update(msg tea.Msg) tea.Cmd {
	if !m.props.IsOpen {
		return nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	state := m.State()
	d := m.currentDialog()
	action, cmd := d.HandleKey(keyMsg)

	if state == StateEnteringPassword && m.input.Value() != m.password {
		m.HandleInputChange(m.input.Value())
	}

	switch action {
	case actionSubmit:
		if state == StateEnteringPassword {
			if err := m.HandleSubmit(); err != nil {
				slog.Debug("password submit", "err", err)
			}
		}
	case actionCancel:
		if state == StateEnteringPassword {
			m.HandleCancel()
			return cmd
		}
		return tea.Batch(cmd, func() tea.Msg { return DismissedMsg{State: state} })
	}
	return cmd
}

// View renders the dialog, or "" while closed.
func (m *Modal) View() string {
	if !m.props.IsOpen {
		return ""
	}
	return m.currentDialog().View()
}

// Overlay renders the dialog centered over background.
func (m *Modal) Overlay(background string, width, height int) string {
	if !m.props.IsOpen {
		return background
	}
	return m.currentDialog().Overlay(background, width, height)
}

func (m *Modal) translate(key string, params map[string]any) string {
	if m.props.Translate == nil {
		return key
	}
	return m.props.Translate(key, params)
}

// currentDialog returns the dialog for the current state, rebuilding it when
// the state or attempt count changed. A rebuilt form focuses the input.
func (m *Modal) currentDialog() *modal.Modal {
	key := dialogKey{state: m.State(), attempt: m.props.Attempt, valid: true}
	if m.dialog != nil && m.dialogKey == key {
		return m.dialog
	}

	m.dialog = m.buildDialog(key.state)
	m.dialogKey = key
	if key.state == StateEnteringPassword {
		m.dialog.SetFocus(inputID)
	}
	return m.dialog
}

func (m *Modal) buildDialog(state State) *modal.Modal {
	title := m.translate(i18n.KeyPasswordRequired, nil)
	closeLabel := m.translate(i18n.KeyClose, nil)

	// Notice views offer a single Close button; it yields the cancel action,
	// which the host receives as DismissedMsg.
	switch state {
	case StateExceeded:
		return modal.New(title,
			modal.WithWidth(m.width),
			modal.WithVariant(modal.VariantDanger),
		).
			AddSection(modal.Text(m.translate(i18n.KeyAttemptsExceeded, nil))).
			AddSection(modal.Spacer()).
			AddSection(modal.Buttons(modal.Btn(closeLabel, actionCancel, modal.BtnDanger())))

	case StateCancelled:
		return modal.New(title,
			modal.WithWidth(m.width),
			modal.WithVariant(modal.VariantWarning),
		).
			AddSection(modal.Text(m.translate(i18n.KeyUserCancelled, nil))).
			AddSection(modal.Spacer()).
			AddSection(modal.Buttons(modal.Btn(closeLabel, actionCancel)))
	}

	attempt := m.props.Attempt
	failed := func() bool { return attempt != 0 }
	d := modal.New(title,
		modal.WithWidth(m.width),
		modal.WithPrimaryAction(actionSubmit),
	)
	d.AddSection(modal.Text(m.translate(i18n.KeyEnterPassword, nil)))
	d.AddSection(modal.Spacer())
	d.AddSection(modal.Input(inputID, &m.input,
		modal.WithLabel(m.translate(i18n.KeyPasswordLabel, nil)),
		modal.WithError(failed()),
		modal.WithSubmitAction(actionSubmit),
	))
	d.AddSection(modal.When(failed, modal.StyledText(
		m.translate(i18n.KeyIncorrectPassword, map[string]any{
			i18n.ParamRemainingAttempts: RemainingAttempts(attempt),
		}),
		modal.ErrorText,
	)))
	d.AddSection(modal.Spacer())
	d.AddSection(modal.Buttons(
		modal.Btn(m.translate(i18n.KeySubmit, nil), actionSubmit),
		modal.Btn(m.translate(i18n.KeyCancel, nil), actionCancel),
	))
	return d
}

// InputFocused reports whether the password field currently holds focus.
func (m *Modal) InputFocused() bool {
	if !m.props.IsOpen || m.State() != StateEnteringPassword {
		return false
	}
	return m.currentDialog().FocusedID() == inputID
}
