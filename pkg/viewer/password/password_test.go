package password

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/docview/internal/i18n"
)

// keyTranslate echoes keys so views can be asserted without a catalog.
func keyTranslate(key string, params map[string]any) string {
	if v, ok := params[i18n.ParamRemainingAttempts]; ok {
		return fmt.Sprintf("%s:%v", key, v)
	}
	return key
}

type harness struct {
	m         *Modal
	closed    []string
	submitted []string
}

func newHarness() *harness {
	h := &harness{m: New()}
	return h
}

func (h *harness) props(open bool, attempt int) Props {
	return Props{
		IsOpen:        open,
		Attempt:       attempt,
		CloseElement:  func(id string) { h.closed = append(h.closed, id) },
		Translate:     keyTranslate,
		CheckPassword: func(pw string) { h.submitted = append(h.submitted, pw) },
	}
}

func plain(m *Modal) string {
	return ansi.Strip(m.View())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectState(t *testing.T) {
	tests := []struct {
		attempt   int
		cancelled bool
		want      State
	}{
		{0, false, StateEnteringPassword},
		{1, false, StateEnteringPassword},
		{2, false, StateEnteringPassword},
		{0, true, StateCancelled},
		{2, true, StateCancelled},
		{3, false, StateExceeded},
		{3, true, StateExceeded},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%v", tt.attempt, tt.cancelled), func(t *testing.T) {
			if got := SelectState(tt.attempt, tt.cancelled); got != tt.want {
				t.Errorf("SelectState(%d, %v) = %v, want %v", tt.attempt, tt.cancelled, got, tt.want)
			}
		})
	}
}

func TestEnterViewIncorrectNotice(t *testing.T) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		t.Run(fmt.Sprint(attempt), func(t *testing.T) {
			h := newHarness()
			h.m.SetProps(h.props(true, attempt))

			if h.m.State() != StateEnteringPassword {
				t.Fatalf("state = %v, want entering", h.m.State())
			}
			out := plain(h.m)
			if !strings.Contains(out, i18n.KeyEnterPassword) {
				t.Errorf("enter-password text missing:\n%s", out)
			}
			notice := fmt.Sprintf("%s:%d", i18n.KeyIncorrectPassword, MaxAttempts-attempt)
			hasNotice := strings.Contains(out, i18n.KeyIncorrectPassword)
			if hasNotice != (attempt > 0) {
				t.Errorf("incorrect notice shown = %v, want %v", hasNotice, attempt > 0)
			}
			if attempt > 0 && !strings.Contains(out, notice) {
				t.Errorf("expected %q in:\n%s", notice, out)
			}
			if !h.m.InputFocused() {
				t.Error("input should hold focus")
			}
		})
	}
}

func TestExceededTakesPrecedence(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, MaxAttempts))
	h.m.HandleInputChange("whatever")
	h.m.HandleCancel()

	if h.m.State() != StateExceeded {
		t.Fatalf("state = %v, want exceeded", h.m.State())
	}
	out := plain(h.m)
	if !strings.Contains(out, i18n.KeyAttemptsExceeded) {
		t.Errorf("exceeded text missing:\n%s", out)
	}
	if strings.Contains(out, i18n.KeyUserCancelled) || strings.Contains(out, i18n.KeySubmit) {
		t.Errorf("exceeded view should show nothing else:\n%s", out)
	}
	if h.m.InputFocused() {
		t.Error("no input in exceeded view")
	}
}

func TestCancelledView(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 1))
	h.m.HandleCancel()

	if h.m.State() != StateCancelled {
		t.Fatalf("state = %v, want cancelled", h.m.State())
	}
	out := plain(h.m)
	if !strings.Contains(out, i18n.KeyUserCancelled) {
		t.Errorf("cancel text missing:\n%s", out)
	}
	if strings.Contains(out, i18n.KeyIncorrectPassword) {
		t.Errorf("cancel view should not show the form:\n%s", out)
	}
	if !h.m.IsOpen() {
		t.Error("cancel must not close the dialog")
	}
}

func TestOpeningClosesProgressOnce(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(false, 0))
	h.m.SetProps(h.props(true, 0))
	h.m.SetProps(h.props(true, 1))
	h.m.SetProps(h.props(true, 2))

	if len(h.closed) != 1 || h.closed[0] != ProgressElementID {
		t.Errorf("close requests = %v, want [%s]", h.closed, ProgressElementID)
	}

	h.m.SetProps(h.props(false, 2))
	h.m.SetProps(h.props(true, 2))
	if len(h.closed) != 2 {
		t.Errorf("reopen should request another close, got %v", h.closed)
	}
}

func TestClosingResetsForm(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))
	h.m.HandleInputChange("hunter2")
	h.m.HandleCancel()

	h.m.SetProps(h.props(false, 0))
	if h.m.Password() != "" {
		t.Errorf("password = %q, want empty", h.m.Password())
	}
	if h.m.UserCancelled() {
		t.Error("userCancelled should be reset")
	}
}

func TestSubmitInvokesCallbackOnce(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))
	h.m.HandleInputChange("secret123")

	if err := h.m.HandleSubmit(); err != nil {
		t.Fatalf("HandleSubmit: %v", err)
	}
	if len(h.submitted) != 1 || h.submitted[0] != "secret123" {
		t.Errorf("submitted = %v, want [secret123]", h.submitted)
	}
	if h.m.Password() != "secret123" || h.m.UserCancelled() {
		t.Error("submit must not mutate local state")
	}
}

func TestSubmitWithoutCallback(t *testing.T) {
	m := New()
	m.SetProps(Props{IsOpen: true, Translate: keyTranslate})
	m.HandleInputChange("x")
	if err := m.HandleSubmit(); !errors.Is(err, ErrNoVerifier) {
		t.Errorf("err = %v, want ErrNoVerifier", err)
	}
}

func TestSetCheckPasswordFuncOverride(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))

	var direct []string
	h.m.SetCheckPasswordFunc(func(pw string) { direct = append(direct, pw) })
	h.m.HandleInputChange("pw")
	_ = h.m.HandleSubmit()

	if len(direct) != 1 || len(h.submitted) != 0 {
		t.Errorf("override not used: direct=%v props=%v", direct, h.submitted)
	}

	// Still active across prop updates while open.
	h.m.SetProps(h.props(true, 1))
	_ = h.m.HandleSubmit()
	if len(direct) != 2 {
		t.Errorf("override lost on prop update: %v", direct)
	}

	// Dropped on close.
	h.m.SetProps(h.props(false, 1))
	h.m.SetProps(h.props(true, 1))
	_ = h.m.HandleSubmit()
	if len(h.submitted) != 1 {
		t.Errorf("props callback should be used after reopen: %v", h.submitted)
	}
}

func TestKeyboardFlow(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))

	for _, r := range "abc" {
		h.m.Update(keyMsg(string(r)))
	}
	if h.m.Password() != "abc" {
		t.Fatalf("password = %q, want abc", h.m.Password())
	}
	h.m.Update(keyMsg("enter"))
	if len(h.submitted) != 1 || h.submitted[0] != "abc" {
		t.Errorf("submitted = %v", h.submitted)
	}
	if strings.Contains(plain(h.m), "abc") {
		t.Error("password must be masked")
	}

	// Tab to Submit, Tab to Cancel, Enter cancels.
	h.m.Update(keyMsg("tab"))
	h.m.Update(keyMsg("tab"))
	h.m.Update(keyMsg("enter"))
	if h.m.State() != StateCancelled {
		t.Errorf("state = %v, want cancelled", h.m.State())
	}

	// Esc on a notice asks the host to dismiss.
	cmd := h.m.Update(keyMsg("esc"))
	if cmd == nil {
		t.Fatal("expected a command from esc on notice")
	}
	if !containsDismiss(cmd(), StateCancelled) {
		t.Error("expected DismissedMsg{cancelled}")
	}
}

func containsDismiss(msg tea.Msg, state State) bool {
	switch m := msg.(type) {
	case DismissedMsg:
		return m.State == state
	case tea.BatchMsg:
		for _, c := range m {
			if c != nil && containsDismiss(c(), state) {
				return true
			}
		}
	}
	return false
}

func TestEscOnFormCancels(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))
	h.m.Update(keyMsg("esc"))
	if !h.m.UserCancelled() {
		t.Error("esc should cancel the form")
	}
}

func TestClosedDialogIgnoresInput(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(false, 0))
	h.m.Update(keyMsg("x"))
	if h.m.Password() != "" || h.m.View() != "" {
		t.Error("closed dialog should ignore input and render nothing")
	}
}

// Open, type, fail once, cancel, close and reopen.
func TestScenarioRetryAfterCancel(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))
	if out := plain(h.m); strings.Contains(out, i18n.KeyIncorrectPassword) {
		t.Fatalf("no error notice expected on first open:\n%s", out)
	}

	h.m.HandleInputChange("abc")
	_ = h.m.HandleSubmit()
	if len(h.submitted) != 1 || h.submitted[0] != "abc" {
		t.Fatalf("submitted = %v", h.submitted)
	}

	h.m.SetProps(h.props(true, 1))
	if out := plain(h.m); !strings.Contains(out, i18n.KeyIncorrectPassword+":2") {
		t.Fatalf("expected 2 remaining:\n%s", out)
	}

	h.m.HandleCancel()
	if h.m.State() != StateCancelled {
		t.Fatalf("state = %v", h.m.State())
	}

	h.m.SetProps(h.props(false, 1))
	h.m.SetProps(h.props(true, 1))
	if h.m.State() != StateEnteringPassword {
		t.Errorf("state after reopen = %v", h.m.State())
	}
	if h.m.Password() != "" {
		t.Errorf("input after reopen = %q", h.m.Password())
	}
	if h.m.Props().Attempt != 1 {
		t.Errorf("attempt = %d, want external value 1", h.m.Props().Attempt)
	}
	if !h.m.InputFocused() {
		t.Error("input should be focused after reopen")
	}
}

func TestScenarioExceededIgnoresCancel(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 2))
	h.m.SetProps(h.props(true, 3))
	before := plain(h.m)
	h.m.HandleCancel()
	if after := plain(h.m); after != before {
		t.Errorf("cancel changed the exceeded view:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestFormLabelsInput(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))
	out := plain(h.m)
	if !strings.Contains(out, i18n.KeyPasswordLabel) {
		t.Errorf("input label missing:\n%s", out)
	}
	if strings.Contains(out, i18n.KeyClose) {
		t.Errorf("form should not offer Close:\n%s", out)
	}
}

func TestNoticeCloseButtonDismisses(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		cancel  bool
		want    State
	}{
		{"exceeded", MaxAttempts, false, StateExceeded},
		{"cancelled", 1, true, StateCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.m.SetProps(h.props(true, tt.attempt))
			if tt.cancel {
				h.m.HandleCancel()
			}
			if out := plain(h.m); !strings.Contains(out, i18n.KeyClose) {
				t.Fatalf("Close button missing:\n%s", out)
			}

			cmd := h.m.Update(keyMsg("enter"))
			if cmd == nil {
				t.Fatal("enter on Close should produce a command")
			}
			if !containsDismiss(cmd(), tt.want) {
				t.Errorf("expected DismissedMsg{%v}", tt.want)
			}
			if len(h.submitted) != 0 {
				t.Errorf("Close must not submit: %v", h.submitted)
			}
		})
	}
}

// Focus follows Tab while open; only a rebuilt form (new attempt count or
// reopen) puts it back on the input.
func TestFocusAfterTabAndPropUpdates(t *testing.T) {
	h := newHarness()
	h.m.SetProps(h.props(true, 0))
	h.m.Update(keyMsg("tab"))
	if h.m.InputFocused() {
		t.Fatal("tab should move focus to the buttons")
	}

	h.m.SetProps(h.props(true, 0))
	if h.m.InputFocused() {
		t.Error("an unchanged prop update should keep the button focused")
	}

	h.m.SetProps(h.props(true, 1))
	if !h.m.InputFocused() {
		t.Error("a new attempt count should refocus the input")
	}

	h.m.Update(keyMsg("tab"))
	h.m.SetProps(h.props(false, 1))
	h.m.SetProps(h.props(true, 1))
	if !h.m.InputFocused() {
		t.Error("reopening should refocus the input")
	}
}
