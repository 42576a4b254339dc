// Package modal provides a small declarative library for terminal dialogs
// rendered with lipgloss and driven by bubbletea key messages.
//
// A dialog is a titled box made of stacked sections. Sections that can take
// focus (buttons, inputs, lists) register themselves while rendering, so the
// focus ring always matches what is on screen. Tab/Shift+Tab move focus,
// Enter activates the focused element, Esc yields the cancel action.
//
// # Quick Start
//
//	d := modal.New("Password Required", modal.WithPrimaryAction("submit")).
//	    AddSection(modal.Text("Enter the document password.")).
//	    AddSection(modal.Input("password", &input, modal.WithSubmitAction("submit"))).
//	    AddSection(modal.Spacer()).
//	    AddSection(modal.Buttons(
//	        modal.Btn(" Submit ", "submit"),
//	        modal.Btn(" Cancel ", "cancel"),
//	    ))
//
//	// In View():
//	content := d.Overlay(background, screenW, screenH)
//
//	// In Update():
//	if action, cmd := d.HandleKey(keyMsg); action != "" {
//	    switch action {
//	    case "submit":
//	        return submit()
//	    case modal.ActionCancel:
//	        return cancel()
//	    }
//	}
//
// # Built-in Sections
//
//   - Text(s string) - static text, auto-wrapped
//   - StyledText(s string, style lipgloss.Style) - text with an explicit style
//   - Spacer() - blank line
//   - Buttons(btns ...ButtonDef) - button row with focus styling
//   - Input(id string, model *textinput.Model, opts...) - single line input
//   - List(id string, items []ListItem, selectedIdx *int, opts...) - scrollable list
//   - When(condition func() bool, section) - conditional rendering
//
// # Options
//
//   - WithWidth(w int) - set dialog width (default: 50)
//   - WithVariant(v Variant) - set visual style (Default, Danger, Warning, Info)
//   - WithHints(show bool) - show/hide keyboard hints at bottom
//   - WithPrimaryAction(actionID string) - action for implicit Enter submit
package modal
