package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// ListItem represents an item in a list section.
type ListItem struct {
	ID    string // Unique identifier for this item
	Label string // Display text
	Data  any    // Optional associated data
}

// ListOption is a functional option for List sections.
type ListOption func(*listSection)

// listSection renders a scrollable list of items.
type listSection struct {
	id           string
	items        []ListItem
	selectedIdx  *int // Pointer to allow external control
	maxVisible   int
	scrollOffset int
}

// List creates a list section with selectable items.
// selectedIdx is a pointer to the currently selected index (can be nil for no selection).
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) Section {
	s := &listSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
		maxVisible:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxVisible sets the maximum number of visible items.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

func (s *listSection) Render(contentWidth int, focusID string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: MutedText.Render("(no items)")}
	}

	visibleCount := min(s.maxVisible, len(s.items))
	selectedIdx := 0
	if s.selectedIdx != nil {
		selectedIdx = *s.selectedIdx
	}

	// Keep the selection inside the window
	if selectedIdx < s.scrollOffset {
		s.scrollOffset = selectedIdx
	} else if selectedIdx >= s.scrollOffset+visibleCount {
		s.scrollOffset = selectedIdx - visibleCount + 1
	}
	s.scrollOffset = clamp(s.scrollOffset, 0, max(0, len(s.items)-visibleCount))

	listIsFocused := focusID == s.id

	var sb strings.Builder
	totalHeight := 0
	for i := 0; i < visibleCount; i++ {
		itemIdx := s.scrollOffset + i
		item := s.items[itemIdx]
		isSelected := s.selectedIdx != nil && *s.selectedIdx == itemIdx

		style := ListItemNormal
		if isSelected && listIsFocused {
			style = ListItemFocused
		} else if isSelected {
			style = ListItemSelected
		}

		cursor := "  "
		if isSelected {
			cursor = ListCursor.Render("> ")
		}

		label := ansi.Truncate(item.Label, max(1, contentWidth-2), "…")
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(cursor + style.Render(label))
		totalHeight++
	}

	content := sb.String()
	if s.scrollOffset > 0 {
		content = MutedText.Render("↑ more above") + "\n" + content
		totalHeight++
	}
	if s.scrollOffset+visibleCount < len(s.items) {
		content = content + "\n" + MutedText.Render("↓ more below")
		totalHeight++
	}

	// The list is a single focus stop; arrows move inside it.
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: totalHeight,
		}},
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || s.selectedIdx == nil {
		return "", nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}
	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}
	case "enter":
		if *s.selectedIdx >= 0 && *s.selectedIdx < len(s.items) {
			return s.items[*s.selectedIdx].ID, nil
		}
	case "home":
		*s.selectedIdx = 0
	case "end":
		*s.selectedIdx = len(s.items) - 1
	}
	return "", nil
}
