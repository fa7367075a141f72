package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// AnswerCharLimit returns how many characters an answer up to maxAnswer
// needs, with room for a sign.
func AnswerCharLimit(maxAnswer int) int {
	if maxAnswer < 0 {
		maxAnswer = -maxAnswer
	}
	return len(strconv.Itoa(maxAnswer)) + 1
}

// TextInput wraps bubbles/textinput with the drill styling and a result
// mark shown after the last submission.
type TextInput struct {
	Model  textinput.Model
	marked bool
	valid  bool
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "= "
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Typing clears the previous result mark.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		t.marked = false
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.marked {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Mark clears the typed value and shows a result mark until the next key.
func (t *TextInput) Mark(valid bool) {
	t.Model.Reset()
	t.marked = true
	t.valid = valid
}

// Clear empties the input and drops any result mark.
func (t *TextInput) Clear() {
	t.Model.Reset()
	t.marked = false
}
