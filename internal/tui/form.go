// ABOUTME: Multi-field text form shared by the add, search, edit and delete screens.
// ABOUTME: Tab and arrows move focus; Enter advances and submits on the last field.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	value       string
}

type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, fl := range fields {
		in := textinput.New()
		in.Placeholder = fl.placeholder
		in.Width = 40
		in.SetValue(fl.value)
		if i == 0 {
			in.Focus()
		}
		f.labels[i] = fl.label
		f.inputs[i] = in
	}
	return f
}

// update handles a key press. submitted is true when Enter is pressed on the
// last field.
func (f form) update(msg tea.KeyMsg) (form, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		if f.focus == len(f.inputs)-1 {
			return f, nil, true
		}
		return f.move(1), textinput.Blink, false
	case tea.KeyTab, tea.KeyDown:
		return f.move(1), textinput.Blink, false
	case tea.KeyShiftTab, tea.KeyUp:
		return f.move(-1), textinput.Blink, false
	}
	return f.forward(msg)
}

// forward passes a message to the focused input.
func (f form) forward(msg tea.Msg) (form, tea.Cmd, bool) {
	if len(f.inputs) == 0 {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f form) move(delta int) form {
	if len(f.inputs) == 0 {
		return f
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (f form) blur() form {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f
}

func (f form) value(i int) string {
	return f.inputs[i].Value()
}

func (f form) set(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f form) View() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := f.labels[i]
		if i == f.focus && in.Focused() {
			b.WriteString(focusStyle.Render(label))
		} else {
			b.WriteString(promptStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}
