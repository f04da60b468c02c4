package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdiez/promptly/pkg/catalog"
)

// pickerKeyMap defines the key bindings for the model picker.
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
}

// pickerModel lets the user choose a model with digit keys or the cursor.
type pickerModel struct {
	models    []catalog.Model
	cursor    int
	done      bool
	cancelled bool
}

func newPicker(cat catalog.Catalog, current catalog.Model) pickerModel {
	models := cat.Models()

	cursor := 0
	for i, m := range models {
		if m.ID == current.ID {
			cursor = i
		}
	}

	return pickerModel{models: models, cursor: cursor}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, pickerKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, pickerKeys.Down):
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, pickerKeys.Select):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerKeys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	default:
		// Digit keys select directly, matching the menu numbers.
		if keyMsg.Type == tea.KeyRunes && len(keyMsg.Runes) == 1 {
			idx := int(keyMsg.Runes[0] - '1')
			if idx >= 0 && idx < len(m.models) {
				m.cursor = idx
				m.done = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m pickerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(pickerTitleStyle.Render("Pick a model:"))
	sb.WriteString("\n\n")

	for i, mod := range m.models {
		tier := pickerFreeStyle.Render("free")
		if !mod.Free {
			tier = pickerPaidStyle.Render("paid")
		}

		label := fmt.Sprintf("%d. %s  %s", i+1, mod.Name, tier)
		if i == m.cursor {
			sb.WriteString(pickerSelStyle.Render("> " + label))
		} else {
			sb.WriteString(pickerOptStyle.Render("  " + label))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(pickerHintStyle.Render(fmt.Sprintf("1-%d or ↑/↓ + Enter · Esc keeps %s", len(m.models), m.models[m.cursor].Name)))
	sb.WriteString("\n")

	return sb.String()
}

// choice returns the model under the cursor.
func (m pickerModel) choice() catalog.Model {
	return m.models[m.cursor]
}

// chooseModel runs the interactive picker and returns the chosen model.
// Cancelling keeps the current selection.
func chooseModel(cat catalog.Catalog, current catalog.Model) (catalog.Model, error) {
	p := tea.NewProgram(newPicker(cat, current))

	out, err := p.Run()
	if err != nil {
		return current, err
	}

	m, ok := out.(pickerModel)
	if !ok || m.cancelled {
		return current, nil
	}

	chosen := m.choice()
	fmt.Printf("Selected: %s\n", chosen.Label())

	return chosen, nil
}
