package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/ttt/internal/typing"
)

type keyMap struct {
	Quit    key.Binding
	Abort   key.Binding
	Next    key.Binding
	NewText key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Abort: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next text"),
			key.WithDisabled(),
		),
		NewText: key.NewBinding(
			key.WithKeys("f5", "ctrl+r"),
			key.WithHelp("f5", "new text"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.NewText, k.Abort, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// syncState adjusts bindings to the session state: Enter types a newline
// while a session is open and moves on once it has ended, and Esc aborts a
// running session.
func (k *keyMap) syncState(state typing.State) {
	k.Next.SetEnabled(state.Terminal())
	help := "quit"
	if state == typing.Running {
		help = "abort"
	}
	k.Abort.SetHelp("esc", help)
}

// decodeKey translates a terminal key into engine events stamped at at.
// Keys with no typing meaning yield nil. Enter decodes to a newline; the
// model drops it unless the cursor slot expects one.
func decodeKey(msg tea.KeyMsg, at time.Time) []typing.KeyEvent {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
		return []typing.KeyEvent{typing.Backspace(at)}
	case tea.KeySpace:
		return []typing.KeyEvent{typing.Char(' ', at)}
	case tea.KeyEnter:
		return []typing.KeyEvent{typing.Char('\n', at)}
	case tea.KeyTab:
		return []typing.KeyEvent{typing.Char('\t', at)}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		events := make([]typing.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r == '\r' {
				r = '\n'
			}
			events = append(events, typing.Char(r, at))
		}
		return events
	default:
		return nil
	}
}
