// Package keymap holds the TUI's key bindings as data, grouped by the mode
// the walkthrough is in.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects the active binding set. The values match walkthrough modes.
type Mode string

const (
	ModeMenu     Mode = "menu"     // Main menu popup is open
	ModeParts    Mode = "parts"    // Parts reference is open
	ModeAssembly Mode = "assembly" // Stepping through the build
)

// Command is the named action a binding triggers.
type Command string

const (
	CmdNext     Command = "next"
	CmdPrevious Command = "previous"
	CmdMenu     Command = "menu"
	CmdStart    Command = "start"
	CmdParts    Command = "parts"
	CmdClose    Command = "close"
	CmdJump     Command = "jump" // digit keys
	CmdHelp     Command = "toggle_help"
	CmdQuit     Command = "quit"
)

// Modifier represents keyboard modifiers.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
)

// String returns a human-readable prefix for the modifiers.
func (m Modifier) String() string {
	if m&ModAlt != 0 {
		return "alt+"
	}
	return ""
}

// KeyBinding maps one key to a command.
type KeyBinding struct {
	// KeyType is a tea.KeyType; rune keys use tea.KeyRunes with Rune set.
	KeyType tea.KeyType
	// Rune is the character for tea.KeyRunes bindings. Zero matches any rune.
	Rune      rune
	Modifiers Modifier
	Command   Command
	// Description and Category feed the help bar and help panel.
	Description string
	Category    string
	// Hidden bindings work but are left out of the help bar.
	Hidden bool
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	if kb.Rune == 0 {
		return true
	}
	return msg.Runes[0] == kb.Rune
}

// String returns the key as shown in help, e.g. "→", "n", "esc".
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		switch kb.KeyType {
		case tea.KeyRight:
			return prefix + "→"
		case tea.KeyLeft:
			return prefix + "←"
		}
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	case 0:
		return prefix + "any"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for one mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding returns the first binding in the mode that matches msg.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (KeyBinding, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding, true
		}
	}
	return KeyBinding{}, false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up the binding for msg in mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (KeyBinding, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return KeyBinding{}, false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetBindingsForCommand returns all bindings in mode that trigger cmd.
func (km *Keymap) GetBindingsForCommand(cmd Command, mode Mode) []KeyBinding {
	var result []KeyBinding
	for _, binding := range km.GetModeBindings(mode) {
		if binding.Command == cmd {
			result = append(result, binding)
		}
	}
	return result
}

// GetCategories returns the unique categories of a mode in first-seen order.
func (km *Keymap) GetCategories(mode Mode) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, binding := range km.GetModeBindings(mode) {
		if binding.Category != "" && !seen[binding.Category] {
			seen[binding.Category] = true
			categories = append(categories, binding.Category)
		}
	}
	return categories
}

// HelpEntry is one "key description" pair of the help bar.
type HelpEntry struct {
	Keys        string
	Command     Command
	Description string
}

// Help collapses a mode's visible bindings into one entry per command, keys
// joined with "/", in binding order.
func (km *Keymap) Help(mode Mode) []HelpEntry {
	var entries []HelpEntry
	index := make(map[Command]int)
	for _, b := range km.GetModeBindings(mode) {
		if b.Hidden {
			continue
		}
		if i, ok := index[b.Command]; ok {
			entries[i].Keys += "/" + b.String()
			continue
		}
		index[b.Command] = len(entries)
		entries = append(entries, HelpEntry{Keys: b.String(), Command: b.Command, Description: b.Description})
	}
	return entries
}
