package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeMenu:     defaultMenuBindings(),
			ModeParts:    defaultPartsBindings(),
			ModeAssembly: defaultAssemblyBindings(),
		},
	}
}

func defaultMenuBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeMenu,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 's', Command: CmdStart, Description: "Start building PC", Category: "Menu"},
			{KeyType: tea.KeyEnter, Command: CmdStart, Description: "Start building PC", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'i', Command: CmdParts, Description: "Identify PC parts", Category: "Menu"},
			{KeyType: tea.KeyEsc, Command: CmdClose, Description: "Close menu", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdHelp, Description: "Help", Category: "Application"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application", Hidden: true},
		},
	}
}

func defaultPartsBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeParts,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEsc, Command: CmdClose, Description: "Back", Category: "Parts"},
			{KeyType: tea.KeyRunes, Rune: 'i', Command: CmdClose, Description: "Back", Category: "Parts"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application", Hidden: true},
		},
	}
}

func defaultAssemblyBindings() *ModeBindings {
	bindings := []KeyBinding{
		{KeyType: tea.KeyRight, Command: CmdNext, Description: "Next step", Category: "Navigation"},
		{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdNext, Description: "Next step", Category: "Navigation"},
		{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdNext, Description: "Next step", Category: "Navigation", Hidden: true},
		{KeyType: tea.KeySpace, Command: CmdNext, Description: "Next step", Category: "Navigation", Hidden: true},
		{KeyType: tea.KeyLeft, Command: CmdPrevious, Description: "Previous step", Category: "Navigation"},
		{KeyType: tea.KeyRunes, Rune: 'p', Command: CmdPrevious, Description: "Previous step", Category: "Navigation"},
		{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdPrevious, Description: "Previous step", Category: "Navigation", Hidden: true},
		{KeyType: tea.KeyRunes, Rune: 'm', Command: CmdMenu, Description: "Menu", Category: "Navigation"},
		{KeyType: tea.KeyEsc, Command: CmdMenu, Description: "Menu", Category: "Navigation", Hidden: true},
	}
	for r := '1'; r <= '9'; r++ {
		bindings = append(bindings, KeyBinding{
			KeyType: tea.KeyRunes, Rune: r, Command: CmdJump,
			Description: "Jump to step", Category: "Navigation", Hidden: true,
		})
	}
	bindings = append(bindings,
		KeyBinding{KeyType: tea.KeyRunes, Rune: '?', Command: CmdHelp, Description: "Help", Category: "Application"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
		KeyBinding{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application", Hidden: true},
	)
	return &ModeBindings{Mode: ModeAssembly, Bindings: bindings}
}
