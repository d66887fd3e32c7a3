package ui

import (
	"strings"

	"github.com/MarisaKirisame/mdo/internal/config"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines key bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Collapse   key.Binding
	Expand     key.Binding
	Enter      key.Binding
	Back       key.Binding
	New        key.Binding
	NewSubtask key.Binding
	Complete   key.Binding
	Delete     key.Binding
	Grab       key.Binding
	Nest       key.Binding
	Root       key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings to show in the mini help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.New, k.Complete, k.Grab, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand},
		{k.New, k.NewSubtask, k.Complete, k.Delete},
		{k.Grab, k.Nest, k.Root, k.Enter},
		{k.Refresh, k.Back, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		NewSubtask: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new subtask"),
		),
		Complete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		Grab: key.NewBinding(
			key.WithKeys("g", " "),
			key.WithHelp("g/space", "grab/drop"),
		),
		Nest: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "nest under"),
		),
		Root: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "drop at top level"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// binding converts a yaml keybinding entry to a bubbles binding.
func binding(cfg *config.KeybindingConfig, fallback key.Binding) key.Binding {
	if cfg == nil || len(cfg.Keys) == 0 {
		return fallback
	}
	help := cfg.Help
	if help == "" {
		help = fallback.Help().Desc
	}
	return key.NewBinding(
		key.WithKeys(cfg.Keys...),
		key.WithHelp(strings.Join(cfg.Keys, "/"), help),
	)
}

// KeyMapFromConfig returns the default key map with any yaml overrides
// applied. A nil config yields the defaults unchanged.
func KeyMapFromConfig(cfg *config.KeybindingsConfig) KeyMap {
	keys := DefaultKeyMap()
	if cfg == nil {
		return keys
	}

	keys.Up = binding(cfg.Up, keys.Up)
	keys.Down = binding(cfg.Down, keys.Down)
	keys.Collapse = binding(cfg.Collapse, keys.Collapse)
	keys.Expand = binding(cfg.Expand, keys.Expand)
	keys.Enter = binding(cfg.Enter, keys.Enter)
	keys.Back = binding(cfg.Back, keys.Back)
	keys.New = binding(cfg.New, keys.New)
	keys.NewSubtask = binding(cfg.NewSubtask, keys.NewSubtask)
	keys.Complete = binding(cfg.Complete, keys.Complete)
	keys.Delete = binding(cfg.Delete, keys.Delete)
	keys.Grab = binding(cfg.Grab, keys.Grab)
	keys.Nest = binding(cfg.Nest, keys.Nest)
	keys.Root = binding(cfg.Root, keys.Root)
	keys.Refresh = binding(cfg.Refresh, keys.Refresh)
	keys.Help = binding(cfg.Help, keys.Help)
	keys.Quit = binding(cfg.Quit, keys.Quit)

	return keys
}
