// Package config provides application configuration including keybindings.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// KeybindingConfig represents a single keybinding configuration.
type KeybindingConfig struct {
	Keys []string `yaml:"keys"` // Key(s) that trigger the action
	Help string   `yaml:"help"` // Help text displayed in the UI
}

// KeybindingsConfig holds all customizable keybindings.
type KeybindingsConfig struct {
	Up         *KeybindingConfig `yaml:"up,omitempty"`
	Down       *KeybindingConfig `yaml:"down,omitempty"`
	Collapse   *KeybindingConfig `yaml:"collapse,omitempty"`
	Expand     *KeybindingConfig `yaml:"expand,omitempty"`
	Enter      *KeybindingConfig `yaml:"enter,omitempty"`
	Back       *KeybindingConfig `yaml:"back,omitempty"`
	New        *KeybindingConfig `yaml:"new,omitempty"`
	NewSubtask *KeybindingConfig `yaml:"new_subtask,omitempty"`
	Complete   *KeybindingConfig `yaml:"complete,omitempty"`
	Delete     *KeybindingConfig `yaml:"delete,omitempty"`
	Grab       *KeybindingConfig `yaml:"grab,omitempty"`
	Nest       *KeybindingConfig `yaml:"nest,omitempty"`
	Root       *KeybindingConfig `yaml:"root,omitempty"`
	Refresh    *KeybindingConfig `yaml:"refresh,omitempty"`
	Help       *KeybindingConfig `yaml:"help,omitempty"`
	Quit       *KeybindingConfig `yaml:"quit,omitempty"`
}

// DefaultKeybindingsConfigPath returns the default path for the keybindings config file.
func DefaultKeybindingsConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "keybindings.yaml")
}

// LoadKeybindings loads keybindings from the default config path.
// Returns nil if the file doesn't exist (not an error - just use defaults).
func LoadKeybindings() (*KeybindingsConfig, error) {
	return LoadKeybindingsFromPath(DefaultKeybindingsConfigPath())
}

// LoadKeybindingsFromPath loads keybindings from a specific path.
// Returns nil if the file doesn't exist (not an error - just use defaults).
func LoadKeybindingsFromPath(path string) (*KeybindingsConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, use defaults
		}
		return nil, err
	}

	var config KeybindingsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// GenerateDefaultKeybindingsYAML generates a YAML string with all default keybindings.
// This can be used to create an example config file.
func GenerateDefaultKeybindingsYAML() string {
	return `# mdo Keybindings Configuration
# Customize keyboard shortcuts by modifying the keys below.
# Each keybinding has:
#   keys: list of key(s) that trigger the action (e.g., ["n"], ["ctrl+p", "p"])
#   help: text shown in the help menu
#
# Available key formats:
#   - Single keys: "a", "n", "?"
#   - Modified keys: "ctrl+c", "ctrl+p", "shift+up"
#   - Special keys: "enter", "esc", "left", "right", "up", "down"
#
# Only include keybindings you want to customize.
# Omitted keybindings will use defaults.

# Navigation
up:
  keys: ["up", "k"]
  help: "up"

down:
  keys: ["down", "j"]
  help: "down"

collapse:
  keys: ["left", "h"]
  help: "collapse"

expand:
  keys: ["right", "l"]
  help: "expand"

# Actions
enter:
  keys: ["enter"]
  help: "view"

back:
  keys: ["esc"]
  help: "back"

new:
  keys: ["n"]
  help: "new task"

new_subtask:
  keys: ["N"]
  help: "new subtask"

complete:
  keys: ["d"]
  help: "done"

delete:
  keys: ["D"]
  help: "delete"

grab:
  keys: ["g", " "]
  help: "grab/drop"

nest:
  keys: ["tab"]
  help: "nest under"

root:
  keys: ["0"]
  help: "drop at top level"

refresh:
  keys: ["R"]
  help: "refresh"

help:
  keys: ["?"]
  help: "help"

quit:
  keys: ["q", "ctrl+c"]
  help: "quit"
`
}
