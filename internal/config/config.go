// Package config loads user macros.
//
//	[macros.greet]
//	commands = ["say hello", "wave"]
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Macros map[string]Macro `toml:"macros"`
}

// Macro expands to one or more lines sent to the server.
type Macro struct {
	Commands []string `toml:"commands"`
}

// Load reads the file at path. A missing file yields an error wrapping
// fs.ErrNotExist so callers can decide whether that matters.
func Load(path string) (*Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

func Parse(text string) (*Config, error) {
	var c Config
	if _, err := toml.Decode(text, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

// ExpandMacro returns the macro's commands joined by newlines, with a
// trailing newline.
func (c *Config) ExpandMacro(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	m, ok := c.Macros[name]
	if !ok {
		return "", false
	}
	return strings.Join(m.Commands, "\n") + "\n", true
}
