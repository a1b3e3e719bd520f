package keybinds

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the user's keybinding overrides, key -> action per context
type Config struct {
	Global    map[string]string `yaml:"global,omitempty"`
	Search    map[string]string `yaml:"search,omitempty"`
	Help      map[string]string `yaml:"help,omitempty"`
	Analytics map[string]string `yaml:"analytics,omitempty"`
	Confirm   map[string]string `yaml:"confirm,omitempty"`
}

// LoadConfig loads keybinding overrides from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds file %s: %w", path, err)
	}

	return &config, nil
}

// ApplyConfig applies user overrides to a registry. The action "none"
// removes a default binding.
func ApplyConfig(registry *Registry, config *Config) {
	sections := map[Context]map[string]string{
		ContextGlobal:    config.Global,
		ContextSearch:    config.Search,
		ContextHelp:      config.Help,
		ContextAnalytics: config.Analytics,
		ContextConfirm:   config.Confirm,
	}

	for context, bindings := range sections {
		for key, action := range bindings {
			if action == "none" {
				registry.Unregister(context, key)
				continue
			}
			registry.Register(context, key, Action(action))
		}
	}
}

// LoadOrDefault returns the default registry with the overrides at path
// applied. A missing file is not an error. Overrides that fail validation
// are rejected as a whole.
func LoadOrDefault(path string) (*Registry, error) {
	registry := NewDefaultRegistry()
	if path == "" {
		return registry, nil
	}

	config, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return registry, nil
	}
	if err != nil {
		return registry, err
	}

	custom := registry.Clone()
	ApplyConfig(custom, config)
	if result := Validate(custom); result.HasErrors() {
		return registry, fmt.Errorf("keybinds file %s:\n%s", path, result.String())
	}
	return custom, nil
}
