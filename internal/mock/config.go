package mock

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

//go:embed countries.json
var defaultFixtures []byte

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, .json or .jsonc)", ext)
	}

	// Relative fixture paths are resolved against the config file
	if config.Fixtures != "" && !filepath.IsAbs(config.Fixtures) {
		config.Fixtures = filepath.Join(filepath.Dir(path), config.Fixtures)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// validateConfig validates the mock configuration
func validateConfig(config *Config) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if config.FailWith != 0 && (config.FailWith < 100 || config.FailWith > 599) {
		return fmt.Errorf("failWith must be an HTTP status code, got %d", config.FailWith)
	}
	return nil
}

// fixture is one country record kept as raw JSON per top-level field, so
// nested objects such as languages keep their key order when served
type fixture struct {
	fields   map[string]json.RawMessage
	common   string
	official string
}

// loadFixtures reads country records from path, or the embedded set when
// path is empty
func loadFixtures(path string) ([]fixture, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixtures: %w", err)
		}
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &records); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	fixtures := make([]fixture, 0, len(records))
	for i, rec := range records {
		var name struct {
			Common   string `json:"common"`
			Official string `json:"official"`
		}
		raw, ok := rec["name"]
		if !ok {
			return nil, fmt.Errorf("fixture %d: name is required", i)
		}
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("fixture %d: invalid name: %w", i, err)
		}
		fixtures = append(fixtures, fixture{
			fields:   rec,
			common:   strings.ToLower(name.Common),
			official: strings.ToLower(name.Official),
		})
	}

	return fixtures, nil
}
