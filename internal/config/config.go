package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

// Defaults
const (
	DefaultAPIURL        = "https://restcountries.com/v3.1"
	DefaultDebounce      = 300 * time.Millisecond
	DefaultNotifyTimeout = 3 * time.Second
	DefaultMaxListSize   = 10
	DefaultListen        = ":8080"
	DefaultLogLevel      = "info"
)

// Environment variables that override the settings file
const (
	EnvAPIURL    = "COUNTRYSEARCH_API_URL"
	EnvDebounce  = "COUNTRYSEARCH_DEBOUNCE"
	EnvLogLevel  = "COUNTRYSEARCH_LOG_LEVEL"
	EnvAnalytics = "COUNTRYSEARCH_ANALYTICS"
)

var (
	// ConfigDir is the global configuration directory (~/.countrysearch)
	ConfigDir string

	// SettingsFile is the YAML settings file
	SettingsFile string

	// DatabasePath is the SQLite database file for analytics
	DatabasePath string

	// LogFile receives logs while the terminal UI owns stdout
	LogFile string

	// KeybindsFile holds the terminal UI key overrides
	KeybindsFile string
)

// Settings holds the tunables shared by every surface
type Settings struct {
	APIURL         string        `yaml:"api_url"`
	Debounce       time.Duration `yaml:"debounce"`
	NotifyTimeout  time.Duration `yaml:"notify_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxListSize    int           `yaml:"max_list_size"`
	Analytics      bool          `yaml:"analytics"`
	LogLevel       string        `yaml:"log_level"`
	Listen         string        `yaml:"listen"`
}

// Default returns the settings used when no file or environment override exists
func Default() Settings {
	return Settings{
		APIURL:        DefaultAPIURL,
		Debounce:      DefaultDebounce,
		NotifyTimeout: DefaultNotifyTimeout,
		MaxListSize:   DefaultMaxListSize,
		LogLevel:      DefaultLogLevel,
		Listen:        DefaultListen,
	}
}

// Initialize sets up the configuration directory and paths
// It creates ~/.countrysearch/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	return InitializeAt(filepath.Join(homeDir, ".countrysearch"))
}

// InitializeAt sets up the configuration paths under dir
func InitializeAt(dir string) error {
	ConfigDir = dir
	SettingsFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "countrysearch.db")
	LogFile = filepath.Join(ConfigDir, "countrysearch.log")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.yaml")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// Load reads settings from the settings file and the environment.
// A .env file in the working directory is loaded first; variables already set
// in the environment win over it.
func Load() (Settings, error) {
	_ = godotenv.Load(".env")
	if ConfigDir != "" {
		_ = godotenv.Load(filepath.Join(ConfigDir, ".env"))
	}

	s := Default()
	if SettingsFile != "" {
		if err := s.mergeFile(SettingsFile); err != nil {
			return s, err
		}
	}
	if err := s.mergeEnv(os.Getenv); err != nil {
		return s, err
	}
	return s, s.Validate()
}

func (s *Settings) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return nil
}

func (s *Settings) mergeEnv(getenv func(string) string) error {
	if v := getenv(EnvAPIURL); v != "" {
		s.APIURL = v
	}
	if v := getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebounce, v, err)
		}
		s.Debounce = d
	}
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvAnalytics); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAnalytics, v, err)
		}
		s.Analytics = enabled
	}
	return nil
}

// DebounceDelay is the quiet period every surface waits for. Zero means
// unset and falls back to DefaultDebounce.
func (s Settings) DebounceDelay() time.Duration {
	if s.Debounce <= 0 {
		return DefaultDebounce
	}
	return s.Debounce
}

// Validate checks the settings for values no surface can work with
func (s Settings) Validate() error {
	if s.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if s.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if s.NotifyTimeout <= 0 {
		return fmt.Errorf("notify_timeout must be positive")
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if s.MaxListSize < 1 {
		return fmt.Errorf("max_list_size must be at least 1")
	}
	return nil
}

// Save writes the settings file, creating the config directory if needed
func (s Settings) Save() error {
	if SettingsFile == "" {
		return fmt.Errorf("config not initialized")
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(SettingsFile), DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
