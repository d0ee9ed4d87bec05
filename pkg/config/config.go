package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Environment variable names recognized by Load. They take precedence over
// values from the config file.
const (
	EnvSpaceID     = "CONTENTFUL_SPACE_ID"
	EnvAccessToken = "CONTENTFUL_ACCESS_TOKEN"
	EnvEnvironment = "CONTENTFUL_ENVIRONMENT"
	EnvHost        = "CONTENTFUL_HOST"
)

const (
	DefaultEnvironment = "master"
	DefaultHost        = "preview.contentful.com"
	DefaultAppHost     = "app.contentful.com"
)

// Config holds everything needed to reach a Contentful space.
type Config struct {
	SpaceID     string `toml:"space_id"`
	AccessToken string `toml:"access_token"`
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	AppHost     string `toml:"app_host"`
}

// Load reads the config file at configPath (if it exists), loads a .env file
// from the working directory (if one exists), and overlays environment
// variables on top. The returned config is not validated; call Validate
// before using it.
func Load(configPath string) (*Config, error) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Environment: DefaultEnvironment,
		Host:        DefaultHost,
		AppHost:     DefaultAppHost,
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling config %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if v := os.Getenv(EnvSpaceID); v != "" {
		cfg.SpaceID = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv(EnvEnvironment); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
	}

	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.AppHost == "" {
		cfg.AppHost = DefaultAppHost
	}

	return cfg, nil
}

// Validate checks that the credentials required for any API call are present.
func (c *Config) Validate() error {
	if c.SpaceID == "" {
		return fmt.Errorf("space id is required (set %s or space_id in the config file)", EnvSpaceID)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("access token is required (set %s or access_token in the config file)", EnvAccessToken)
	}
	return nil
}

// SaveTemplate writes the sample configuration to configPath, creating parent
// directories as needed.
func SaveTemplate(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

// GetConfigDir returns the configuration directory for contentful-find,
// creating it if necessary.
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "contentful-find")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
