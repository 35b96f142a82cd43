package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type StorageConfig struct {
	// Path of the credentials file. Empty means the default location under
	// the user config directory.
	Path        string `mapstructure:"path"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

// CredentialsPath resolves the configured path, falling back to
// <user config dir>/chatcli/credentials.json.
func (c StorageConfig) CredentialsPath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "chatcli", "credentials.json"), nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.request_timeout", 60*time.Second)
	v.SetDefault("storage.use_in_memory", false)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; a missing file is fine, defaults and
	// environment variables apply.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment overrides
	if baseURL := v.GetString("CHATCLI_API_URL"); baseURL != "" {
		if _, err := url.Parse(baseURL); err != nil {
			return nil, fmt.Errorf("failed to parse CHATCLI_API_URL: %v", err)
		}
		config.API.BaseURL = baseURL
	}

	if path := v.GetString("CHATCLI_CREDENTIALS_PATH"); path != "" {
		config.Storage.Path = path
	}

	return &config, nil
}
