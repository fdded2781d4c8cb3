package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig holds per-user settings kept outside the repository
type UserConfig struct {
	Webhooks []string `yaml:"webhooks,omitempty"`
	Verbose  bool     `yaml:"verbose,omitempty"`
}

const userConfigDir = "gh-deployflow"

// UserConfigPath returns $XDG_CONFIG_HOME/gh-deployflow/config.yml,
// falling back to ~/.config when XDG_CONFIG_HOME is unset.
func UserConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, userConfigDir, "config.yml"), nil
}

// LoadUserConfig reads the user config. A missing file yields an empty config.
func LoadUserConfig() (*UserConfig, error) {
	path, err := UserConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &cfg, nil
}

// SaveUserConfig writes the user config with owner-only permissions since
// webhook URLs carry credentials.
func SaveUserConfig(cfg *UserConfig) error {
	path, err := UserConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// AddWebhook appends url unless it is already present
func (u *UserConfig) AddWebhook(url string) bool {
	for _, existing := range u.Webhooks {
		if existing == url {
			return false
		}
	}
	u.Webhooks = append(u.Webhooks, url)
	return true
}
