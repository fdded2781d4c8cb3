package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the .gh-deployflow.yml configuration file
type Config struct {
	GithubRepo         string   `yaml:"github_repo,omitempty"`
	DeployBranch       string   `yaml:"deploy_branch,omitempty"`
	UserNotifications  []string `yaml:"user_notifications,omitempty"`
	RemergeBranchTypes []string `yaml:"remerge_branch_types,omitempty"`
	DeployableLabel    string   `yaml:"deployable_label,omitempty"`
	Changelog          string   `yaml:"changelog,omitempty"`
}

// ConfigFileName is the name of the project configuration file
const ConfigFileName = ".gh-deployflow.yml"

// Defaults applied when a key is absent
const (
	DefaultDeployBranch    = "master"
	DefaultDeployableLabel = "deployable"
	DefaultChangelog       = "CHANGELOG.markdown"
)

// DefaultRemergeBranchTypes are the branch types whose creation re-merges
// open pull requests already deployed to the previous branch of that type.
var DefaultRemergeBranchTypes = []string{"staging"}

var knownBranchTypes = map[string]bool{
	"deployable": true,
	"staging":    true,
	"qaready":    true,
}

// Load reads and parses a configuration file from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromDirectory finds and loads the config file from the given directory.
// It searches up the directory tree until it finds a .gh-deployflow.yml file or
// reaches the filesystem root.
func LoadFromDirectory(dir string) (*Config, error) {
	configPath, err := FindConfigFile(dir)
	if err != nil {
		return nil, err
	}
	return Load(configPath)
}

// LoadOrDefault behaves like LoadFromDirectory but returns an empty config
// when no file exists, so every accessor falls back to its default.
func LoadOrDefault(dir string) (*Config, error) {
	configPath, err := FindConfigFile(dir)
	if err != nil {
		return &Config{}, nil
	}
	return Load(configPath)
}

// FindConfigFile searches for .gh-deployflow.yml starting from dir and walking up
// the directory tree until found or filesystem root is reached.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", fmt.Errorf("no %s found in %s or any parent directory", ConfigFileName, startDir)
		}
		dir = parent
	}
}

// Validate checks that configured values are well formed.
// An empty github_repo is allowed; it is resolved from the git remote.
func (c *Config) Validate() error {
	if c.GithubRepo != "" {
		parts := strings.Split(c.GithubRepo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("github_repo must be in owner/repo format, got %q", c.GithubRepo)
		}
	}

	for _, t := range c.RemergeBranchTypes {
		if !knownBranchTypes[t] {
			return fmt.Errorf("remerge_branch_types: unknown branch type %q", t)
		}
	}

	for _, user := range c.UserNotifications {
		if strings.TrimSpace(user) == "" {
			return fmt.Errorf("user_notifications must not contain empty names")
		}
	}

	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported environment variables:
//   - GH_DEPLOYFLOW_REPO: overrides github_repo
//   - GH_DEPLOYFLOW_DEPLOY_BRANCH: overrides deploy_branch
func (c *Config) ApplyEnvOverrides() {
	if repo := os.Getenv("GH_DEPLOYFLOW_REPO"); repo != "" {
		c.GithubRepo = repo
	}

	if branch := os.Getenv("GH_DEPLOYFLOW_DEPLOY_BRANCH"); branch != "" {
		c.DeployBranch = branch
	}
}

// Save writes the configuration back to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDeployBranch returns the branch that releases are cut from
func (c *Config) GetDeployBranch() string {
	if c.DeployBranch == "" {
		return DefaultDeployBranch
	}
	return c.DeployBranch
}

// GetDeployableLabel returns the label marking a pull request deployable
func (c *Config) GetDeployableLabel() string {
	if c.DeployableLabel == "" {
		return DefaultDeployableLabel
	}
	return c.DeployableLabel
}

// GetChangelog returns the changelog file name relative to the project root
func (c *Config) GetChangelog() string {
	if c.Changelog == "" {
		return DefaultChangelog
	}
	return c.Changelog
}

// GetRemergeBranchTypes returns the branch type names that re-merge on creation.
// An explicit empty list in the file disables re-merging.
func (c *Config) GetRemergeBranchTypes() []string {
	if c.RemergeBranchTypes == nil {
		return DefaultRemergeBranchTypes
	}
	return c.RemergeBranchTypes
}
