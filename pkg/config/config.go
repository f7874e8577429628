package config

import (
	"os"
	"path/filepath"
	"time"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/sambabib/eol-checker/pkg/eol"
)

// FileName is the configuration file looked up in the working directory and its parents.
const FileName = ".eolcheck.yaml"

// Config represents the configuration for the EOL checker
type Config struct {
	// EOL data source
	API struct {
		BaseURL   string        `yaml:"baseURL"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"userAgent"`
	} `yaml:"api"`

	// Report output
	Output struct {
		Dir         string   `yaml:"dir"`
		Formats     []string `yaml:"formats"`     // html, json, sarif
		MetricsFile string   `yaml:"metricsFile"` // Prometheus textfile, disabled if empty
	} `yaml:"output"`

	// Issue tracker synchronization
	GitHub struct {
		Owner    string `yaml:"owner"`
		Repo     string `yaml:"repo"`
		TokenEnv string `yaml:"tokenEnv"`
		URL      string `yaml:"url"` // GraphQL endpoint for GitHub Enterprise
	} `yaml:"github"`

	// Tools skipped before any lookup
	IgnoreTools []string `yaml:"ignoreTools"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := &Config{
		IgnoreTools: []string{},
	}

	config.API.BaseURL = eol.DefaultBaseURL
	config.API.Timeout = eol.DefaultTimeout
	config.API.UserAgent = eol.DefaultUserAgent

	config.Output.Dir = filepath.Join("data", "output", "reports")
	config.Output.Formats = []string{"html", "json"}

	config.GitHub.TokenEnv = "GITHUB_TOKEN"

	return config
}

// LoadConfig loads the configuration from the specified file path
// If no path is provided, it looks for .eolcheck.yaml in the current directory
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = FileName
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, xerrors.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, xerrors.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// FindAndLoadConfig searches for a config file in the given directory and its parents
func FindAndLoadConfig(startDir string) (*Config, error) {
	currentDir := startDir
	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return LoadConfig(configPath)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached the root directory, no config file found
			break
		}
		currentDir = parentDir
	}

	return DefaultConfig(), nil
}

// IsToolIgnored checks if a tool should be skipped based on the configuration
func (c *Config) IsToolIgnored(toolName string) bool {
	for _, ignored := range c.IgnoreTools {
		if eol.ProductName(ignored) == eol.ProductName(toolName) {
			return true
		}
	}
	return false
}

// WantsFormat reports whether format is one of the configured report formats.
func (c *Config) WantsFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// GitHubToken returns the token from the configured environment variable.
func (c *Config) GitHubToken() string {
	return os.Getenv(c.GitHub.TokenEnv)
}
