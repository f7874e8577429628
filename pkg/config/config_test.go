package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "https://endoflife.date/api", c.API.BaseURL)
	assert.Equal(t, 10*time.Second, c.API.Timeout)
	assert.Equal(t, filepath.Join("data", "output", "reports"), c.Output.Dir)
	assert.Equal(t, []string{"html", "json"}, c.Output.Formats)
	assert.Equal(t, "GITHUB_TOKEN", c.GitHub.TokenEnv)
	assert.Empty(t, c.Output.MetricsFile)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
api:
  baseURL: https://eol.internal/api
  timeout: 3s
output:
  formats: [json, sarif]
  metricsFile: /var/lib/node_exporter/eolcheck.prom
github:
  owner: acme
  repo: platform
ignoreTools:
  - Internal Tool
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://eol.internal/api", c.API.BaseURL)
	assert.Equal(t, 3*time.Second, c.API.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", c.API.UserAgent)
	assert.Equal(t, filepath.Join("data", "output", "reports"), c.Output.Dir)
	assert.Equal(t, []string{"json", "sarif"}, c.Output.Formats)
	assert.True(t, c.WantsFormat("sarif"))
	assert.False(t, c.WantsFormat("html"))
	assert.Equal(t, "/var/lib/node_exporter/eolcheck.prom", c.Output.MetricsFile)
	assert.Equal(t, "acme", c.GitHub.Owner)
	assert.Equal(t, "platform", c.GitHub.Repo)
	assert.True(t, c.IsToolIgnored("internal tool"))
	assert.True(t, c.IsToolIgnored("Internal.Tool"))
	assert.False(t, c.IsToolIgnored("python"))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "error parsing config file")
}

func TestFindAndLoadConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("github:\n  repo: found\n"), 0644))

	c, err := FindAndLoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, "found", c.GitHub.Repo)
}

func TestGitHubToken(t *testing.T) {
	t.Setenv("EOLCHECK_TEST_TOKEN", "s3cret")
	c := DefaultConfig()
	c.GitHub.TokenEnv = "EOLCHECK_TEST_TOKEN"
	assert.Equal(t, "s3cret", c.GitHubToken())
}

func TestIsToolIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnoreTools = []string{"Node.js", "internal tool"}

	assert.True(t, cfg.IsToolIgnored("nodejs"))
	assert.True(t, cfg.IsToolIgnored("Node.JS"))
	assert.True(t, cfg.IsToolIgnored("InternalTool"))
	assert.False(t, cfg.IsToolIgnored("Python"))
}

func TestWantsFormat(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.WantsFormat("html"))
	assert.True(t, cfg.WantsFormat("json"))
	assert.False(t, cfg.WantsFormat("sarif"))
}
