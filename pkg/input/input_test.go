package input

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestLoader_LoadTools(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "data/input/tools.json", `[
		{"name": "Python", "version": "3.8", "owner": "data", "env": "prod"},
		{"tool_name": "Node.js", "current_version": "18"},
		{"name": "Java", "version": 17},
		{"name": "Go", "version": 1.2, "tool_name": "golang"},
		{"owner": "nobody"},
		null
	]`)

	tools, err := NewLoader(fs).LoadTools("data/input/tools.json")
	require.NoError(t, err)
	require.Len(t, tools, 5)

	assert.Equal(t, "Python", tools[0].Name)
	assert.Equal(t, "3.8", tools[0].Version)
	require.NotNil(t, tools[0].Extra)
	assert.Equal(t, []string{"name", "version", "owner", "env"}, tools[0].Extra.Keys())

	assert.Equal(t, "Node.js", tools[1].Name)
	assert.Equal(t, "18", tools[1].Version)
	assert.Nil(t, tools[1].Extra)

	// numbers are stringified as written
	assert.Equal(t, "17", tools[2].Version)
	assert.Equal(t, "1.2", tools[3].Version)
	assert.Equal(t, "Go", tools[3].Name)
	require.NotNil(t, tools[3].Extra)
	assert.Equal(t, []string{"name", "version"}, tools[3].Extra.Keys(), "tool_name is a result field")
	v, _ := tools[3].Extra.Get("version")
	assert.Equal(t, 1.2, v, "extras keep the raw JSON value")

	assert.Equal(t, "Unknown", tools[4].Name)
	assert.Equal(t, "Unknown", tools[4].Version)
}

func TestLoader_LoadTools_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "tools.yaml", "- name: python")
	writeFile(t, fs, "broken.json", `{"name": "python"}`)
	writeFile(t, fs, "strings.json", `["python"]`)

	_, err := NewLoader(fs).LoadTools("missing.json")
	assert.True(t, xerrors.Is(err, ErrNotFound))

	_, err = NewLoader(fs).LoadTools("tools.yaml")
	assert.True(t, xerrors.Is(err, ErrUnsupported))

	_, err = NewLoader(fs).LoadTools("broken.json")
	assert.ErrorContains(t, err, "invalid tool list")

	_, err = NewLoader(fs).LoadTools("strings.json")
	assert.Error(t, err)
}

func TestLoader_LoadTools_EmptyList(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "empty.json", `[]`)

	tools, err := NewLoader(fs).LoadTools("empty.json")
	require.NoError(t, err)
	assert.Empty(t, tools)
}
