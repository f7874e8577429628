// Package input loads the tool inventory that drives an EOL check.
package input

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/logger"
)

var (
	ErrNotFound    = xerrors.New("input file does not exist")
	ErrUnsupported = xerrors.New("only JSON files are supported")
)

// Fallback identity keys double as result fields, which the report writes
// itself. "name" and "version" stay in the extras and reach the report as is.
var consumedKeys = []string{"tool_name", "current_version"}

// Loader reads inventories from a filesystem.
type Loader struct {
	fs afero.Fs
}

func NewLoader(fs afero.Fs) Loader {
	return Loader{fs: fs}
}

// LoadTools reads path from the OS filesystem.
func LoadTools(path string) ([]analyzer.ToolSpec, error) {
	return NewLoader(afero.NewOsFs()).LoadTools(path)
}

// LoadTools reads a JSON array of tool objects. "name" falls back to
// "tool_name" and "version" to "current_version"; either defaults to Unknown.
// Every key but tool_name and current_version is kept as an extra field in
// input order.
func (l Loader) LoadTools(path string) ([]analyzer.ToolSpec, error) {
	if _, err := l.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, xerrors.Errorf("unable to stat %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, xerrors.Errorf("%s: %w", path, ErrUnsupported)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, xerrors.Errorf("unable to read %s: %w", path, err)
	}

	var items []*orderedmap.OrderedMap
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, xerrors.Errorf("invalid tool list %s: %w", path, err)
	}

	tools := make([]analyzer.ToolSpec, 0, len(items))
	for i, item := range items {
		if item == nil {
			logger.Debugf("Input: skipping null entry %d", i)
			continue
		}
		tools = append(tools, toToolSpec(item))
	}
	logger.Debugf("Input: loaded %d tools from %s", len(tools), path)
	return tools, nil
}

func toToolSpec(item *orderedmap.OrderedMap) analyzer.ToolSpec {
	tool := analyzer.ToolSpec{
		Name:    firstString(item, "name", "tool_name"),
		Version: firstString(item, "version", "current_version"),
	}

	extra := orderedmap.New()
	for _, k := range item.Keys() {
		if lo.Contains(consumedKeys, k) {
			continue
		}
		v, _ := item.Get(k)
		extra.Set(k, v)
	}
	if len(extra.Keys()) > 0 {
		tool.Extra = extra
	}
	return tool
}

func firstString(item *orderedmap.OrderedMap, keys ...string) string {
	for _, k := range keys {
		if v, ok := item.Get(k); ok && v != nil {
			return analyzer.Stringify(v)
		}
	}
	return "Unknown"
}
