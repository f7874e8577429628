package output

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/logger"
)

// DefaultReportName is the base file name used when none is given.
func DefaultReportName(now time.Time) string {
	return "eol_report_" + now.Format("20060102_150405")
}

// Writer saves rendered reports under one directory.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter prepares dir. If it cannot be created, reports go to the current directory.
func NewWriter(fs afero.Fs, dir string) Writer {
	if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Warnf("Unable to create output directory %s, using current directory: %v", dir, err)
		dir = "."
	}
	return Writer{fs: fs, dir: dir}
}

func (w Writer) Dir() string {
	return w.dir
}

// Save writes data to <dir>/<name>.<ext> and returns the path.
func (w Writer) Save(name, ext string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name+"."+ext)
	if err := afero.WriteFile(w.fs, path, data, 0644); err != nil {
		return "", xerrors.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// LatestReport returns the most recently modified .json file in dir.
func LatestReport(fs afero.Fs, dir string) (string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", xerrors.Errorf("reports directory not found: %w", err)
	}

	var reports []os.FileInfo
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			reports = append(reports, e)
		}
	}
	if len(reports) == 0 {
		return "", xerrors.Errorf("no JSON reports found in %s", dir)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ModTime().After(reports[j].ModTime())
	})
	return filepath.Join(dir, reports[0].Name()), nil
}
