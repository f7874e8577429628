package analyzer

import (
	"context"
	"time"

	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/eol"
	"github.com/sambabib/eol-checker/pkg/logger"
)

// Fetcher returns the raw EOL document for a tool name.
// *eol.Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, tool string) ([]byte, error)
}

// ProgressFunc is called after each tool is checked.
type ProgressFunc func(done, total int, result CheckResult)

// Checker runs EOL checks over a tool inventory, one tool at a time.
type Checker struct {
	fetcher  Fetcher
	resolver eol.Resolver
	now      func() time.Time
	progress ProgressFunc
}

type CheckerOption func(*Checker)

// WithClock pins the time used for EOL arithmetic and last_checked.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) {
		c.now = now
		c.resolver.Now = now
	}
}

func WithProgress(fn ProgressFunc) CheckerOption {
	return func(c *Checker) {
		c.progress = fn
	}
}

// NewChecker creates a Checker that reads EOL data through f.
func NewChecker(f Fetcher, opts ...CheckerOption) *Checker {
	c := &Checker{
		fetcher: f,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAll checks every tool in order. A failed lookup degrades that tool to
// Unknown and never stops the batch; the output has one result per input,
// in input order.
func (c *Checker) CheckAll(ctx context.Context, tools []ToolSpec) []CheckResult {
	results := make([]CheckResult, 0, len(tools))
	for i, tool := range tools {
		logger.Debugf("Checking EOL for %s %s (%d/%d)", tool.Name, tool.Version, i+1, len(tools))
		r := c.Check(ctx, tool)
		results = append(results, r)
		if c.progress != nil {
			c.progress(i+1, len(tools), r)
		}
	}
	return results
}

// Check resolves and classifies a single tool.
func (c *Checker) Check(ctx context.Context, tool ToolSpec) CheckResult {
	info := c.lookup(ctx, tool)
	criticality := ClassifyInfo(info, tool.Version)
	return NewCheckResult(tool, info, criticality, c.now().Format(LastCheckedLayout))
}

func (c *Checker) lookup(ctx context.Context, tool ToolSpec) eol.Info {
	body, err := c.fetcher.Fetch(ctx, tool.Name)
	if err != nil {
		var statusErr *eol.StatusError
		if xerrors.As(err, &statusErr) {
			logger.Warnf("API not found for %s: %s", tool.Name, statusErr.URL)
			return unknownInfo(eol.APINotAvailable)
		}
		logger.Warnf("Failed to fetch EOL data for %s: %v", tool.Name, err)
		return unknownInfo(eol.CheckFailed)
	}

	cycles, err := eol.ParseDataset(body)
	if err != nil {
		if !eol.IsMalformed(err) {
			logger.Warnf("Failed to read EOL data for %s: %v", tool.Name, err)
			return unknownInfo(eol.CheckFailed)
		}
		// Resolve reports an empty dataset as "No data available".
		logger.Debugf("EOL: unexpected document shape for %s: %v", tool.Name, err)
		cycles = nil
	}

	return c.resolver.Resolve(cycles, tool.Version, tool.Name)
}

func unknownInfo(reason string) eol.Info {
	return eol.Info{Status: eol.StatusUnknown, EOLDate: reason, LatestVersion: eol.UnknownLatestVersion}
}
