package issues

import (
	"context"
	"time"

	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
	"github.com/sambabib/eol-checker/pkg/logger"
)

// Tracker is an issue tracker holding EOL alert issues.
type Tracker interface {
	// ListAlerts returns open and closed issues whose title starts with the alert prefix.
	ListAlerts(ctx context.Context) ([]Issue, error)
	Create(ctx context.Context, title, body string, labels []string) (Issue, error)
	Comment(ctx context.Context, issue Issue, body string) error
	Close(ctx context.Context, issue Issue) error
	Reopen(ctx context.Context, issue Issue) error
	SetLabels(ctx context.Context, issue Issue, add, remove []string) error
}

// Counts tallies the actions taken by one Sync.
type Counts struct {
	Closed   int
	Updated  int
	Created  int
	Reopened int
	Skipped  int
}

type Syncer struct {
	tracker Tracker
	now     func() time.Time
	dryRun  bool
}

type SyncerOption func(*Syncer)

// WithDryRun logs intended actions without calling the tracker's mutating methods.
func WithDryRun(dryRun bool) SyncerOption {
	return func(s *Syncer) {
		s.dryRun = dryRun
	}
}

func WithSyncClock(now func() time.Time) SyncerOption {
	return func(s *Syncer) {
		s.now = now
	}
}

func NewSyncer(tracker Tracker, opts ...SyncerOption) *Syncer {
	s := &Syncer{tracker: tracker, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync first resolves existing open alerts against results, then opens or
// reopens alerts for every high and medium result.
func (s *Syncer) Sync(ctx context.Context, results []analyzer.CheckResult) (Counts, error) {
	var counts Counts

	existing, err := s.tracker.ListAlerts(ctx)
	if err != nil {
		return counts, xerrors.Errorf("failed to list existing issues: %w", err)
	}

	logger.Infof("Checking and managing existing issues...")
	if err := s.manageExisting(ctx, existing, results, &counts); err != nil {
		return counts, err
	}
	logger.Infof("Closed %d resolved issues, updated %d issues", counts.Closed, counts.Updated)

	flagged := lo.Filter(results, func(r analyzer.CheckResult, _ int) bool {
		return r.Criticality == analyzer.CriticalityHigh || r.Criticality == analyzer.CriticalityMedium
	})
	logger.Infof("Found %d critical tools and %d warning tools",
		lo.CountBy(flagged, func(r analyzer.CheckResult) bool { return r.Criticality == analyzer.CriticalityHigh }),
		lo.CountBy(flagged, func(r analyzer.CheckResult) bool { return r.Criticality == analyzer.CriticalityMedium }))

	byTitle := indexByTitle(existing)
	for _, r := range flagged {
		if err := s.ensureAlert(ctx, r, byTitle, &counts); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// indexByTitle keeps one issue per title. An open issue wins over closed
// ones; otherwise the first listed is kept.
func indexByTitle(existing []Issue) map[string]Issue {
	byTitle := make(map[string]Issue, len(existing))
	for _, issue := range existing {
		if prev, ok := byTitle[issue.Title]; ok && (prev.State == StateOpen || issue.State != StateOpen) {
			continue
		}
		byTitle[issue.Title] = issue
	}
	return byTitle
}

func (s *Syncer) manageExisting(ctx context.Context, existing []Issue, results []analyzer.CheckResult, counts *Counts) error {
	current := lo.KeyBy(results, resultKey)

	for i := range existing {
		issue := &existing[i]
		if issue.State != StateOpen {
			continue
		}
		info, ok := ParseTitle(issue.Title)
		if !ok {
			logger.Debugf("Skipping issue #%d with unrecognised title %q", issue.Number, issue.Title)
			continue
		}

		r, found := current[info.key()]
		switch {
		case !found:
			if err := s.close(ctx, issue, info, "Tool version no longer found in current report (likely upgraded or removed)"); err != nil {
				return err
			}
			counts.Closed++
		case shouldClose(r, info):
			if err := s.close(ctx, issue, info, "Status improved from "+string(info.Status)+" to "+string(r.Status)); err != nil {
				return err
			}
			counts.Closed++
		case shouldUpdate(r, *issue, info):
			if err := s.update(ctx, issue, r); err != nil {
				return err
			}
			counts.Updated++
		}
	}
	return nil
}

// shouldClose resolves an alert once the tool is no longer at risk. A move
// from EOL to Supported alone is not enough: an upgrade that is itself near
// its EOL date keeps the alert open and only updates it.
func shouldClose(r analyzer.CheckResult, info TitleInfo) bool {
	if r.Criticality == analyzer.CriticalityLow {
		return true
	}
	return info.Status == eol.StatusEOL && r.Status == eol.StatusSupported &&
		r.Criticality != analyzer.CriticalityHigh && r.Criticality != analyzer.CriticalityMedium
}

func shouldUpdate(r analyzer.CheckResult, issue Issue, info TitleInfo) bool {
	return r.Status != info.Status || !issue.HasLabel(LabelFor(r.Criticality))
}

func (s *Syncer) close(ctx context.Context, issue *Issue, info TitleInfo, resolution string) error {
	if s.dryRun {
		logger.Infof("[dry-run] Would close issue #%d for %s %s: %s", issue.Number, info.ToolName, info.Version, resolution)
		issue.State = StateClosed
		return nil
	}
	if err := s.tracker.Comment(ctx, *issue, resolvedComment(info, resolution, s.now())); err != nil {
		return xerrors.Errorf("failed to comment on issue #%d: %w", issue.Number, err)
	}
	if err := s.tracker.Close(ctx, *issue); err != nil {
		return xerrors.Errorf("failed to close issue #%d: %w", issue.Number, err)
	}
	issue.State = StateClosed
	logger.Infof("Closed issue #%d for %s %s", issue.Number, info.ToolName, info.Version)
	return nil
}

func (s *Syncer) update(ctx context.Context, issue *Issue, r analyzer.CheckResult) error {
	label := LabelFor(r.Criticality)
	remove := lo.Filter(issue.Labels, func(l string, _ int) bool { return isTierLabel(l) && l != label })

	if s.dryRun {
		logger.Infof("[dry-run] Would update issue #%d for %s %s to %s/%s", issue.Number, r.ToolName, r.CurrentVersion, r.Status, label)
		return nil
	}
	if err := s.tracker.Comment(ctx, *issue, updateComment(r, s.now())); err != nil {
		return xerrors.Errorf("failed to comment on issue #%d: %w", issue.Number, err)
	}
	if err := s.tracker.SetLabels(ctx, *issue, []string{label}, remove); err != nil {
		return xerrors.Errorf("failed to relabel issue #%d: %w", issue.Number, err)
	}
	issue.Labels = append(lo.Without(issue.Labels, remove...), label)
	logger.Infof("Updated issue #%d for %s %s", issue.Number, r.ToolName, r.CurrentVersion)
	return nil
}

func (s *Syncer) ensureAlert(ctx context.Context, r analyzer.CheckResult, byTitle map[string]Issue, counts *Counts) error {
	title := Title(r)
	if issue, ok := byTitle[title]; ok {
		if issue.State == StateOpen {
			logger.Infof("Issue already exists for: %s %s (#%d)", r.ToolName, r.CurrentVersion, issue.Number)
			counts.Skipped++
			return nil
		}
		logger.Infof("Reopening closed issue for: %s %s (#%d)", r.ToolName, r.CurrentVersion, issue.Number)
		if !s.dryRun {
			if err := s.tracker.Reopen(ctx, issue); err != nil {
				return xerrors.Errorf("failed to reopen issue #%d: %w", issue.Number, err)
			}
		}
		issue.State = StateOpen
		byTitle[title] = issue
		counts.Reopened++
		return nil
	}

	labels := []string{AlertLabel, LabelFor(r.Criticality)}
	if s.dryRun {
		logger.Infof("[dry-run] Would create issue %q with labels %v", title, labels)
		byTitle[title] = Issue{Title: title, State: StateOpen, Labels: labels}
		counts.Created++
		return nil
	}

	logger.Infof("Creating issue for: %s %s", r.ToolName, r.CurrentVersion)
	issue, err := s.tracker.Create(ctx, title, alertBody(r, s.now()), labels)
	if err != nil {
		return xerrors.Errorf("failed to create issue for %s: %w", r.ToolName, err)
	}
	byTitle[title] = issue
	counts.Created++
	return nil
}
