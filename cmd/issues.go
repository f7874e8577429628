package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	githubql "github.com/shurcooL/githubv4"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/config"
	"github.com/sambabib/eol-checker/pkg/issues"
	"github.com/sambabib/eol-checker/pkg/logger"
	"github.com/sambabib/eol-checker/pkg/output"
)

type issuesOptions struct {
	report string
	dryRun bool
}

var issuesOpts issuesOptions

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Open, update and close GitHub issues from the latest EOL report",
	Long: `Issues reads the newest JSON report (or --report), closes alert issues whose tool
was upgraded or is no longer at risk, updates alerts whose status changed, and opens an
"EOL Alert" issue for every critical or warning tool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyIssuesFlags(cmd, cfg)

		tracker, err := newGitHubTracker(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return runIssues(cmd.Context(), cfg, issuesOpts, afero.NewOsFs(), tracker, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(issuesCmd)
	issuesCmd.Flags().StringVar(&issuesOpts.report, "report", "", "JSON report to process (default: newest report in the output directory)")
	issuesCmd.Flags().StringP("output-dir", "d", "", "Directory searched for the newest JSON report")
	issuesCmd.Flags().String("owner", "", "Repository owner (default from config or GITHUB_REPOSITORY)")
	issuesCmd.Flags().String("repo", "", "Repository name (default from config or GITHUB_REPOSITORY)")
	issuesCmd.Flags().BoolVar(&issuesOpts.dryRun, "dry-run", false, "Log intended changes without modifying issues")
}

func applyIssuesFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("owner") {
		cfg.GitHub.Owner, _ = flags.GetString("owner")
	}
	if flags.Changed("repo") {
		cfg.GitHub.Repo, _ = flags.GetString("repo")
	}
	// GitHub Actions exposes the current repository as owner/name.
	if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		if owner, repo, ok := strings.Cut(os.Getenv("GITHUB_REPOSITORY"), "/"); ok {
			if cfg.GitHub.Owner == "" {
				cfg.GitHub.Owner = owner
			}
			if cfg.GitHub.Repo == "" {
				cfg.GitHub.Repo = repo
			}
		}
	}
}

func newGitHubTracker(ctx context.Context, cfg *config.Config) (*issues.GitHubTracker, error) {
	if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		return nil, xerrors.New("repository owner and name are required (--owner/--repo or github.owner/github.repo)")
	}
	token := cfg.GitHubToken()
	if token == "" {
		return nil, xerrors.Errorf("%s is not set", cfg.GitHub.TokenEnv)
	}

	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(ctx, src)

	var client *githubql.Client
	if cfg.GitHub.URL != "" {
		client = githubql.NewEnterpriseClient(cfg.GitHub.URL, httpClient)
	} else {
		client = githubql.NewClient(httpClient)
	}
	return issues.NewGitHubTracker(client, cfg.GitHub.Owner, cfg.GitHub.Repo), nil
}

func runIssues(ctx context.Context, cfg *config.Config, opts issuesOptions, fs afero.Fs, tracker issues.Tracker, out io.Writer) error {
	path := opts.report
	if path == "" {
		latest, err := output.LatestReport(fs, cfg.Output.Dir)
		if err != nil {
			return err
		}
		path = latest
	}
	fmt.Fprintf(out, "Processing report: %s\n", path)

	report, err := output.ReadJSONReport(fs, path)
	if err != nil {
		return err
	}
	logger.Debugf("Report generated on %s with %d tools", report.GeneratedOn, len(report.Tools))

	counts, err := issues.NewSyncer(tracker, issues.WithDryRun(opts.dryRun)).Sync(ctx, report.Tools)
	if err != nil {
		return xerrors.Errorf("issue sync failed: %w", err)
	}

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "Closed issues: %d\n", counts.Closed)
	fmt.Fprintf(out, "Updated issues: %d\n", counts.Updated)
	fmt.Fprintf(out, "Created issues: %d\n", counts.Created)
	fmt.Fprintf(out, "Reopened issues: %d\n", counts.Reopened)
	fmt.Fprintf(out, "Already open: %d\n", counts.Skipped)
	return nil
}
