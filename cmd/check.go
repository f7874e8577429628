package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/config"
	"github.com/sambabib/eol-checker/pkg/eol"
	"github.com/sambabib/eol-checker/pkg/input"
	"github.com/sambabib/eol-checker/pkg/logger"
	"github.com/sambabib/eol-checker/pkg/metrics"
	"github.com/sambabib/eol-checker/pkg/output"
)

type checkOptions struct {
	input    string
	output   string
	progress bool
}

var checkOpts checkOptions

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the EOL status of every tool in an inventory file",
	Long: `Check reads a JSON array of {"name", "version"} objects, looks each tool up on
endoflife.date and prints a summary. HTML, JSON and SARIF reports are written to the
output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyCheckFlags(cmd, cfg)
		return runCheck(cmd.Context(), cfg, checkOpts, afero.NewOsFs(), cmd.OutOrStdout(), time.Now)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkOpts.input, "input", "i", "", "Input JSON file path")
	checkCmd.Flags().StringVarP(&checkOpts.output, "output", "o", "", "Output file name without extension (default eol_report_<timestamp>)")
	checkCmd.Flags().StringP("output-dir", "d", "", "Output directory (default from config: data/output/reports)")
	checkCmd.Flags().StringSlice("format", nil, "Report formats to write: html, json, sarif")
	checkCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	checkCmd.Flags().BoolVar(&checkOpts.progress, "progress", true, "Show a progress bar while checking (ignored with --verbose)")
	_ = checkCmd.MarkFlagRequired("input")
}

// applyCheckFlags lets explicitly set flags override the config file.
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("format") {
		formats, _ := flags.GetStringSlice("format")
		cfg.Output.Formats = lo.Map(formats, func(f string, _ int) string { return strings.ToLower(strings.TrimSpace(f)) })
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile, _ = flags.GetString("metrics-file")
	}
}

// runCheck performs one check run. Problems with the input file are reported
// on out and end the run without an error.
func runCheck(ctx context.Context, cfg *config.Config, opts checkOptions, fs afero.Fs, out io.Writer, now func() time.Time) error {
	tools, err := input.NewLoader(fs).LoadTools(opts.input)
	switch {
	case xerrors.Is(err, input.ErrNotFound):
		fmt.Fprintf(out, "❌ Input file %s does not exist\n", opts.input)
		return nil
	case xerrors.Is(err, input.ErrUnsupported):
		fmt.Fprintln(out, "❌ Only JSON files are supported")
		return nil
	case err != nil:
		logger.Debugf("Loading tools failed: %v", err)
		fmt.Fprintln(out, "❌ No tools data loaded")
		return nil
	}

	tools = lo.Reject(tools, func(t analyzer.ToolSpec, _ int) bool {
		if cfg.IsToolIgnored(t.Name) {
			logger.Infof("Skipping ignored tool %s", t.Name)
			return true
		}
		return false
	})
	if len(tools) == 0 {
		fmt.Fprintln(out, "❌ No tools data loaded")
		return nil
	}
	fmt.Fprintf(out, "📋 Loaded %d tools\n", len(tools))

	client := eol.NewClient(
		eol.WithBaseURL(cfg.API.BaseURL),
		eol.WithTimeout(cfg.API.Timeout),
		eol.WithUserAgent(cfg.API.UserAgent),
	)
	checkerOpts := []analyzer.CheckerOption{analyzer.WithClock(now)}

	var bar *pb.ProgressBar
	if opts.progress && !logger.IsVerbose() {
		bar = pb.StartNew(len(tools))
		checkerOpts = append(checkerOpts, analyzer.WithProgress(func(done, total int, _ analyzer.CheckResult) {
			bar.Increment()
		}))
	}

	fmt.Fprintln(out, "🔍 Checking EOL status via endoflife.date API...")
	results := analyzer.NewChecker(client, checkerOpts...).CheckAll(ctx, tools)
	if bar != nil {
		bar.Finish()
	}

	output.PrintResults(out, results, logger.IsVerbose())

	ranAt := now()
	name := opts.output
	if name == "" {
		name = output.DefaultReportName(ranAt)
	}
	writeReports(out, output.NewWriter(fs, cfg.Output.Dir), cfg, name, opts.input, results, ranAt)

	output.PrintSummary(out, results)

	if cfg.Output.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile, results, ranAt); err != nil {
			logger.Errorf("%v", err)
		} else {
			logger.Infof("Metrics written to %s", cfg.Output.MetricsFile)
		}
	}
	return nil
}

type reportFormat struct {
	name   string
	label  string
	render func() ([]byte, error)
}

// writeReports saves each configured format. A failed format is reported and skipped.
func writeReports(out io.Writer, w output.Writer, cfg *config.Config, name, inputPath string, results []analyzer.CheckResult, ranAt time.Time) {
	formats := []reportFormat{
		{name: "html", label: "HTML", render: func() ([]byte, error) {
			return output.GenerateHTMLReport(results, ranAt)
		}},
		{name: "json", label: "JSON", render: func() ([]byte, error) {
			return output.GenerateJSONReport(output.NewReport(results, ranAt))
		}},
		{name: "sarif", label: "SARIF", render: func() ([]byte, error) {
			return output.GenerateSarifReport(results, inputPath, Version, ranAt)
		}},
	}

	fmt.Fprintln(out)
	for _, f := range formats {
		if !cfg.WantsFormat(f.name) {
			continue
		}
		data, err := f.render()
		if err == nil {
			var path string
			if path, err = w.Save(name, f.name, data); err == nil {
				fmt.Fprintf(out, "📁 %s report saved to: %s\n", f.label, path)
				continue
			}
		}
		logger.Errorf("%v", err)
		fmt.Fprintf(out, "❌ Failed to save %s report\n", f.label)
	}
}
