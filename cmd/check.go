package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pyupgradecheck/pkg/checker"
	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	"github.com/ajxudir/pyupgradecheck/pkg/config"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/environment"
	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/filtering"
	"github.com/ajxudir/pyupgradecheck/pkg/metrics"
	"github.com/ajxudir/pyupgradecheck/pkg/output"
	"github.com/ajxudir/pyupgradecheck/pkg/pypi"
	"github.com/ajxudir/pyupgradecheck/pkg/requirements"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
	"github.com/ajxudir/pyupgradecheck/pkg/warnings"
)

var (
	checkPackagesFlag     []string
	checkRequirementsFlag []string
	checkStrictFlag       bool
	checkOutputFlag       string
	checkJSONFlag         bool
	checkSitePackagesFlag []string
	checkPythonFlag       string
	checkFailOnFlag       []string
	checkIgnoreFlag       []string
	checkConcurrencyFlag  int
	checkTimeoutFlag      int
	checkRegistryFlag     string
	checkOfflineFlag      bool
	checkMetricsFileFlag  string
)

// discoverFunc locates site-packages through an interpreter; swapped in tests.
var discoverFunc = environment.DiscoverSitePackages

var checkCmd = &cobra.Command{
	Use:   "check [target]",
	Short: "Check packages against a target Python version",
	Long: `Check packages against a target Python version such as 3.13.

The package set is, in order of preference:
  - the names given with --packages and the packages in --requirements files
  - every distribution installed in --site-packages (or the interpreter's)

Each package is judged by its requires_python specifier, falling back to
trove classifiers. With --strict both must agree for a "supported" verdict.`,
	Example: `  pyupgradecheck check 3.13
  pyupgradecheck check 3.12 -p requests -p numpy
  pyupgradecheck check 3.13 -r requirements.txt --strict -o json
  pyupgradecheck check 3.13 --site-packages .venv/lib/python3.12/site-packages --fail-on incompatible`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringSliceVarP(&checkPackagesFlag, "packages", "p", nil, "Packages to check (repeatable or comma-separated)")
	f.StringArrayVarP(&checkRequirementsFlag, "requirements", "r", nil, "Requirements file to read packages from (repeatable)")
	f.BoolVar(&checkStrictFlag, "strict", false, "Require both requires_python and a matching classifier")
	f.StringVarP(&checkOutputFlag, "output", "o", "", "Output format: "+output.FormatNames())
	f.BoolVar(&checkJSONFlag, "json", false, "Shorthand for --output json")
	f.StringSliceVar(&checkSitePackagesFlag, "site-packages", nil, "Site-packages directory to scan (repeatable)")
	f.StringVar(&checkPythonFlag, "python", "", "Interpreter used to locate site-packages (default python3)")
	f.StringSliceVar(&checkFailOnFlag, "fail-on", nil, "Exit 1 when a verdict has one of these statuses: supported, incompatible, unknown")
	f.StringSliceVar(&checkIgnoreFlag, "ignore", nil, "Packages to leave out of the report (name, glob, or ~regex)")
	f.IntVar(&checkConcurrencyFlag, "concurrency", 0, "Parallel registry lookups (default 8)")
	f.IntVar(&checkTimeoutFlag, "timeout", 0, "Per-request registry timeout in seconds (default 5)")
	f.StringVar(&checkRegistryFlag, "registry", "", "Registry base URL (default https://pypi.org)")
	f.BoolVar(&checkOfflineFlag, "offline", false, "Use installed metadata only, no registry lookups")
	f.StringVar(&checkMetricsFileFlag, "metrics-file", "", "Write Prometheus textfile metrics to this path")
}

// checkSettings is the effective configuration of one check run.
type checkSettings struct {
	target       compat.Target
	strict       bool
	format       output.Format
	failOn       []compat.Status
	failOnNames  []string
	concurrency  int
	timeout      time.Duration
	registry     string
	userAgent    string
	python       string
	sitePackages []string
	ignore       *filtering.Filter
	metricsFile  string
}

// runCheck executes the check command.
//
// Settings are resolved before any output so that a bad target, format, or
// --fail-on value exits with code 3 and prints nothing on stdout.
//
// Returns:
//   - error: ExitError for setup failures, VerdictFailureError when --fail-on matched
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	settings, err := resolveCheckSettings(cmd, args, cfg)
	if err != nil {
		return err
	}

	collector := warnings.NewCollector()
	restore := warnings.SetWarningWriter(collector)
	defer restore()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	pkgs, err := resolvePackages(ctx, settings)
	if err != nil {
		return err
	}
	pkgs = checker.Without(pkgs, settings.ignore)
	verbose.Infof("Checking %d packages against Python %s (strict=%v)", len(pkgs), settings.target, settings.strict)

	var source checker.MetadataSource
	if !checkOfflineFlag {
		source = pypi.NewClient(settings.registry, settings.timeout, settings.userAgent)
	}

	var recorder *metrics.PrometheusRecorder
	opts := checker.Options{
		Target:      settings.target,
		Strict:      settings.strict,
		Concurrency: settings.concurrency,
	}
	if settings.metricsFile != "" {
		recorder = metrics.NewPrometheusRecorder()
		opts.Recorder = recorder
	}

	structured := output.IsStructuredFormat(settings.format)
	progress := output.NewProgress(cmd.ErrOrStderr(), len(pkgs), "Checking packages")
	progress.SetEnabled(!structured && !verbose.IsEnabled())
	opts.OnResult = func(compat.Result) { progress.Increment() }

	report, err := checker.New(source, opts).Check(ctx, pkgs)
	progress.Clear()
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("check aborted: %w", err))
	}

	// Structured output carries warnings in the document; text goes to stderr.
	var docWarnings []string
	if structured {
		docWarnings = collector.Messages()
	}
	doc := output.NewCheckResult(settings.target, settings.strict, report.Results, docWarnings, report.Errors)
	if len(pkgs) == 0 && !structured {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No packages to check")
	}
	if err := output.WriteCheckResult(cmd.OutOrStdout(), settings.format, doc); err != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("failed to write output: %w", err))
	}
	if !structured {
		printWarnings(cmd.ErrOrStderr(), collector.Messages())
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(settings.metricsFile); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s failed to write metrics file %s: %v\n", constants.IconWarn, settings.metricsFile, err)
		}
	}

	if failing := checker.FailingPackages(report.Results, settings.failOn); len(failing) > 0 {
		verbose.Infof("Exit code %d: %d packages matched --fail-on", errors.ExitVerdictFailure, len(failing))
		return &errors.VerdictFailureError{Statuses: settings.failOnNames, Packages: failing}
	}
	return nil
}

// resolveCheckSettings merges flags over config.
//
// Returns:
//   - checkSettings: the effective settings
//   - error: ExitError with ExitConfigError for any invalid value
func resolveCheckSettings(cmd *cobra.Command, args []string, cfg *config.Config) (checkSettings, error) {
	flags := cmd.Flags()
	s := checkSettings{
		strict:       cfg.IsStrict(),
		concurrency:  cfg.GetConcurrency(),
		timeout:      cfg.GetTimeout(),
		registry:     registryURL(cfg),
		userAgent:    cfg.Registry.UserAgent,
		python:       cfg.Python,
		sitePackages: cfg.SitePackages,
		metricsFile:  cfg.MetricsFile,
	}

	ignore, err := filtering.NewFilter(append(append([]string{}, cfg.Ignore...), checkIgnoreFlag...))
	if err != nil {
		return s, errors.NewExitError(errors.ExitConfigError, fmt.Errorf("invalid --ignore: %w", err))
	}
	s.ignore = ignore

	targetText := cfg.Target
	if len(args) > 0 {
		targetText = args[0]
	}
	if targetText == "" {
		return s, errors.NewExitErrorf(errors.ExitConfigError, "target python version is required (e.g. pyupgradecheck check 3.13)")
	}
	target, err := compat.ParseTarget(targetText)
	if err != nil {
		return s, errors.NewExitError(errors.ExitConfigError, err)
	}
	s.target = target

	formatText := cfg.GetOutput()
	if checkJSONFlag {
		formatText = string(output.FormatJSON)
	}
	if flags.Changed("output") {
		formatText = checkOutputFlag
	}
	if s.format, err = output.ParseFormat(formatText); err != nil {
		return s, errors.NewExitError(errors.ExitConfigError, err)
	}

	s.failOnNames = cfg.FailOn
	if flags.Changed("fail-on") {
		s.failOnNames = checkFailOnFlag
	}
	for _, name := range s.failOnNames {
		status, ok := compat.ParseStatus(name)
		if !ok {
			return s, errors.NewExitErrorf(errors.ExitConfigError,
				"invalid --fail-on status %q (valid: supported, incompatible, unknown)", name)
		}
		s.failOn = append(s.failOn, status)
	}

	if flags.Changed("strict") {
		s.strict = checkStrictFlag
	}
	if checkConcurrencyFlag > 0 {
		s.concurrency = checkConcurrencyFlag
	}
	if checkTimeoutFlag > 0 {
		s.timeout = time.Duration(checkTimeoutFlag) * time.Second
	}
	if checkRegistryFlag != "" {
		s.registry = checkRegistryFlag
	}
	if checkPythonFlag != "" {
		s.python = checkPythonFlag
	}
	if len(checkSitePackagesFlag) > 0 {
		s.sitePackages = checkSitePackagesFlag
	}
	if checkMetricsFileFlag != "" {
		s.metricsFile = checkMetricsFileFlag
	}
	return s, nil
}

// resolvePackages builds the package set for a run.
//
// Explicit names and requirements files take precedence; otherwise every
// installed distribution is checked. Installed metadata is attached where
// available. For explicit names an unreadable environment is not fatal.
func resolvePackages(ctx context.Context, s checkSettings) ([]checker.Package, error) {
	names := append([]string{}, checkPackagesFlag...)
	for _, path := range checkRequirementsFlag {
		parsed, err := requirements.ParseFile(path)
		if err != nil {
			return nil, errors.NewExitError(errors.ExitFailure, err)
		}
		verbose.Printf("Read %d packages from %s\n", len(parsed), path)
		names = append(names, parsed...)
	}
	explicit := len(checkPackagesFlag) > 0 || len(checkRequirementsFlag) > 0

	dists, err := installedDistributions(ctx, s)
	if err != nil {
		if !explicit {
			return nil, errors.NewExitError(errors.ExitFailure, err)
		}
		verbose.Printf("Installed metadata unavailable: %v\n", err)
	}

	if explicit {
		return checker.FromNames(names, environment.NewIndex(dists)), nil
	}
	return checker.FromInstalled(dists), nil
}

// installedDistributions scans the configured site-packages, discovering
// them through the interpreter when none are configured.
func installedDistributions(ctx context.Context, s checkSettings) ([]environment.Distribution, error) {
	dirs := s.sitePackages
	if len(dirs) == 0 {
		discovered, err := discoverFunc(ctx, s.python)
		if err != nil {
			return nil, err
		}
		dirs = discovered
	}
	return environment.ScanAll(dirs)
}

func registryURL(cfg *config.Config) string {
	if cfg.Registry.URL != "" {
		return cfg.Registry.URL
	}
	return pypi.DefaultBaseURL
}

func printWarnings(w io.Writer, messages []string) {
	for _, msg := range messages {
		_, _ = fmt.Fprintln(w, msg)
	}
}
