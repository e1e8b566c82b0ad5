// Package checker resolves a package set, gathers metadata for each package
// and evaluates it against a target Python version.
//
// Metadata lookups run in parallel with a bounded worker count. A failed
// lookup degrades only that package to an unknown verdict.
package checker

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ajxudir/pyupgradecheck/pkg/classifiers"
	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/environment"
	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/filtering"
	"github.com/ajxudir/pyupgradecheck/pkg/metrics"
	"github.com/ajxudir/pyupgradecheck/pkg/pypi"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
	"github.com/ajxudir/pyupgradecheck/pkg/warnings"
)

// DefaultConcurrency is the number of parallel metadata lookups.
const DefaultConcurrency = 8

// MetadataSource provides registry metadata. *pypi.Client implements it.
type MetadataSource interface {
	Fetch(ctx context.Context, name string) (compat.Metadata, error)
	FetchRelease(ctx context.Context, name, version string) (compat.Metadata, error)
}

// Package is one entry of the package set to check.
type Package struct {
	Name string

	// InstalledVersion is empty when the package is not installed.
	InstalledVersion string

	// Local is the installed metadata, used when the registry lacks a field.
	Local *compat.Metadata
}

// Options configures a Checker.
type Options struct {
	Target      compat.Target
	Strict      bool
	Concurrency int

	// Recorder receives fetch and verdict metrics; nil disables them.
	Recorder metrics.Recorder

	// OnResult, when set, is called from worker goroutines after each
	// package is evaluated. It must be safe for concurrent use.
	OnResult func(compat.Result)
}

// Report is the outcome of a run.
type Report struct {
	// Results are in the order of the input package set.
	Results []compat.Result

	// Errors holds a *errors.MetadataError for every failed registry lookup.
	Errors []error
}

// Checker evaluates package sets.
type Checker struct {
	source MetadataSource
	opts   Options
}

// New creates a Checker. A nil source skips registry lookups entirely.
func New(source MetadataSource, opts Options) *Checker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Recorder == nil {
		opts.Recorder = &metrics.NoopRecorder{}
	}
	return &Checker{source: source, opts: opts}
}

// outcome is the per-package work product.
type outcome struct {
	result compat.Result
	err    error
}

// Check evaluates every package.
//
// Parameters:
//   - ctx: Context for cancellation; cancellation aborts the run
//   - pkgs: Package set in output order
//
// Returns:
//   - Report: One result per package, in input order
//   - error: Only ctx.Err() when the run was cancelled
func (c *Checker) Check(ctx context.Context, pkgs []Package) (Report, error) {
	start := time.Now()
	outcomes := make([]outcome, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for i, pkg := range pkgs {
		i, pkg := i, pkg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = c.checkOne(gctx, pkg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := Report{Results: make([]compat.Result, len(outcomes))}
	for i, o := range outcomes {
		report.Results[i] = o.result
		if o.err != nil {
			report.Errors = append(report.Errors, o.err)
		}
	}

	c.opts.Recorder.RecordRun(c.opts.Target.String(), time.Since(start))
	return report, nil
}

func (c *Checker) checkOne(ctx context.Context, pkg Package) outcome {
	md, fetchErr := c.gather(ctx, pkg)

	result := compat.Evaluate(pkg.Name, md, c.opts.Target, c.opts.Strict)
	if fetchErr != nil && result.Evidence.Source == constants.SourceNone {
		ev := result.Evidence
		ev.Detail += " (" + fetchErr.Error() + ")"
		result = compat.Result{Name: result.Name, Version: result.Version, Status: result.Status, Evidence: ev}
	}

	c.opts.Recorder.RecordVerdict(result.Status.String(), result.Evidence.Source)
	verbose.VerdictReached(pkg.Name, result.Status.String(), result.Evidence.Detail)
	if c.opts.OnResult != nil {
		c.opts.OnResult(result)
	}

	return outcome{result: result, err: fetchErr}
}

// gather merges registry metadata with installed metadata. Registry fields
// win; installed fields fill gaps. The display version is the installed one
// when known.
func (c *Checker) gather(ctx context.Context, pkg Package) (compat.Metadata, error) {
	var local compat.Metadata
	if pkg.Local != nil {
		local = *pkg.Local
	}

	if c.source == nil {
		c.logMetadata(pkg.Name, local)
		return withVersion(local, pkg.InstalledVersion), nil
	}

	remote, err := c.fetch(ctx, pkg)
	if err != nil {
		if pypi.IsNotFound(err) {
			verbose.Printf("'%s' not found on registry\n", pkg.Name)
			c.logMetadata(pkg.Name, local)
			return withVersion(local, pkg.InstalledVersion), nil
		}
		metaErr := &errors.MetadataError{Package: pkg.Name, Origin: constants.OriginPyPI, Err: err}
		warnings.Warnf("%s %v\n", constants.IconWarn, metaErr)
		c.logMetadata(pkg.Name, local)
		return withVersion(local, pkg.InstalledVersion), metaErr
	}

	merged := remote.Merge(local)
	c.logMetadata(pkg.Name, merged)
	return withVersion(merged, pkg.InstalledVersion), nil
}

// fetch judges an installed package by the release actually installed,
// falling back to the latest release when that release is unknown to the
// registry (local builds, yanked files).
func (c *Checker) fetch(ctx context.Context, pkg Package) (compat.Metadata, error) {
	start := time.Now()
	var (
		md  compat.Metadata
		err error
	)
	if pkg.InstalledVersion != "" {
		md, err = c.source.FetchRelease(ctx, pkg.Name, pkg.InstalledVersion)
		if pypi.IsNotFound(err) {
			verbose.Printf("Release %s of '%s' not on registry, using latest\n", pkg.InstalledVersion, pkg.Name)
			md, err = c.source.Fetch(ctx, pkg.Name)
		}
	} else {
		md, err = c.source.Fetch(ctx, pkg.Name)
	}
	c.opts.Recorder.RecordFetch(constants.OriginPyPI, err, time.Since(start))
	return md, err
}

func (c *Checker) logMetadata(name string, md compat.Metadata) {
	if !verbose.IsEnabled() {
		return
	}
	origin := md.Origin
	if origin == "" {
		origin = constants.SourceNone
	}
	verbose.MetadataFetched(name, origin, md.SpecifierText(), classifiers.Parse(md.Classifiers).Versions())
}

func withVersion(md compat.Metadata, installed string) compat.Metadata {
	if installed != "" {
		md.Version = installed
	}
	return md
}

// FromInstalled turns installed distributions into a package set sorted by name.
func FromInstalled(dists []environment.Distribution) []Package {
	pkgs := make([]Package, 0, len(dists))
	for _, d := range dists {
		local := d.Metadata()
		pkgs = append(pkgs, Package{Name: d.Name, InstalledVersion: d.Version, Local: &local})
	}
	sort.SliceStable(pkgs, func(i, j int) bool {
		return environment.NormalizeName(pkgs[i].Name) < environment.NormalizeName(pkgs[j].Name)
	})
	return pkgs
}

// FromNames builds a package set from explicit names, keeping their order.
// Names found in idx carry the installed version and metadata. idx may be nil.
func FromNames(names []string, idx environment.Index) []Package {
	pkgs := make([]Package, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := environment.NormalizeName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		pkg := Package{Name: name}
		if d, ok := idx.Lookup(name); ok {
			local := d.Metadata()
			pkg.InstalledVersion = d.Version
			pkg.Local = &local
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}

// Without removes packages matched by ignore. A nil filter keeps everything.
func Without(pkgs []Package, ignore *filtering.Filter) []Package {
	if ignore.Empty() {
		return pkgs
	}
	out := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		if ignore.Match(p.Name) {
			verbose.Printf("Ignoring '%s'\n", p.Name)
			continue
		}
		out = append(out, p)
	}
	return out
}

// FailingPackages returns the names whose status is in failOn.
func FailingPackages(results []compat.Result, failOn []compat.Status) []string {
	var names []string
	for _, r := range results {
		for _, s := range failOn {
			if r.Status == s {
				names = append(names, r.Name)
				break
			}
		}
	}
	return names
}
