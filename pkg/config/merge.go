package config

import "github.com/ajxudir/pyupgradecheck/pkg/verbose"

// mergeConfigs merges two configurations with custom taking precedence.
//
// Scalars in custom replace those in base when set. List fields are
// unioned with base entries first and duplicates dropped. Security is never
// inherited from base: only the root file may set it.
//
// Parameters:
//   - base: the base configuration
//   - custom: the configuration layered on top of base
//
// Returns:
//   - *Config: the merged configuration
func mergeConfigs(base, custom *Config) *Config {
	if custom == nil {
		return base
	}
	if base == nil {
		base = &Config{}
	}

	merged := &Config{
		Target:       pick(custom.Target, base.Target),
		Strict:       base.Strict,
		Registry:     mergeRegistry(base.Registry, custom.Registry),
		SitePackages: mergeStringLists(base.SitePackages, custom.SitePackages),
		Python:       pick(custom.Python, base.Python),
		Ignore:       mergeStringLists(base.Ignore, custom.Ignore),
		Output:       pick(custom.Output, base.Output),
		MetricsFile:  pick(custom.MetricsFile, base.MetricsFile),
		Security:     custom.Security,
		isRootConfig: custom.isRootConfig,
	}
	if custom.Strict != nil {
		merged.Strict = custom.Strict
	}

	// fail_on replaces rather than unions: a narrower list must be able to
	// relax an inherited one.
	merged.FailOn = base.FailOn
	if len(custom.FailOn) > 0 {
		merged.FailOn = custom.FailOn
	}

	verbose.Printf("Config merge: %d ignored packages, %d site-packages dirs\n",
		len(merged.Ignore), len(merged.SitePackages))
	return merged
}

// mergeRegistry overlays non-zero registry settings from override onto base.
func mergeRegistry(base, override RegistryCfg) RegistryCfg {
	out := base
	if override.URL != "" {
		out.URL = override.URL
	}
	if override.TimeoutSeconds != 0 {
		out.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.Concurrency != 0 {
		out.Concurrency = override.Concurrency
	}
	if override.UserAgent != "" {
		out.UserAgent = override.UserAgent
	}
	return out
}

// mergeStringLists returns base followed by the entries of custom that are
// not already present.
func mergeStringLists(base, custom []string) []string {
	if len(custom) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base)+len(custom))
	out := make([]string, 0, len(base)+len(custom))
	for _, list := range [][]string{base, custom} {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
