package config

import (
	"time"
)

// Config is the top-level configuration for pyupgradecheck.
//
// Every field is optional. Zero values fall back to the built-in defaults,
// and command-line flags override whatever the file sets.
type Config struct {
	Extends      []string     `yaml:"extends,omitempty"`
	Target       string       `yaml:"target,omitempty"`
	Strict       *bool        `yaml:"strict,omitempty"`
	Registry     RegistryCfg  `yaml:"registry,omitempty"`
	SitePackages []string     `yaml:"site_packages,omitempty"`
	Python       string       `yaml:"python,omitempty"`
	Ignore       []string     `yaml:"ignore,omitempty"`
	Output       string       `yaml:"output,omitempty"`
	FailOn       []string     `yaml:"fail_on,omitempty"`
	MetricsFile  string       `yaml:"metrics_file,omitempty"`
	Security     *SecurityCfg `yaml:"security,omitempty"`

	// isRootConfig is set only for the file named on the command line or
	// found in the working directory, never for files pulled in by extends.
	isRootConfig bool `yaml:"-"`
}

// RegistryCfg configures the package index client.
type RegistryCfg struct {
	URL            string `yaml:"url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
	Concurrency    int    `yaml:"concurrency,omitempty"`
	UserAgent      string `yaml:"user_agent,omitempty"`
}

// SecurityCfg holds limits that only the root config may relax.
type SecurityCfg struct {
	// AllowPathTraversal permits ".." in extends paths.
	AllowPathTraversal bool `yaml:"allow_path_traversal,omitempty"`

	// AllowAbsolutePaths permits absolute extends paths.
	AllowAbsolutePaths bool `yaml:"allow_absolute_paths,omitempty"`

	// MaxConfigFileSize is the maximum config file size in bytes.
	MaxConfigFileSize int64 `yaml:"max_config_file_size,omitempty"`
}

// DefaultMaxConfigFileSize is the default maximum config file size (1MB).
const DefaultMaxConfigFileSize int64 = 1 * 1024 * 1024

// Defaults applied when neither the file nor the flags set a value.
const (
	DefaultConcurrency    = 8
	DefaultTimeoutSeconds = 5
	DefaultOutput         = "text"
)

// IsRootConfig reports whether this is the root configuration.
func (c *Config) IsRootConfig() bool {
	return c.isRootConfig
}

// SetRootConfig marks this config as the root config.
func (c *Config) SetRootConfig(isRoot bool) {
	c.isRootConfig = isRoot
}

// GetMaxConfigFileSize returns the configured size limit for extended files.
//
// Returns:
//   - int64: the limit in bytes, DefaultMaxConfigFileSize when unset
func (c *Config) GetMaxConfigFileSize() int64 {
	if c.Security != nil && c.Security.MaxConfigFileSize > 0 {
		return c.Security.MaxConfigFileSize
	}
	return DefaultMaxConfigFileSize
}

// AllowsPathTraversal reports whether extends may use "..".
func (c *Config) AllowsPathTraversal() bool {
	return c.Security != nil && c.Security.AllowPathTraversal
}

// AllowsAbsolutePaths reports whether extends may use absolute paths.
func (c *Config) AllowsAbsolutePaths() bool {
	return c.Security != nil && c.Security.AllowAbsolutePaths
}

// IsStrict reports whether strict mode is enabled by the config.
func (c *Config) IsStrict() bool {
	return c.Strict != nil && *c.Strict
}

// GetConcurrency returns the registry fetch concurrency.
//
// Returns:
//   - int: registry.concurrency when positive, otherwise DefaultConcurrency
func (c *Config) GetConcurrency() int {
	if c.Registry.Concurrency > 0 {
		return c.Registry.Concurrency
	}
	return DefaultConcurrency
}

// GetTimeout returns the per-request registry timeout.
//
// Returns:
//   - time.Duration: registry.timeout_seconds when positive, otherwise DefaultTimeoutSeconds
func (c *Config) GetTimeout() time.Duration {
	if c.Registry.TimeoutSeconds > 0 {
		return time.Duration(c.Registry.TimeoutSeconds) * time.Second
	}
	return DefaultTimeoutSeconds * time.Second
}

// GetOutput returns the configured output format name.
func (c *Config) GetOutput() string {
	if c.Output != "" {
		return c.Output
	}
	return DefaultOutput
}
