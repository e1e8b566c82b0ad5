// Package config loads, merges, and validates pyupgradecheck configuration.
// Configuration is YAML, may extend other files (or the built-in defaults),
// and is validated strictly so that typos surface as errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".pyupgradecheck.yml"

// LoadConfig loads configuration from configPath, the working directory, or defaults.
//
// When configPath is set that file must exist. Otherwise FileName in workDir
// is used if present, and the embedded defaults if not. Extends chains are
// resolved relative to the file that declares them.
//
// Parameters:
//   - configPath: explicit config file, or empty
//   - workDir: directory searched for FileName
//
// Returns:
//   - *Config: the loaded and merged configuration
//   - error: read, parse, extends, or validation failure
func LoadConfig(configPath, workDir string) (*Config, error) {
	path := configPath
	if path == "" {
		candidate := filepath.Join(workDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			verbose.Infof("Found local config: %s", candidate)
			path = candidate
		}
	}

	if path == "" {
		verbose.Info("Using built-in default configuration")
		cfg := loadDefaultConfig()
		cfg.SetRootConfig(true)
		return cfg, nil
	}

	loaded, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	loaded.SetRootConfig(true)

	cfg, err := processExtends(loaded, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to process extends: %w", err)
	}

	if result := cfg.Validate(); result.HasErrors() {
		return nil, fmt.Errorf("%s", result.ErrorMessages())
	}

	verbose.ConfigLoaded(path)
	return cfg, nil
}

// readLimited reads path after checking its size against maxSize.
func readLimited(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d bytes)\n\n"+
			"💡 To increase this limit, add to your root config:\n"+
			"   security:\n"+
			"     max_config_file_size: %d  # or larger value in bytes",
			info.Size(), maxSize, info.Size()*2)
	}
	return os.ReadFile(path)
}

// loadConfigFileWithLimit loads and strictly decodes a config file.
//
// Parameters:
//   - path: path to the config file
//   - maxSize: maximum allowed file size in bytes
//
// Returns:
//   - *Config: the decoded configuration
//   - error: size, read, or validation failure
func loadConfigFileWithLimit(path string, maxSize int64) (*Config, error) {
	data, err := readLimited(path, maxSize)
	if err != nil {
		return nil, err
	}

	result := ValidateConfigFile(data)
	if result.HasErrors() {
		return nil, fmt.Errorf("%s", result.ErrorMessages())
	}
	return loadConfigData(data)
}

func loadConfigFile(path string) (*Config, error) {
	return loadConfigFileWithLimit(path, DefaultMaxConfigFileSize)
}

// loadConfigData parses YAML configuration data.
func loadConfigData(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &cfg, nil
}

// LoadConfigFileStrict loads a single config file without resolving extends.
//
// Used by "config --validate" to report problems in exactly the file given.
//
// Parameters:
//   - path: path to the config file
//
// Returns:
//   - *Config: the decoded configuration
//   - error: size, read, unknown-field, or constraint failure
func LoadConfigFileStrict(path string) (*Config, error) {
	return loadConfigFileWithLimit(path, DefaultMaxConfigFileSize)
}

// processExtends resolves cfg's extends chain using cfg's security settings.
func processExtends(cfg *Config, baseDir string) (*Config, error) {
	return processExtendsWithStack(cfg, baseDir, make(map[string]bool), cfg)
}

// validateExtendPath enforces the root config's path policy on an extends entry.
//
// Parameters:
//   - extend: the extends entry
//   - rootCfg: the root configuration holding security settings
//
// Returns:
//   - error: non-nil if the path is not allowed
func validateExtendPath(extend string, rootCfg *Config) error {
	if strings.Contains(extend, "..") && !rootCfg.AllowsPathTraversal() {
		return fmt.Errorf("path traversal not allowed in extends: '%s' - "+
			"to allow, add security.allow_path_traversal: true to your root config",
			extend)
	}
	if filepath.IsAbs(extend) && !rootCfg.AllowsAbsolutePaths() {
		return fmt.Errorf("absolute paths not allowed in extends: '%s' - "+
			"to allow, add security.allow_absolute_paths: true to your root config",
			extend)
	}
	return nil
}

// processExtendsWithStack merges each extended config in order, then cfg on top.
//
// The entry "default" refers to the embedded defaults. stack holds the
// files currently being resolved and is used to detect cycles.
//
// Parameters:
//   - cfg: the configuration whose extends are resolved
//   - baseDir: directory relative extends are resolved against
//   - stack: files on the current resolution path
//   - rootCfg: the root configuration holding security settings
//
// Returns:
//   - *Config: the merged configuration with Extends cleared
//   - error: cycle, policy, or load failure
func processExtendsWithStack(cfg *Config, baseDir string, stack map[string]bool, rootCfg *Config) (*Config, error) {
	if len(cfg.Extends) == 0 {
		return cfg, nil
	}

	base := &Config{}
	maxFileSize := rootCfg.GetMaxConfigFileSize()

	for _, extend := range cfg.Extends {
		var (
			extendCfg *Config
			key       string
		)

		if extend == "default" {
			key = "__default__"
			if stack[key] {
				return nil, fmt.Errorf("cyclic extends detected at %s", extend)
			}
			stack[key] = true
			extendCfg = loadDefaultConfig()
		} else {
			if err := validateExtendPath(extend, rootCfg); err != nil {
				return nil, err
			}

			extendPath := extend
			if !filepath.IsAbs(extendPath) {
				extendPath = filepath.Join(baseDir, extend)
			}
			absPath, err := filepath.Abs(extendPath)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve extend path '%s': %w", extend, err)
			}

			key = absPath
			if stack[key] {
				return nil, fmt.Errorf("cyclic extends detected at %s", extendPath)
			}
			stack[key] = true

			loaded, err := loadConfigFileWithLimit(absPath, maxFileSize)
			if err != nil {
				return nil, fmt.Errorf("failed to load extend '%s': %w", extend, err)
			}
			// Only the root file may relax security settings.
			loaded.Security = nil

			loaded, err = processExtendsWithStack(loaded, filepath.Dir(absPath), stack, rootCfg)
			if err != nil {
				return nil, err
			}
			extendCfg = loaded
		}

		base = mergeConfigs(base, extendCfg)
		base.Security = nil
		verbose.Printf("Extended from %q\n", extend)
		delete(stack, key)
	}

	result := mergeConfigs(base, cfg)
	result.Extends = nil
	return result, nil
}
