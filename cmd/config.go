package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pyupgradecheck/pkg/config"
	"github.com/ajxudir/pyupgradecheck/pkg/constants"
	"github.com/ajxudir/pyupgradecheck/pkg/errors"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
)

var (
	configShowDefaultsFlag  bool
	configShowEffectiveFlag bool
	configInitFlag          bool
	configValidateFlag      bool
)

var (
	loadConfigFunc = config.LoadConfig
	writeFileFunc  = os.WriteFile
	getwdFunc      = os.Getwd
)

// loadConfig loads configuration for a command.
//
// Any load or validation failure is returned as an ExitError with
// ExitConfigError so that it exits with code 3.
//
// Returns:
//   - *config.Config: the effective configuration
//   - error: ExitError on failure
func loadConfig() (*config.Config, error) {
	workDir, err := getwdFunc()
	if err != nil {
		workDir = "."
	}
	cfg, err := loadConfigFunc(configPathFlag, workDir)
	if err != nil {
		verbose.Infof("Exit code %d (config error): %v", errors.ExitConfigError, err)
		return nil, errors.NewExitError(errors.ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, create, or validate configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowDefaultsFlag, "show-defaults", false, "Show default configuration")
	configCmd.Flags().BoolVar(&configShowEffectiveFlag, "show-effective", false, "Show effective configuration")
	configCmd.Flags().BoolVar(&configInitFlag, "init", false, "Create "+config.FileName+" template")
	configCmd.Flags().BoolVar(&configValidateFlag, "validate", false, "Validate configuration file (rejects unknown fields)")
}

// runConfig executes the config command.
//
// Behavior depends on flags:
//   - --init: writes the template to ./.pyupgradecheck.yml
//   - --validate: validates --config or ./.pyupgradecheck.yml
//   - --show-defaults: prints the embedded defaults
//   - --show-effective: prints the merged configuration
func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case configInitFlag:
		return createConfigTemplate(out)
	case configValidateFlag:
		return validateConfigFile(out)
	case configShowDefaultsFlag:
		_, _ = fmt.Fprintln(out, "Default configuration:")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, config.GetDefaultConfig())
		return nil
	case configShowEffectiveFlag:
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printEffectiveConfig(out, cfg)
		return nil
	}

	return cmd.Help()
}

func printEffectiveConfig(w io.Writer, cfg *config.Config) {
	orNone := func(values []string) string {
		if len(values) == 0 {
			return "(none)"
		}
		return strings.Join(values, ", ")
	}
	target := cfg.Target
	if target == "" {
		target = "(from command line)"
	}
	python := cfg.Python
	if python == "" {
		python = "python3"
	}

	_, _ = fmt.Fprintln(w, "Effective configuration:")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Target:        %s\n", target)
	_, _ = fmt.Fprintf(w, "Strict:        %v\n", cfg.IsStrict())
	_, _ = fmt.Fprintf(w, "Output:        %s\n", cfg.GetOutput())
	_, _ = fmt.Fprintf(w, "Fail on:       %s\n", orNone(cfg.FailOn))
	_, _ = fmt.Fprintf(w, "Ignore:        %s\n", orNone(cfg.Ignore))
	_, _ = fmt.Fprintf(w, "Site-packages: %s\n", orNone(cfg.SitePackages))
	_, _ = fmt.Fprintf(w, "Python:        %s\n", python)
	_, _ = fmt.Fprintln(w, "Registry:")
	_, _ = fmt.Fprintf(w, "  URL:         %s\n", registryURL(cfg))
	_, _ = fmt.Fprintf(w, "  Timeout:     %s\n", cfg.GetTimeout())
	_, _ = fmt.Fprintf(w, "  Concurrency: %d\n", cfg.GetConcurrency())
	if cfg.MetricsFile != "" {
		_, _ = fmt.Fprintf(w, "Metrics file:  %s\n", cfg.MetricsFile)
	}
}

// validateConfigFile validates --config, or the working-directory file.
//
// Returns:
//   - error: ExitError with ExitConfigError when validation fails
func validateConfigFile(w io.Writer) error {
	configPath := configPathFlag
	if configPath == "" {
		workDir, _ := getwdFunc()
		configPath = filepath.Join(workDir, config.FileName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError,
			fmt.Errorf("failed to read config file '%s': %w", configPath, err))
	}

	result := config.ValidateConfigFile(data)
	if result.HasErrors() {
		_, _ = fmt.Fprintf(w, "%s Configuration validation failed for: %s\n\n", constants.IconError, configPath)
		for _, e := range result.Errors {
			if verbose.IsEnabled() {
				_, _ = fmt.Fprintf(w, "  ERROR: %s\n", e.VerboseError())
			} else {
				_, _ = fmt.Fprintf(w, "  ERROR: %s\n", e.Error())
			}
		}
		printValidationWarnings(w, result.Warnings)
		_, _ = fmt.Fprintln(w)
		if !verbose.IsEnabled() {
			_, _ = fmt.Fprintf(w, "%s Run with --verbose for detailed schema information\n", constants.IconLightbulb)
		}
		verbose.Infof("Exit code %d (config error): configuration validation failed for %s", errors.ExitConfigError, configPath)
		return errors.NewExitError(errors.ExitConfigError, fmt.Errorf("configuration validation failed"))
	}

	if len(result.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "%s Configuration valid with warnings: %s\n", constants.IconWarn, configPath)
		printValidationWarnings(w, result.Warnings)
		return nil
	}

	_, _ = fmt.Fprintf(w, "%s Configuration valid: %s\n", constants.IconCheckmarkBox, configPath)
	return nil
}

func printValidationWarnings(w io.Writer, warns []string) {
	if len(warns) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	for _, msg := range warns {
		_, _ = fmt.Fprintf(w, "  WARNING: %s\n", msg)
	}
}

// createConfigTemplate writes the template to the working directory,
// refusing to overwrite an existing file.
func createConfigTemplate(w io.Writer) error {
	workDir, err := getwdFunc()
	if err != nil {
		workDir = "."
	}
	configPath := filepath.Join(workDir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := writeFileFunc(configPath, []byte(config.GetTemplateConfig()), 0o600); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Created configuration template: %s\n", configPath)
	return nil
}
