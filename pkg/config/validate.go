package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ajxudir/pyupgradecheck/pkg/compat"
	"github.com/ajxudir/pyupgradecheck/pkg/filtering"
	"github.com/ajxudir/pyupgradecheck/pkg/output"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field      string
	Message    string
	Expected   string // Expected type or value hint
	ValidKeys  string // Valid keys for this context
	DocSection string // Documentation section reference
}

// Error returns the error message string.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// VerboseError returns the message together with any schema hints.
//
// Returns:
//   - string: the message followed by Expected, Valid keys, and doc lines when set
func (e ValidationError) VerboseError() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("\n    Expected: %s", e.Expected))
	}
	if e.ValidKeys != "" {
		sb.WriteString(fmt.Sprintf("\n    Valid keys: %s", e.ValidKeys))
	}
	if e.DocSection != "" {
		sb.WriteString(fmt.Sprintf("\n    📖 See: docs/configuration.md#%s", e.DocSection))
	}
	return sb.String()
}

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorMessages returns all error messages as one multi-line string.
//
// Returns:
//   - string: formatted messages, or empty string if there are no errors
func (r *ValidationResult) ErrorMessages() string {
	return r.join(ValidationError.Error)
}

// VerboseErrorMessages is ErrorMessages with schema hints included.
func (r *ValidationResult) VerboseErrorMessages() string {
	return r.join(ValidationError.VerboseError)
}

func (r *ValidationResult) join(render func(ValidationError) string) string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, "  - "+render(e))
	}
	return "Configuration validation failed:\n" + strings.Join(msgs, "\n")
}

type schemaInfo struct {
	fields string
	doc    string
}

var configSchema = map[string]schemaInfo{
	"Config": {
		fields: "extends, target, strict, registry, site_packages, python, ignore, output, fail_on, metrics_file, security",
		doc:    "configuration",
	},
	"RegistryCfg": {
		fields: "url, timeout_seconds, concurrency, user_agent",
		doc:    "registry",
	},
	"SecurityCfg": {
		fields: "allow_path_traversal, allow_absolute_paths, max_config_file_size",
		doc:    "security",
	},
}

// commonTypos maps frequent misspellings to the real field name.
var commonTypos = map[string]map[string]string{
	"Config": {
		"extend":         "extends",
		"python_version": "target",
		"version":        "target",
		"sitePackages":   "site_packages",
		"site_package":   "site_packages",
		"ignored":        "ignore",
		"format":         "output",
		"failOn":         "fail_on",
		"fail_on_status": "fail_on",
		"metricsFile":    "metrics_file",
		"interpreter":    "python",
	},
	"RegistryCfg": {
		"timeout":        "timeout_seconds",
		"timeoutSeconds": "timeout_seconds",
		"base_url":       "url",
		"index_url":      "url",
		"workers":        "concurrency",
		"userAgent":      "user_agent",
	},
	"SecurityCfg": {
		"maxConfigFileSize": "max_config_file_size",
	},
}

var lineNumberPattern = regexp.MustCompile(`line (\d+):`)

// ValidateConfigFile decodes data with unknown-field checking and validates values.
//
// Parameters:
//   - data: YAML configuration data
//
// Returns:
//   - *ValidationResult: errors and warnings found
func ValidateConfigFile(data []byte) *ValidationResult {
	result := &ValidationResult{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		// An empty document is a valid, empty config.
		if errors.Is(err, io.EOF) {
			return result
		}
		verbose.Printf("Config validation FAILED: YAML decode error: %v\n", err)
		result.Errors = append(result.Errors, decodeError(err.Error()))
		return result
	}

	validateConfigStruct(&cfg, result)
	verbose.Printf("Config validation: %d errors, %d warnings\n", len(result.Errors), len(result.Warnings))
	return result
}

// decodeError turns a yaml.v3 decode error into a ValidationError with hints.
func decodeError(errMsg string) ValidationError {
	switch {
	case strings.Contains(errMsg, "field") && strings.Contains(errMsg, "not found"):
		fieldName, typeName := extractFieldAndType(errMsg)
		verr := ValidationError{Message: fmt.Sprintf("unknown field '%s'", fieldName)}
		if line := extractLineNumber(errMsg); line > 0 {
			verr.Message = fmt.Sprintf("unknown field '%s' (line %d)", fieldName, line)
		}
		if schema, ok := configSchema[typeName]; ok {
			verr.ValidKeys = schema.fields
			verr.DocSection = schema.doc
		} else if typeName != "" {
			verr.Expected = fmt.Sprintf("valid field for %s", typeName)
		}
		if suggestion := suggestSimilarField(fieldName, typeName); suggestion != "" {
			verr.Message += fmt.Sprintf(" (did you mean '%s'?)", suggestion)
		}
		return verr
	case strings.Contains(errMsg, "cannot unmarshal"):
		return ValidationError{Message: errMsg, Expected: extractExpectedType(errMsg)}
	case strings.Contains(errMsg, "yaml:"):
		return ValidationError{
			Message:    fmt.Sprintf("YAML syntax error: %s", errMsg),
			DocSection: "configuration",
		}
	default:
		return ValidationError{Message: errMsg}
	}
}

// Validate checks the value constraints of a loaded Config.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}
	validateConfigStruct(c, result)
	return result
}

// validateConfigStruct appends constraint violations in cfg to result.
//
// Parameters:
//   - cfg: the configuration to validate
//   - result: receives errors and warnings
func validateConfigStruct(cfg *Config, result *ValidationResult) {
	if cfg.Target != "" {
		if _, err := compat.ParseTarget(cfg.Target); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:    "target",
				Message:  err.Error(),
				Expected: "MAJOR.MINOR with MAJOR >= 3, e.g. \"3.13\"",
			})
		}
	}

	if cfg.Output != "" {
		if _, err := output.ParseFormat(cfg.Output); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:    "output",
				Message:  fmt.Sprintf("unsupported format '%s'", cfg.Output),
				Expected: output.FormatNames(),
			})
		}
	}

	for i, status := range cfg.FailOn {
		if _, ok := compat.ParseStatus(status); !ok {
			result.Errors = append(result.Errors, ValidationError{
				Field:    fmt.Sprintf("fail_on[%d]", i),
				Message:  fmt.Sprintf("unknown status '%s'", status),
				Expected: "supported, incompatible, or unknown",
			})
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := filtering.ParsePattern(pattern); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:    fmt.Sprintf("ignore[%d]", i),
				Message:  err.Error(),
				Expected: "package name, glob such as types-*, or ~regex",
			})
		}
	}

	for i, dir := range cfg.SitePackages {
		if strings.TrimSpace(dir) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("site_packages[%d]", i),
				Message: "directory cannot be empty",
			})
		}
	}

	validateRegistry(&cfg.Registry, result)

	if cfg.Security != nil && cfg.Security.MaxConfigFileSize < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "security.max_config_file_size",
			Message:  "size cannot be negative",
			Expected: "positive integer (bytes)",
		})
	}
}

func validateRegistry(reg *RegistryCfg, result *ValidationResult) {
	if reg.URL != "" {
		u, err := url.Parse(reg.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:      "registry.url",
				Message:    fmt.Sprintf("invalid registry URL '%s'", reg.URL),
				Expected:   "absolute http or https URL",
				DocSection: "registry",
			})
		}
	}
	if reg.TimeoutSeconds < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "registry.timeout_seconds",
			Message:  "timeout must be positive",
			Expected: "positive integer (seconds)",
		})
	}
	if reg.Concurrency < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "registry.concurrency",
			Message:  "concurrency must be positive",
			Expected: "positive integer",
		})
	} else if reg.Concurrency > 64 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("registry.concurrency=%d is high and may trigger rate limiting", reg.Concurrency))
	}
}

// extractFieldAndType pulls the field and type names out of a yaml.v3
// "field foo not found in type config.Bar" message.
func extractFieldAndType(errMsg string) (field, typeName string) {
	parts := strings.Split(errMsg, "field ")
	if len(parts) >= 2 {
		fieldPart := parts[1]
		if spaceIdx := strings.Index(fieldPart, " "); spaceIdx > 0 {
			field = fieldPart[:spaceIdx]
		} else {
			field = fieldPart
		}
	}

	if idx := strings.Index(errMsg, "in type config."); idx >= 0 {
		typePart := errMsg[idx+len("in type config."):]
		if endIdx := strings.IndexAny(typePart, " \n"); endIdx > 0 {
			typeName = typePart[:endIdx]
		} else {
			typeName = typePart
		}
	}
	return field, typeName
}

func extractLineNumber(errMsg string) int {
	matches := lineNumberPattern.FindStringSubmatch(errMsg)
	if len(matches) < 2 {
		return 0
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return n
}

// extractExpectedType returns Y from "cannot unmarshal X into Y".
func extractExpectedType(errMsg string) string {
	idx := strings.Index(errMsg, "into ")
	if idx < 0 {
		return ""
	}
	typePart := errMsg[idx+5:]
	if endIdx := strings.IndexAny(typePart, " \n"); endIdx > 0 {
		return typePart[:endIdx]
	}
	return typePart
}

// suggestSimilarField returns the likely intended field name, or "".
func suggestSimilarField(field, typeName string) string {
	if typos, ok := commonTypos[typeName]; ok {
		if suggestion, found := typos[field]; found {
			return suggestion
		}
	}
	if strings.Contains(field, "-") {
		snake := strings.ReplaceAll(field, "-", "_")
		if schema, ok := configSchema[typeName]; ok {
			for _, f := range strings.Split(schema.fields, ", ") {
				if f == snake {
					return snake
				}
			}
		}
	}
	return ""
}
