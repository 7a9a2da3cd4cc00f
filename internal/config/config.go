// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"paramcheck/internal/models"
	"paramcheck/internal/paramreassign"
)

// Config represents the configuration for paramcheck
type Config struct {
	// General settings
	Version     string `yaml:"version" toml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" toml:"project_name,omitempty" json:"project_name,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" toml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" toml:"output" json:"output"`

	// Rule-specific configurations
	Rules RulesConfig `yaml:"rules" toml:"rules" json:"rules"`

	// File patterns
	Files FilesConfig `yaml:"files" toml:"files" json:"files"`
}

type AnalysisConfig struct {
	// Score thresholds
	ScoreThresholds ScoreThresholds `yaml:"score_thresholds" toml:"score_thresholds" json:"score_thresholds"`

	// Lowest severity that makes the run fail; "none" never fails
	FailOn string `yaml:"fail_on" toml:"fail_on" json:"fail_on"`

	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" toml:"max_workers" json:"max_workers"`
}

type ScoreThresholds struct {
	Excellent int `yaml:"excellent" toml:"excellent" json:"excellent"` // >= 90
	Good      int `yaml:"good" toml:"good" json:"good"`                // >= 75
	Fair      int `yaml:"fair" toml:"fair" json:"fair"`                // >= 50
	Poor      int `yaml:"poor" toml:"poor" json:"poor"`                // < 50
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" toml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" toml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" toml:"verbose" json:"verbose"`

	// Show suggestions
	ShowSuggestions bool `yaml:"show_suggestions" toml:"show_suggestions" json:"show_suggestions"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" toml:"output_file,omitempty" json:"output_file,omitempty"`
}

type RulesConfig struct {
	ParamReassign ParamReassignRule `yaml:"param_reassign" toml:"param_reassign" json:"param_reassign"`
}

type ParamReassignRule struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`

	// Severity of a parameter rebinding
	Severity string `yaml:"severity" toml:"severity" json:"severity"`

	// Severity of a write through a parameter's properties
	PropertySeverity string `yaml:"property_severity" toml:"property_severity" json:"property_severity"`

	// Report writes to properties reachable from a parameter
	Props bool `yaml:"props" toml:"props" json:"props"`

	// Methods whose callback may mutate its first parameter, e.g. reduce
	Accumulators []string `yaml:"accumulators" toml:"accumulators" json:"accumulators"`
}

type FilesConfig struct {
	// Include patterns
	Include []string `yaml:"include" toml:"include" json:"include"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" toml:"exclude" json:"exclude"`

	// Whether to analyze test files
	IncludeTests bool `yaml:"include_tests" toml:"include_tests" json:"include_tests"`

	// Whether to analyze TypeScript declaration files
	IncludeDeclarations bool `yaml:"include_declarations" toml:"include_declarations" json:"include_declarations"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" toml:"max_file_size" json:"max_file_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			ScoreThresholds: ScoreThresholds{
				Excellent: 90,
				Good:      75,
				Fair:      50,
				Poor:      0,
			},
			FailOn:     "medium",
			MaxWorkers: 4,
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowSuggestions: false,
		},
		Rules: RulesConfig{
			ParamReassign: ParamReassignRule{
				Enabled:          true,
				Severity:         "medium",
				PropertySeverity: "low",
				Props:            false,
				Accumulators:     []string{},
			},
		},
		Files: FilesConfig{
			Include: []string{"**"},
			Exclude: []string{
				"node_modules/**", "**/node_modules/**",
				".git/**", "dist/**", "build/**", "coverage/**",
				"*.min.js", "**/*.min.js",
			},
			IncludeTests: false,
			MaxFileSize:  1024, // 1MB
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig() // Start with defaults

	if isTOML(configPath) {
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".paramcheck.yml",
		".paramcheck.yaml",
		"paramcheck.yml",
		"paramcheck.yaml",
		".paramcheck.toml",
		".config/paramcheck.yml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	st := c.Analysis.ScoreThresholds
	if st.Excellent < st.Good || st.Good < st.Fair || st.Fair < st.Poor {
		return fmt.Errorf("score thresholds must be in descending order")
	}

	validFormats := []string{"console", "json"}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	if c.Analysis.FailOn != "none" {
		if _, err := models.ParseSeverity(c.Analysis.FailOn); err != nil {
			return fmt.Errorf("fail_on: %w", err)
		}
	}

	pr := c.Rules.ParamReassign
	if _, err := models.ParseSeverity(pr.Severity); err != nil {
		return fmt.Errorf("rules.param_reassign.severity: %w", err)
	}
	if _, err := models.ParseSeverity(pr.PropertySeverity); err != nil {
		return fmt.Errorf("rules.param_reassign.property_severity: %w", err)
	}
	for _, name := range pr.Accumulators {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("rules.param_reassign.accumulators: empty method name")
		}
	}

	if c.Files.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	if _, err := c.Files.Compile(); err != nil {
		return err
	}

	return nil
}

// SaveConfig saves configuration to file, as TOML when the path ends in
// .toml and YAML otherwise.
func (c *Config) SaveConfig(configPath string) error {
	var data []byte
	if isTOML(configPath) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// IsRuleEnabled checks if a specific rule is enabled
func (c *Config) IsRuleEnabled(ruleType string) bool {
	switch ruleType {
	case "param_reassign":
		return c.Rules.ParamReassign.Enabled
	default:
		return false
	}
}

// FailOn returns the severity at which a run fails. ok is false when
// fail_on is "none".
func (c *Config) FailOn() (sev models.Severity, ok bool) {
	sev, err := models.ParseSeverity(c.Analysis.FailOn)
	return sev, err == nil
}

// Options converts the rule settings into scanner options.
func (r ParamReassignRule) Options() paramreassign.Options {
	return paramreassign.Options{
		Accumulators: slices.Clone(r.Accumulators),
		Props:        r.Props,
	}
}

// SeverityFor returns the configured severity for a rebinding or, when prop
// is set, a property write. Unparseable values fall back to medium.
func (r ParamReassignRule) SeverityFor(prop bool) models.Severity {
	name := r.Severity
	if prop {
		name = r.PropertySeverity
	}
	sev, err := models.ParseSeverity(name)
	if err != nil {
		return models.SeverityMedium
	}
	return sev
}
