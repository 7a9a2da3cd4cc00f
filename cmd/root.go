package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"paramcheck/internal/analyzer"
	"paramcheck/internal/config"
	"paramcheck/internal/logging"
	"paramcheck/internal/models"
	"paramcheck/internal/watcher"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	propsFlag          bool
	accumulatorFlags   []string
	verboseFlag        bool
)

// errFailOn makes the process exit non-zero once the report is printed.
var errFailOn = errors.New("issues at or above the fail_on severity were found")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paramcheck [files or directories]",
	Short: "Reports JavaScript and TypeScript code that reassigns function parameters",
	Long: `paramcheck is a static analysis tool that scans JavaScript and TypeScript
code for functions that reassign their parameters or, optionally, write to
properties of objects passed in as parameters.

Examples:
  paramcheck .                                 # Analyze current directory
  paramcheck src/index.js src/util.ts          # Analyze specific files
  paramcheck --props .                         # Also report property writes
  paramcheck --props --accumulator=reduce .    # Allow reduce accumulators
  paramcheck --format=json .                   # Output results in JSON format
  paramcheck --config=.paramcheck.yml .        # Use custom config
  paramcheck --generate-config                 # Generate sample config file
  paramcheck --watch src                       # Re-check files as they change`,
	SilenceUsage: true,
	RunE:         runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailOn) {
			color.Red("%v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file (.yml, .yaml or .toml)")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().BoolVar(&propsFlag, "props", false, "Also report writes to properties of parameters")
	rootCmd.Flags().StringArrayVar(&accumulatorFlags, "accumulator", nil, "Method whose callback may mutate its first parameter (repeatable)")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output and debug logging")
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	if generateConfigFlag {
		return generateConfig()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.Output.Verbose)

	if len(args) == 0 {
		args = []string{"."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := analyzer.NewAnalyzer(cfg, log)
	failed, err := analyzePaths(ctx, cfg, engine, args, log)
	if err != nil {
		return err
	}

	if watchFlag {
		return watch(ctx, cfg, engine, args, log)
	}
	if failed {
		return errFailOn
	}
	return nil
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if cmd.Flags().Changed("props") {
		cfg.Rules.ParamReassign.Props = propsFlag
	}
	cfg.Rules.ParamReassign.Accumulators = append(cfg.Rules.ParamReassign.Accumulators, accumulatorFlags...)
	if verboseFlag {
		cfg.Output.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// analyzePaths runs one analysis pass and prints the report. It reports
// whether the result reaches the fail_on severity.
func analyzePaths(ctx context.Context, cfg *config.Config, engine *analyzer.Analyzer, paths []string, log zerolog.Logger) (bool, error) {
	filter, err := cfg.Files.Compile()
	if err != nil {
		return false, err
	}

	var files []string
	for _, path := range paths {
		found, err := collectSourceFiles(path, filter, log)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("error collecting files")
			continue
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		color.Yellow("⚠️  No JavaScript or TypeScript files found to analyze\n")
		return false, nil
	}
	return analyzeFiles(ctx, cfg, engine, files, log)
}

func analyzeFiles(ctx context.Context, cfg *config.Config, engine *analyzer.Analyzer, files []string, log zerolog.Logger) (bool, error) {
	if cfg.Output.Format != "json" {
		if cfg.Output.Verbose {
			color.Cyan("🔍 Analyzing %d files with %d detectors...\n", len(files), engine.GetDetectorCount())
			if configFlag != "" {
				color.Cyan("📋 Using configuration: %s\n\n", configFlag)
			}
		} else {
			color.Cyan("🔍 Analyzing %d files...\n\n", len(files))
		}
	}

	result, err := engine.AnalyzeFiles(ctx, files)
	if result == nil {
		return false, fmt.Errorf("analysis failed: %w", err)
	}
	if err != nil {
		log.Warn().Int("failed", len(result.FailedFiles)).Msg("some files could not be analyzed")
	}

	report := analyzer.NewReportGeneratorWithConfig(cfg).Generate(result)
	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Print(report)
		if cfg.Output.Format == "json" {
			fmt.Println()
		}
	}

	return failsThreshold(cfg, result), nil
}

func failsThreshold(cfg *config.Config, result *models.AnalysisResult) bool {
	sev, ok := cfg.FailOn()
	return ok && result.HasIssuesAtLeast(sev)
}

func watch(ctx context.Context, cfg *config.Config, engine *analyzer.Analyzer, paths []string, log zerolog.Logger) error {
	fw, err := watcher.NewFileWatcher(cfg, log)
	if err != nil {
		return err
	}
	defer fw.Close()

	handler := func(changed []string) error {
		existing := changed[:0]
		for _, path := range changed {
			if _, err := os.Stat(path); err == nil {
				existing = append(existing, path)
			}
		}
		if len(existing) == 0 {
			return nil
		}
		color.Cyan("\n♻️  %d file(s) changed\n", len(existing))
		_, err := analyzeFiles(ctx, cfg, engine, existing, log)
		return err
	}
	if err := fw.Watch(paths, handler); err != nil {
		return err
	}

	color.Cyan("👀 Watching %d directories for changes. Press Ctrl+C to stop.\n", len(fw.GetWatchedPaths()))
	<-ctx.Done()
	return nil
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() error {
	configPath := ".paramcheck.yml"
	if configFlag != "" {
		configPath = configFlag
	}
	if err := config.GenerateConfig(configPath); err != nil {
		return fmt.Errorf("failed to generate config file: %w", err)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize paramcheck behavior\n")
	color.Cyan("🚀 Run 'paramcheck --config=%s .' to use it\n", configPath)
	return nil
}
