package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"paramcheck/internal/analyzer/detectors"
	"paramcheck/internal/config"
	"paramcheck/internal/jsparse"
	"paramcheck/internal/models"
	"paramcheck/internal/scope"
)

type Analyzer struct {
	parser    *jsparse.Parser
	config    *config.Config
	detectors []Detector
	log       zerolog.Logger
}

type Detector interface {
	Name() string
	Detect(file *detectors.SourceFile) ([]models.Issue, error)
}

func NewAnalyzer(cfg *config.Config, log zerolog.Logger) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	analyzer := &Analyzer{
		parser: jsparse.NewParser(),
		config: cfg,
		log:    log,
	}

	if cfg.IsRuleEnabled("param_reassign") {
		analyzer.detectors = append(analyzer.detectors, detectors.NewParamReassignDetectorWithConfig(cfg))
	}

	return analyzer
}

type fileOutcome struct {
	issues []models.Issue
	err    error
}

// AnalyzeFiles analyses files concurrently, at most max_workers at a time.
// Issues are reported in input order. A file that cannot be read or checked
// is listed in FailedFiles and its error is returned in the aggregate error
// alongside the partial result; syntax errors only produce parse_error
// issues.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, filenames []string) (*models.AnalysisResult, error) {
	startTime := time.Now()
	result := models.NewAnalysisResult()
	outcomes := make([]fileOutcome, len(filenames))

	workers := a.config.Analysis.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, filename := range filenames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			issues, err := a.analyzeFile(filename)
			outcomes[i] = fileOutcome{issues: issues, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs *multierror.Error
	for i, filename := range filenames {
		out := outcomes[i]

		var syntaxErr *jsparse.SyntaxError
		switch {
		case errors.As(out.err, &syntaxErr):
			a.log.Warn().Str("file", filename).Err(out.err).Msg("skipping file with syntax errors")
			result.Files = append(result.Files, filename)
			result.AddIssue(parseErrorIssue(filename, syntaxErr))
			continue
		case out.err != nil:
			a.log.Warn().Str("file", filename).Err(out.err).Msg("analysis failed")
			result.FailedFiles = append(result.FailedFiles, filename)
			errs = multierror.Append(errs, out.err)
			continue
		}

		result.Files = append(result.Files, filename)
		for _, issue := range out.issues {
			result.AddIssue(issue)
		}
	}

	result.AnalysisDuration = time.Since(startTime).String()
	result.CalculateScore()
	return result, errs.ErrorOrNil()
}

func (a *Analyzer) analyzeFile(filename string) ([]models.Issue, error) {
	start := time.Now()

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	issues, err := a.AnalyzeSource(filename, src)
	if err != nil {
		return nil, err
	}

	a.log.Debug().
		Str("file", filename).
		Int("issues", len(issues)).
		Dur("elapsed", time.Since(start)).
		Msg("analyzed")
	return issues, nil
}

// AnalyzeSource runs every detector over src, parsed according to the
// extension of filename.
func (a *Analyzer) AnalyzeSource(filename string, src []byte) ([]models.Issue, error) {
	tree, err := a.parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	scopes, err := scope.Analyze(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	file := &detectors.SourceFile{Path: filename, Source: src, Tree: tree, Scopes: scopes}

	var allIssues []models.Issue
	for _, detector := range a.detectors {
		issues, err := detector.Detect(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", detector.Name(), err)
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues, nil
}

func parseErrorIssue(filename string, err *jsparse.SyntaxError) models.Issue {
	return models.Issue{
		Type:       models.IssueParseError,
		Severity:   models.SeverityHigh,
		File:       filename,
		Line:       err.Line,
		Column:     err.Column,
		Message:    fmt.Sprintf("Parsing error: %v", err),
		Suggestion: "Fix the syntax error so the file can be checked.",
	}
}

// GetDetectorCount returns the number of active detectors
func (a *Analyzer) GetDetectorCount() int {
	return len(a.detectors)
}

// GetDetectorNames returns the names of all active detectors
func (a *Analyzer) GetDetectorNames() []string {
	names := make([]string, len(a.detectors))
	for i, detector := range a.detectors {
		names[i] = detector.Name()
	}
	return names
}
