package detectors

import (
	"fmt"

	"paramcheck/internal/config"
	"paramcheck/internal/models"
	"paramcheck/internal/paramreassign"
	"paramcheck/internal/syntax"
)

const snippetWidth = 120

// ParamReassignDetector reports reassigned parameters and, when enabled,
// writes through their properties.
type ParamReassignDetector struct {
	rule    config.ParamReassignRule
	scanner *paramreassign.Scanner
}

func NewParamReassignDetector() *ParamReassignDetector {
	return NewParamReassignDetectorWithConfig(config.DefaultConfig())
}

func NewParamReassignDetectorWithConfig(cfg *config.Config) *ParamReassignDetector {
	rule := cfg.Rules.ParamReassign
	return &ParamReassignDetector{
		rule:    rule,
		scanner: paramreassign.New(rule.Options()),
	}
}

func (d *ParamReassignDetector) Name() string {
	return "Parameter Reassignment Detector"
}

func (d *ParamReassignDetector) Detect(file *SourceFile) ([]models.Issue, error) {
	findings, err := d.scanner.ScanTree(file.Tree, file.Scopes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}

	issues := make([]models.Issue, 0, len(findings))
	for _, f := range findings {
		span := file.Tree.Span(f.Identifier)
		prop := f.Kind == paramreassign.PropertyMutation

		issue := models.Issue{
			Type:        models.IssueParamReassign,
			Severity:    d.rule.SeverityFor(prop),
			File:        file.Path,
			Line:        span.StartLine,
			Column:      span.StartCol,
			Function:    syntax.FunctionName(file.Tree, f.Function),
			Parameter:   f.Name,
			Message:     f.Message(),
			Suggestion:  rebindSuggestion(f.Name),
			CodeSnippet: file.Snippet(span.StartLine, snippetWidth),
		}
		if prop {
			issue.Type = models.IssueParamPropMutate
			issue.Suggestion = propertySuggestion(f.Name)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func rebindSuggestion(name string) string {
	return fmt.Sprintf(`Copy the parameter into a local variable instead of reassigning it:
let local = %s;
For default values prefer a default parameter: function f(%s = fallback)`, name, name)
}

func propertySuggestion(name string) string {
	return fmt.Sprintf(`Avoid mutating objects owned by the caller. Build a new value instead:
const next = { ...%s, key: value };
If this parameter is the accumulator of a fold, add the method to rules.param_reassign.accumulators`, name)
}
