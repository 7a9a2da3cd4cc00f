package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"paramcheck/internal/config"
	"paramcheck/internal/models"

	"github.com/fatih/color"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(result)
	}
}

func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

// painter renders text in colour, with a leading emoji, only when colours
// are enabled in the output settings.
type painter struct {
	on bool
}

func (p painter) paint(c *color.Color, format string, args ...interface{}) string {
	if p.on {
		return c.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

func (p painter) icon(emoji string) string {
	if p.on {
		return emoji + " "
	}
	return ""
}

var (
	headingColor = color.New(color.FgWhite, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.FgYellow)
	hintColor    = color.New(color.FgGreen)
	dimColor     = color.New(color.FgHiBlack)
)

func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var b strings.Builder
	out := r.config.Output
	p := painter{on: out.Colors}

	b.WriteString(p.paint(infoColor, "%sParamCheck Analysis Report\n", p.icon("🔍")))
	b.WriteString(strings.Repeat("=", 39) + "\n\n")

	if out.Verbose {
		r.writeConfigInfo(&b, p)
	}
	r.writeSummary(&b, p, result)
	r.writeScore(&b, p, result.Score)

	if len(result.Issues) == 0 {
		b.WriteString(p.paint(hintColor, "%sNo parameter mutations detected! Great job!\n\n", p.icon("🎉")))
	} else {
		r.writeSeverityCounts(&b, p, result)
		r.writeIssuesByFile(&b, p, result.Issues)
		if out.ShowSuggestions {
			r.writeSuggestions(&b, p, result.Issues)
		}
	}

	b.WriteString(p.paint(dimColor, "Analysis completed in %s\n", result.AnalysisDuration))
	return b.String()
}

func (r *ReportGenerator) writeConfigInfo(b *strings.Builder, p painter) {
	rule := r.config.Rules.ParamReassign
	accumulators := "none"
	if len(rule.Accumulators) > 0 {
		accumulators = strings.Join(rule.Accumulators, ", ")
	}
	st := r.config.Analysis.ScoreThresholds

	b.WriteString(p.paint(headingColor, "%sConfiguration:\n", p.icon("📋")))
	fmt.Fprintf(b, "   Property checks: %s\n", p.paint(infoColor, "%t", rule.Props))
	fmt.Fprintf(b, "   Accumulators: %s\n", p.paint(infoColor, "%s", accumulators))
	fmt.Fprintf(b, "   Fail on: %s\n", p.paint(infoColor, "%s", r.config.Analysis.FailOn))
	fmt.Fprintf(b, "   Score thresholds: %s\n\n", p.paint(infoColor, "%d/%d/%d", st.Excellent, st.Good, st.Fair))
}

func (r *ReportGenerator) writeSummary(b *strings.Builder, p painter, result *models.AnalysisResult) {
	b.WriteString(p.paint(headingColor, "%sSummary:\n", p.icon("📊")))
	fmt.Fprintf(b, "   Files analyzed: %d\n", len(result.Files))
	if len(result.FailedFiles) > 0 {
		fmt.Fprintf(b, "   Files failed: %s\n", p.paint(color.New(color.FgRed), "%d", len(result.FailedFiles)))
	}
	fmt.Fprintf(b, "   Issues found: %d\n\n", result.TotalIssues)
}

// writeScore colours the score band using the configured thresholds.
func (r *ReportGenerator) writeScore(b *strings.Builder, p painter, score int) {
	st := r.config.Analysis.ScoreThresholds
	var c *color.Color
	var emoji string
	switch {
	case score >= st.Excellent:
		c, emoji = color.New(color.FgGreen), "🌟"
	case score >= st.Good:
		c, emoji = color.New(color.FgYellow), "⚡"
	case score >= st.Fair:
		c, emoji = color.New(color.FgHiYellow), "⚠️"
	default:
		c, emoji = color.New(color.FgRed), "🚨"
	}
	fmt.Fprintf(b, "%sScore: %s/100\n\n", p.icon(emoji), p.paint(c, "%d", score))
}

func severityStyle(sev models.Severity) (string, *color.Color) {
	switch sev {
	case models.SeverityCritical:
		return "🚨", color.New(color.FgRed, color.Bold)
	case models.SeverityHigh:
		return "❌", color.New(color.FgRed)
	case models.SeverityMedium:
		return "⚠️", color.New(color.FgYellow)
	default:
		return "ℹ️", color.New(color.FgBlue)
	}
}

func (r *ReportGenerator) writeSeverityCounts(b *strings.Builder, p painter, result *models.AnalysisResult) {
	b.WriteString(p.paint(headingColor, "%sIssues by Severity:\n", p.icon("📋")))
	for sev := models.SeverityCritical; sev >= models.SeverityLow; sev-- {
		count := result.IssuesBySeverity[sev.String()]
		if count == 0 {
			continue
		}
		emoji, c := severityStyle(sev)
		fmt.Fprintf(b, "   %s%s: %s\n", p.icon(emoji), sev, p.paint(c, "%d", count))
	}
	b.WriteString("\n")
}

// writeIssuesByFile lists issues one per line under their file, ordered by
// position, the way lint tools print them.
func (r *ReportGenerator) writeIssuesByFile(b *strings.Builder, p painter, issues []models.Issue) {
	byFile := make(map[string][]models.Issue)
	var files []string
	for _, issue := range issues {
		if _, ok := byFile[issue.File]; !ok {
			files = append(files, issue.File)
		}
		byFile[issue.File] = append(byFile[issue.File], issue)
	}

	for _, file := range files {
		list := byFile[file]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Line != list[j].Line {
				return list[i].Line < list[j].Line
			}
			return list[i].Column < list[j].Column
		})

		b.WriteString(p.paint(color.New(color.Underline), "%s", file) + "\n")
		for _, issue := range list {
			_, c := severityStyle(issue.Severity)
			fmt.Fprintf(b, "   %-8s %s  %s  %s\n",
				fmt.Sprintf("%d:%d", issue.Line, issue.Column),
				p.paint(c, "%-8s", issue.Severity),
				issue.Message,
				p.paint(dimColor, "%s", issue.Type))
		}
		b.WriteString("\n")
	}
}

// writeSuggestions prints every issue in full, most severe first.
func (r *ReportGenerator) writeSuggestions(b *strings.Builder, p painter, issues []models.Issue) {
	b.WriteString(p.paint(headingColor, "%sDetailed Issues:\n", p.icon("🔍")))
	b.WriteString(strings.Repeat("─", 50) + "\n\n")

	sorted := make([]models.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity > sorted[j].Severity
	})

	for i, issue := range sorted {
		emoji, c := severityStyle(issue.Severity)
		fmt.Fprintf(b, "%sIssue #%d - %s %s\n", p.icon(emoji), i+1,
			p.paint(c, "%s", issue.Severity), strings.ToUpper(string(issue.Type)))

		location := "Location: " + issue.Location()
		if issue.Function != "" {
			location += fmt.Sprintf(" in function '%s'", issue.Function)
		}
		b.WriteString("   " + p.icon("📍") + p.paint(infoColor, "%s", location) + "\n")
		b.WriteString("   " + p.icon("💭") + fmt.Sprintf("Issue: %s\n", issue.Message))
		if issue.CodeSnippet != "" {
			b.WriteString("   " + p.icon("📄") + p.paint(codeColor, "Code: %s", issue.CodeSnippet) + "\n")
		}

		b.WriteString("   " + p.icon("💡") + p.paint(hintColor, "Suggestion:") + "\n")
		for _, line := range strings.Split(issue.Suggestion, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString(p.paint(hintColor, "      %s", line) + "\n")
			}
		}
		b.WriteString("\n")
	}
}
