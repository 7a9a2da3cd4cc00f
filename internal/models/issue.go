package models

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity accepts the lower- or upper-case names printed by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q (valid: low, medium, high, critical)", s)
	}
}

type IssueType string

const (
	IssueParamReassign   IssueType = "param_reassign"
	IssueParamPropMutate IssueType = "param_property_mutation"
	IssueParseError      IssueType = "parse_error"
)

type Issue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	File        string    `json:"file"`
	Line        int       `json:"line"`
	Column      int       `json:"column"`
	Function    string    `json:"function,omitempty"`
	Parameter   string    `json:"parameter,omitempty"`
	Message     string    `json:"message"`
	Suggestion  string    `json:"suggestion,omitempty"`
	CodeSnippet string    `json:"code_snippet,omitempty"`
}

// Location formats the issue position as file:line:col.
func (i *Issue) Location() string {
	return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
}

type AnalysisResult struct {
	Files            []string       `json:"files_analyzed"`
	FailedFiles      []string       `json:"failed_files,omitempty"`
	TotalIssues      int            `json:"total_issues"`
	IssuesBySeverity map[string]int `json:"issues_by_severity"`
	Issues           []Issue        `json:"issues"`
	Score            int            `json:"score"` // 0-100 scale
	AnalysisDuration string         `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:            make([]string, 0),
		Issues:           make([]Issue, 0),
		IssuesBySeverity: make(map[string]int),
	}
}

func (ar *AnalysisResult) AddIssue(issue Issue) {
	ar.Issues = append(ar.Issues, issue)
	ar.TotalIssues++
	ar.IssuesBySeverity[issue.Severity.String()]++
}

// HasIssuesAtLeast reports whether any issue is at or above min.
func (ar *AnalysisResult) HasIssuesAtLeast(min Severity) bool {
	for _, issue := range ar.Issues {
		if issue.Severity >= min {
			return true
		}
	}
	return false
}

func (ar *AnalysisResult) CalculateScore() {
	if ar.TotalIssues == 0 {
		ar.Score = 100
		return
	}

	penalty := 0
	for _, issue := range ar.Issues {
		basePenalty := 0
		switch issue.Severity {
		case SeverityLow:
			basePenalty = 5
		case SeverityMedium:
			basePenalty = 10
		case SeverityHigh:
			basePenalty = 20
		case SeverityCritical:
			basePenalty = 40
		}

		// Rebinding is the clearer defect; property writes are often intended.
		switch issue.Type {
		case IssueParamReassign:
			basePenalty = int(float64(basePenalty) * 1.5)
		case IssueParseError:
			basePenalty = 0
		}

		penalty += basePenalty
	}

	ar.Score = max(100-penalty, 0)
}
