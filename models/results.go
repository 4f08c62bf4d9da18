package models

import (
	"math"
	"time"
)

// Issue is one failed validation rule.
type Issue struct {
	Rule    string `json:"rule"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of running every validation rule once.
type ValidationResult struct {
	Valid      bool    `json:"valid"`
	TotalRules int     `json:"total_rules"`
	Passed     int     `json:"passed"`
	Errors     []Issue `json:"errors"`
	Warnings   []Issue `json:"warnings"`
}

// QualityPercent is passed/total as a percentage rounded to one decimal.
func (v ValidationResult) QualityPercent() float64 {
	total := v.TotalRules
	if total < 1 {
		total = 1
	}
	return math.Round(float64(v.Passed)/float64(total)*1000) / 10
}

// HasError reports whether rule is in the error list.
func (v ValidationResult) HasError(rule string) bool {
	for _, e := range v.Errors {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

// HasWarning reports whether rule is in the warning list.
func (v ValidationResult) HasWarning(rule string) bool {
	for _, w := range v.Warnings {
		if w.Rule == rule {
			return true
		}
	}
	return false
}

// FieldFailed reports whether any error was raised for field.
func (v ValidationResult) FieldFailed(field string) bool {
	for _, e := range v.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// CheckResult is one evaluated compliance check.
type CheckResult struct {
	ID          string   `json:"id"`
	LawRef      string   `json:"law_ref"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Passed      bool     `json:"passed"`
}

// ComplianceResult is the legal checklist verdict for one clean record.
type ComplianceResult struct {
	Compliant        bool          `json:"compliant"`
	TotalChecks      int           `json:"total_checks"`
	Passed           int           `json:"passed"`
	Failed           int           `json:"failed"`
	CriticalFailures []CheckResult `json:"critical_failures"`
	HighFailures     []CheckResult `json:"high_failures"`
	Details          []CheckResult `json:"details"`
	CheckedAt        time.Time     `json:"timestamp"`
}

// Grade is the quality tier of a scored contract.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradeWeak      Grade = "weak"
)

// Hebrew returns the label printed on Hebrew reports.
func (g Grade) Hebrew() string {
	switch g {
	case GradeExcellent:
		return "מצוין"
	case GradeGood:
		return "טוב"
	case GradeFair:
		return "בינוני"
	default:
		return "חלש"
	}
}

// QualityResult is the 0-100 contract quality score with its explanation.
type QualityResult struct {
	Score          int      `json:"score"`
	Grade          Grade    `json:"grade"`
	Recommendation string   `json:"recommendation"`
	Deductions     []string `json:"deductions"`
}
