package reports

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

// FlowSummary is the machine-readable outcome of one pipeline run.
type FlowSummary struct {
	Status           string            `json:"status"`
	RunID            string            `json:"run_id"`
	Timestamp        time.Time         `json:"timestamp"`
	QualityScore     int               `json:"quality_score"`
	QualityGrade     models.Grade      `json:"quality_grade"`
	Recommendation   string            `json:"recommendation"`
	Compliant        bool              `json:"compliant"`
	ValidationPassed bool              `json:"validation_passed"`
	ContractIssues   []string          `json:"contract_issues"`
	Artifacts        map[string]string `json:"artifacts"`
}

// NewFlowSummary collects the headline results of tx. artifacts maps an
// artifact name to the path it was written to.
func NewFlowSummary(tx *models.ProcessedTransaction, artifacts map[string]string) FlowSummary {
	issues := tx.ContractIssues
	if issues == nil {
		issues = []string{}
	}
	return FlowSummary{
		Status:           "completed",
		RunID:            tx.RunID,
		Timestamp:        tx.CompletedAt,
		QualityScore:     tx.Quality.Score,
		QualityGrade:     tx.Quality.Grade,
		Recommendation:   tx.Quality.Recommendation,
		Compliant:        tx.Compliance.Compliant,
		ValidationPassed: tx.Validation.Valid,
		ContractIssues:   issues,
		Artifacts:        artifacts,
	}
}

// Encode renders the summary as indented JSON with Hebrew left unescaped.
func (s FlowSummary) Encode() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("reports: encode flow summary: %w", err)
	}
	return b, nil
}
