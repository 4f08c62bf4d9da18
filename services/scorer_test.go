package services

import (
	"strings"
	"testing"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

func criticalFailures(n int) []models.CheckResult {
	out := make([]models.CheckResult, n)
	for i := range out {
		out[i] = models.CheckResult{ID: "c", Severity: models.SeverityCritical}
	}
	return out
}

func highFailures(n int) []models.CheckResult {
	out := make([]models.CheckResult, n)
	for i := range out {
		out[i] = models.CheckResult{ID: "h", Severity: models.SeverityHigh}
	}
	return out
}

func TestScorePerfectRecord(t *testing.T) {
	rec := cleanSample(t)
	comp := NewComplianceChecker(newTestLogger()).Check(rec)
	q := NewScorer(newTestLogger()).Score(rec, comp)

	if q.Score != 100 {
		t.Errorf("score = %d; want 100 (deductions %v)", q.Score, q.Deductions)
	}
	if q.Grade != models.GradeExcellent || q.Recommendation != "ready to sign" {
		t.Errorf("grade = %s %q", q.Grade, q.Recommendation)
	}
	if len(q.Deductions) != 0 {
		t.Errorf("deductions = %v; want none", q.Deductions)
	}
}

func TestScoreCriticalFailureMonotonic(t *testing.T) {
	rec := cleanSample(t)
	scorer := NewScorer(newTestLogger())
	base := scorer.Score(rec, models.ComplianceResult{}).Score

	prev := base
	for n := 1; n <= 5; n++ {
		got := scorer.Score(rec, models.ComplianceResult{CriticalFailures: criticalFailures(n)}).Score
		wantDrop := min(10*n, 30)
		if base-got != wantDrop {
			t.Errorf("%d critical failures: drop = %d; want %d", n, base-got, wantDrop)
		}
		if n <= 3 && got >= prev {
			t.Errorf("%d critical failures: score %d did not decrease from %d", n, got, prev)
		}
		prev = got
	}
}

func TestScoreDeductions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CleanRecord)
		comp   models.ComplianceResult
		want   int
	}{
		{"mortgage", func(r *models.CleanRecord) { r.HasMortgage = true }, models.ComplianceResult{}, 95},
		{"lien", func(r *models.CleanRecord) { r.HasLien = true }, models.ComplianceResult{}, 90},
		{"violations", func(r *models.CleanRecord) { r.HasViolations = true }, models.ComplianceResult{}, 95},
		{"warning note", func(r *models.CleanRecord) { r.HasWarningNote = true }, models.ComplianceResult{}, 97},
		{"cheap price per sqm", func(r *models.CleanRecord) { r.Price = 100000 }, models.ComplianceResult{}, 90},
		{"two missing fields", func(r *models.CleanRecord) { r.SellerEmail, r.BuyerPhone = "", "" }, models.ComplianceResult{}, 94},
		{"high failures capped", func(r *models.CleanRecord) {}, models.ComplianceResult{HighFailures: highFailures(3)}, 90},
	}

	scorer := NewScorer(newTestLogger())
	for _, tt := range tests {
		rec := cleanSample(t)
		tt.mutate(&rec)
		q := scorer.Score(rec, tt.comp)
		if q.Score != tt.want {
			t.Errorf("%s: score = %d; want %d (deductions %v)", tt.name, q.Score, tt.want, q.Deductions)
		}
		if len(q.Deductions) != 1 {
			t.Errorf("%s: deductions = %v; want exactly one line", tt.name, q.Deductions)
		}
	}
}

func TestScoreClampsAtZero(t *testing.T) {
	rec := models.CleanRecord{
		HasMortgage:    true,
		HasLien:        true,
		HasViolations:  true,
		HasWarningNote: true,
	}
	comp := models.ComplianceResult{
		CriticalFailures: criticalFailures(7),
		HighFailures:     highFailures(2),
	}
	q := NewScorer(newTestLogger()).Score(rec, comp)

	if q.Score != 0 {
		t.Errorf("score = %d; want 0", q.Score)
	}
	if q.Grade != models.GradeWeak {
		t.Errorf("grade = %s; want weak", q.Grade)
	}
	if len(q.Deductions) != 8 {
		t.Errorf("deductions = %d lines; want 8: %v", len(q.Deductions), q.Deductions)
	}
	if !strings.Contains(q.Deductions[0], "-30") {
		t.Errorf("missing-field deduction = %q; want capped at 30", q.Deductions[0])
	}
}

func TestGradeThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  models.Grade
		label string
	}{
		{100, models.GradeExcellent, "מצוין"},
		{80, models.GradeExcellent, "מצוין"},
		{79, models.GradeGood, "טוב"},
		{60, models.GradeGood, "טוב"},
		{59, models.GradeFair, "בינוני"},
		{40, models.GradeFair, "בינוני"},
		{39, models.GradeWeak, "חלש"},
		{0, models.GradeWeak, "חלש"},
	}

	for _, tt := range tests {
		got, rec := gradeFor(tt.score)
		if got != tt.want || got.Hebrew() != tt.label || rec == "" {
			t.Errorf("gradeFor(%d) = %s (%s, %q); want %s (%s)", tt.score, got, got.Hebrew(), rec, tt.want, tt.label)
		}
	}
}
