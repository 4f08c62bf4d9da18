package services

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// ScoredFields are the fields whose absence costs completeness points.
var ScoredFields = []string{
	models.FieldSellerName, models.FieldSellerID, models.FieldSellerAddress, models.FieldSellerPhone, models.FieldSellerEmail,
	models.FieldBuyerName, models.FieldBuyerID, models.FieldBuyerAddress, models.FieldBuyerPhone, models.FieldBuyerEmail,
	models.FieldPropertyAddress, models.FieldBlockNumber, models.FieldParcelNumber, models.FieldAreaSqm, models.FieldRooms,
	models.FieldPropertyType, models.FieldPrice, models.FieldSigningDate, models.FieldDeliveryDate,
}

const (
	maxMissingDeduction  = 30
	maxCriticalDeduction = 30
	maxHighDeduction     = 10
)

// Scorer grades a clean record on a 0-100 scale.
type Scorer struct {
	logger *utils.Logger
}

func NewScorer(logger *utils.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Score starts at 100 and subtracts for missing fields, compliance failures,
// legal risk flags and an implausible price per sqm. Every deduction is
// listed in the result.
func (s *Scorer) Score(rec models.CleanRecord, comp models.ComplianceResult) models.QualityResult {
	score := 100
	deductions := []string{}
	deduct := func(points int, format string, args ...any) {
		score -= points
		deductions = append(deductions, fmt.Sprintf(format, args...)+fmt.Sprintf(": -%d points", points))
	}

	values := rec.Map()
	missing := 0
	for _, f := range ScoredFields {
		if !models.Filled(values[f]) {
			missing++
		}
	}
	if missing > 0 {
		deduct(min(missing*3, maxMissingDeduction), "missing fields (%d)", missing)
	}

	if n := len(comp.CriticalFailures); n > 0 {
		deduct(min(n*10, maxCriticalDeduction), "critical compliance failures (%d)", n)
	}
	if n := len(comp.HighFailures); n > 0 {
		deduct(min(n*5, maxHighDeduction), "high-severity compliance failures (%d)", n)
	}

	if rec.HasMortgage {
		deduct(5, "existing mortgage")
	}
	if rec.HasLien {
		deduct(10, "lien registered")
	}
	if rec.HasViolations {
		deduct(5, "building violations")
	}
	if rec.HasWarningNote {
		deduct(3, "warning note registered")
	}

	ppsm := rec.Price / max(rec.AreaSqm, 1)
	if ppsm < MinPricePerSqm || ppsm > MaxPricePerSqm {
		deduct(10, "unusual price per sqm (%s)", humanize.Commaf(float64(int64(ppsm))))
	}

	score = max(0, min(100, score))
	grade, recommendation := gradeFor(score)

	s.logger.Info("[scorer] score %d (%s), %d deductions", score, grade, len(deductions))
	return models.QualityResult{
		Score:          score,
		Grade:          grade,
		Recommendation: recommendation,
		Deductions:     deductions,
	}
}

func gradeFor(score int) (models.Grade, string) {
	switch {
	case score >= 80:
		return models.GradeExcellent, "ready to sign"
	case score >= 60:
		return models.GradeGood, "minor corrections needed before signing"
	case score >= 40:
		return models.GradeFair, "needs significant review and rework"
	default:
		return models.GradeWeak, "not ready to sign, requires rework"
	}
}
