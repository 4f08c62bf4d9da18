package services

import (
	"fmt"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// Validator runs the rule registry against flat records.
type Validator struct {
	logger *utils.Logger
	rules  []Rule
	now    func() time.Time
}

// NewValidator creates a Validator over ValidationRules using the wall clock.
func NewValidator(logger *utils.Logger) *Validator {
	return &Validator{logger: logger, rules: ValidationRules, now: time.Now}
}

// WithClock returns a copy of the validator that takes "today" from now.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	cp := *v
	cp.now = now
	return &cp
}

// Validate evaluates every rule independently. A rule whose predicate fails
// or errors lands in Errors; soft rules land in Warnings. It never fails.
func (v *Validator) Validate(rec models.Flat) models.ValidationResult {
	y, m, d := v.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	result := models.ValidationResult{
		TotalRules: len(v.rules),
		Errors:     []models.Issue{},
		Warnings:   []models.Issue{},
	}

	for _, rule := range v.rules {
		out, err := evaluate(rule, rec, today)
		if err != nil {
			v.logger.Debug("[validator] rule %s on %s: %v", rule.Name, rule.Field, err)
		}
		issue := models.Issue{Rule: rule.Name, Field: rule.Field, Message: rule.Message}
		switch out {
		case outcomePass:
			result.Passed++
		case outcomeWarning:
			result.Warnings = append(result.Warnings, issue)
		default:
			result.Errors = append(result.Errors, issue)
		}
	}

	result.Valid = len(result.Errors) == 0
	v.logger.Info("[validator] %d/%d rules passed (%d errors, %d warnings)",
		result.Passed, result.TotalRules, len(result.Errors), len(result.Warnings))
	return result
}

// evaluate runs one rule, turning a predicate error or panic into an error
// outcome for that rule only.
func evaluate(rule Rule, rec models.Flat, today time.Time) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = outcomeError, fmt.Errorf("rule panicked: %v", r)
		}
	}()

	if rule.Record != nil {
		out, err = rule.Record(rec, today)
		if err != nil {
			return outcomeError, err
		}
		return out, nil
	}

	ok, err := rule.Check(rec.Get(rule.Field))
	if err != nil {
		return outcomeError, err
	}
	if !ok {
		return outcomeError, nil
	}
	return outcomePass, nil
}
