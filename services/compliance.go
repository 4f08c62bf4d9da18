package services

import (
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// ComplianceCheck is one entry of the legal checklist.
type ComplianceCheck struct {
	ID          string
	LawRef      string
	Description string
	Severity    models.Severity
	Check       func(rec models.CleanRecord) bool
}

// clauseInTemplate marks checks satisfied by a clause the generated contract
// always contains.
func clauseInTemplate(models.CleanRecord) bool { return true }

// ComplianceChecks is the ordered checklist against the Sale of Apartments
// Law 1973 and related statutes.
var ComplianceChecks = []ComplianceCheck{
	{
		ID: "seller_identity", LawRef: "חוק מכר דירות §2", Description: "זיהוי מלא של המוכר",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return r.SellerName != "" && r.SellerID != "" },
	},
	{
		ID: "buyer_identity", LawRef: "חוק מכר דירות §2", Description: "זיהוי מלא של הקונה",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return r.BuyerName != "" && r.BuyerID != "" },
	},
	{
		ID: "property_identification", LawRef: "חוק מכר דירות §2", Description: "זיהוי הנכס - גוש, חלקה, כתובת",
		Severity: models.SeverityCritical,
		Check: func(r models.CleanRecord) bool {
			return r.BlockNumber != "" && r.ParcelNumber != "" && r.PropertyAddress != ""
		},
	},
	{
		ID: "price_stated", LawRef: "חוק מכר דירות §2", Description: "ציון מחיר העסקה",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return r.Price > 0 },
	},
	{
		ID: "delivery_date", LawRef: "חוק מכר דירות §5א", Description: "קביעת מועד מסירת הדירה",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return r.DeliveryDate != "" },
	},
	{
		ID: "area_specified", LawRef: "חוק מכר דירות §3", Description: "ציון שטח הדירה",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return r.AreaSqm > 0 },
	},
	{
		ID: "rooms_specified", LawRef: "חוק מכר דירות §3", Description: "ציון מספר חדרים",
		Severity: models.SeverityHigh,
		Check:    func(r models.CleanRecord) bool { return r.Rooms > 0 },
	},
	{
		ID: "no_lien", LawRef: "חוק המקרקעין §127", Description: "הנכס נקי מעיקולים",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return !r.HasLien },
	},
	{
		ID: "no_violations", LawRef: "חוק התכנון והבנייה §145", Description: "אין חריגות בנייה",
		Severity: models.SeverityHigh,
		Check:    func(r models.CleanRecord) bool { return !r.HasViolations },
	},
	{
		ID: "breach_clause", LawRef: "חוק החוזים (תרופות) §15", Description: "סעיף פיצוי מוסכם בגין הפרה",
		Severity: models.SeverityHigh, Check: clauseInTemplate,
	},
	{
		ID: "tax_clause", LawRef: "חוק מיסוי מקרקעין §15", Description: "סעיף מיסים - מס שבח, מס רכישה, היטל השבחה",
		Severity: models.SeverityHigh, Check: clauseInTemplate,
	},
	{
		ID: "mortgage_disclosure", LawRef: "חוק מכר דירות §4א", Description: "גילוי משכנתא קיימת",
		Severity: models.SeverityHigh, Check: clauseInTemplate,
	},
	{
		ID: "signing_date", LawRef: "חוק החוזים §1", Description: "ציון תאריך חתימה",
		Severity: models.SeverityCritical,
		Check:    func(r models.CleanRecord) bool { return r.SigningDate != "" },
	},
	{
		ID: "jurisdiction_clause", LawRef: "חוק בתי המשפט §51", Description: "סעיף סמכות שיפוט",
		Severity: models.SeverityMedium, Check: clauseInTemplate,
	},
	{
		ID: "seller_contact", LawRef: "תקנות הגנת הצרכן §4", Description: "פרטי התקשרות מוכר",
		Severity: models.SeverityMedium,
		Check:    func(r models.CleanRecord) bool { return r.SellerPhone != "" && r.SellerEmail != "" },
	},
	{
		ID: "buyer_contact", LawRef: "תקנות הגנת הצרכן §4", Description: "פרטי התקשרות קונה",
		Severity: models.SeverityMedium,
		Check:    func(r models.CleanRecord) bool { return r.BuyerPhone != "" && r.BuyerEmail != "" },
	},
	{
		ID: "payment_schedule", LawRef: "חוק מכר דירות §2", Description: "לוח תשלומים מפורט",
		Severity: models.SeverityHigh, Check: clauseInTemplate,
	},
	{
		ID: "delivery_condition", LawRef: "חוק מכר דירות §5ב", Description: "תנאי מסירת הדירה (AS IS / לאחר תיקונים)",
		Severity: models.SeverityMedium, Check: clauseInTemplate,
	},
}

// ComplianceChecker evaluates clean records against ComplianceChecks.
type ComplianceChecker struct {
	logger *utils.Logger
	checks []ComplianceCheck
	now    func() time.Time
}

func NewComplianceChecker(logger *utils.Logger) *ComplianceChecker {
	return &ComplianceChecker{logger: logger, checks: ComplianceChecks, now: time.Now}
}

// WithClock returns a copy of the checker that stamps results with now.
func (c *ComplianceChecker) WithClock(now func() time.Time) *ComplianceChecker {
	cp := *c
	cp.now = now
	return &cp
}

// Check runs every check in order. The record is compliant iff no critical
// check failed.
func (c *ComplianceChecker) Check(rec models.CleanRecord) models.ComplianceResult {
	result := models.ComplianceResult{
		TotalChecks:      len(c.checks),
		CriticalFailures: []models.CheckResult{},
		HighFailures:     []models.CheckResult{},
		Details:          make([]models.CheckResult, 0, len(c.checks)),
		CheckedAt:        c.now(),
	}

	for _, check := range c.checks {
		cr := models.CheckResult{
			ID:          check.ID,
			LawRef:      check.LawRef,
			Description: check.Description,
			Severity:    check.Severity,
			Passed:      check.Check(rec),
		}
		result.Details = append(result.Details, cr)
		if cr.Passed {
			result.Passed++
			continue
		}
		switch cr.Severity {
		case models.SeverityCritical:
			result.CriticalFailures = append(result.CriticalFailures, cr)
		case models.SeverityHigh:
			result.HighFailures = append(result.HighFailures, cr)
		}
	}

	result.Failed = result.TotalChecks - result.Passed
	result.Compliant = len(result.CriticalFailures) == 0
	if !result.Compliant {
		c.logger.Warn("[compliance] %d critical failures", len(result.CriticalFailures))
	}
	c.logger.Info("[compliance] %d/%d checks passed", result.Passed, result.TotalChecks)
	return result
}
