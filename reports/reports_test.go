package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

var testNow = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func sampleRecord() models.CleanRecord {
	return models.CleanRecord{
		SellerName:      "ישראל ישראלי",
		SellerID:        "123456782",
		BuyerName:       "משה כהן",
		BuyerID:         "987654324",
		PropertyAddress: "רחוב הרצל 10, תל אביב",
		PropertyType:    "apartment",
		BlockNumber:     "6123",
		ParcelNumber:    "456",
		AreaSqm:         95,
		Rooms:           4.5,
		Price:           2500000,
		PricePerSqm:     26315.79,
		HasMortgage:     true,
		SigningDate:     "2026-03-01",
		DeliveryDate:    "2026-06-01",
	}
}

func sampleCompliance() models.ComplianceResult {
	failed := models.CheckResult{ID: "LC-003", LawRef: "חוק המקרקעין", Description: "פרטי גוש | חלקה", Severity: models.SeverityCritical}
	return models.ComplianceResult{
		TotalChecks:      2,
		Passed:           1,
		Failed:           1,
		CriticalFailures: []models.CheckResult{failed},
		HighFailures:     []models.CheckResult{},
		Details: []models.CheckResult{
			{ID: "LC-001", LawRef: "חוק המכר", Description: "זיהוי הצדדים", Severity: models.SeverityCritical, Passed: true},
			failed,
		},
		CheckedAt: testNow,
	}
}

func TestEvaluationReport(t *testing.T) {
	md := EvaluationReport(sampleCompliance())

	for _, want := range []string{
		"# דוח הערכת תאימות משפטית",
		"**סטטוס:** ❌ לא תקין",
		"**בדיקות:** 1/2 עברו",
		"## ❌ כשלים קריטיים",
		"| ✅ | זיהוי הצדדים | חוק המכר | critical |",
		`| ❌ | פרטי גוש \| חלקה | חוק המקרקעין | critical |`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(md, "כשלים ברמה גבוהה") {
		t.Error("empty high-failure section must be omitted")
	}
}

func TestContractCard(t *testing.T) {
	q := models.QualityResult{
		Score:          95,
		Grade:          models.GradeExcellent,
		Recommendation: "Contract is ready for signing",
		Deductions:     []string{"Property has mortgage: -5 points"},
	}
	md := ContractCard(sampleRecord(), q, sampleCompliance(), testNow)

	for _, want := range []string{
		"חוזה מכר דירה בכתובת רחוב הרצל 10, תל אביב.",
		"- **גוש/חלקה:** 6123/456",
		"- **שטח:** 95 מ\"ר | **חדרים:** 4.5",
		"- **מחיר:** 2,500,000 ₪ | **מחיר למ\"ר:** 26,316 ₪",
		"### 95/100 - מצוין",
		"- Property has mortgage: -5 points",
		"- כשלים קריטיים: 1",
		"*נוצר: 2026-01-01 09:00*",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("card missing %q", want)
		}
	}
}

func TestContractCardUnknownTypeAndBlankAddress(t *testing.T) {
	rec := sampleRecord()
	rec.PropertyType = "castle"
	rec.PropertyAddress = ""
	md := ContractCard(rec, models.QualityResult{Grade: models.GradeWeak}, models.ComplianceResult{}, testNow)
	if !strings.Contains(md, "חוזה מכר נכס בכתובת לא צוין.") {
		t.Errorf("card purpose line wrong:\n%s", md)
	}
	if strings.Contains(md, "## ניכויים") {
		t.Error("deductions section must be omitted when empty")
	}
}

func TestTransactionInsights(t *testing.T) {
	md := TransactionInsights(sampleRecord(), testNow)
	for _, want := range []string{
		"- **מוכר:** ישראל ישראלי (ת.ז. 123456782)",
		"- **מחיר:** 2,500,000 ₪",
		"- **מחיר למ\"ר:** 26,316 ₪",
		"- משכנתא: כן",
		"- עיקול: לא",
		"- תאריך מסירה: 2026-06-01",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("insights missing %q", want)
		}
	}
}

func TestShekels(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999.4, "999"},
		{1234567.6, "1,234,568"},
	}
	for _, tt := range tests {
		if got := Shekels(tt.in); got != tt.want {
			t.Errorf("Shekels(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdownToHTML(t *testing.T) {
	md := "# כותרת\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>\n"
	out, err := MarkdownToHTML("כרטיס <חוזה>", md)
	if err != nil {
		t.Fatalf("MarkdownToHTML: %v", err)
	}
	if !strings.Contains(out, `dir="rtl"`) || !strings.Contains(out, "<table>") {
		t.Errorf("html missing rtl or table:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Error("script tag survived sanitization")
	}
	if !strings.Contains(out, "<title>כרטיס &lt;חוזה&gt;</title>") {
		t.Error("title must be escaped")
	}
}

func TestEDAReport(t *testing.T) {
	rec := models.Flat{
		"seller_name": "<b>ישראל</b>",
		"seller_id":   "123",
		"price":       2500000.0,
	}
	v := models.ValidationResult{
		TotalRules: 50,
		Passed:     49,
		Errors:     []models.Issue{{Rule: "seller_id_format", Field: "seller_id", Message: "ת.ז. חייבת להכיל 9 ספרות"}},
		Warnings:   []models.Issue{},
	}
	out, err := EDAReport(rec, v, testNow)
	if err != nil {
		t.Fatalf("EDAReport: %v", err)
	}

	for _, want := range []string{
		`<p class="score high">98.0%</p>`,
		"<td>❌</td><td>seller_id</td>",
		"<td>✅</td><td>price</td><td>2500000</td>",
		"&lt;b&gt;ישראל&lt;/b&gt;",
		"seller_id_format",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("eda report missing %q", want)
		}
	}
	if strings.Contains(out, "אזהרות</h2>") {
		t.Error("empty warnings table must be omitted")
	}
}

func TestFlowSummary(t *testing.T) {
	tx := &models.ProcessedTransaction{
		RunID:       "run-1",
		CompletedAt: testNow,
		Quality:     models.QualityResult{Score: 95, Grade: models.GradeExcellent, Recommendation: "ok"},
		Compliance:  models.ComplianceResult{Compliant: true},
		Validation:  models.ValidationResult{Valid: true},
	}
	b, err := NewFlowSummary(tx, map[string]string{"clean_data": "artifacts/clean_data.csv"}).Encode()
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"status", "timestamp", "quality_score", "quality_grade", "recommendation", "compliant", "validation_passed", "artifacts"} {
		if _, ok := got[key]; !ok {
			t.Errorf("flow summary missing key %q", key)
		}
	}
	if got["status"] != "completed" || got["quality_grade"] != "excellent" {
		t.Errorf("summary = %v", got)
	}
	if issues, ok := got["contract_issues"].([]any); !ok || len(issues) != 0 {
		t.Errorf("contract_issues = %v; want empty list", got["contract_issues"])
	}
}

func TestDataURL(t *testing.T) {
	if got := dataURL("<p>x</p>"); got != "data:text/html;base64,PHA+eDwvcD4=" {
		t.Errorf("dataURL = %q", got)
	}
}
