package reports

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

const generatedFooter = `*נוצר אוטומטית על ידי מערכת אוטומציית חוזי נדל"ן*`

var propertyTypeLabels = map[string]string{
	"apartment": "דירה",
	"penthouse": "פנטהאוז",
	"garden":    "דירת גן",
	"duplex":    "דופלקס",
	"house":     "בית פרטי",
	"land":      "מגרש",
}

// EvaluationReport renders the legal compliance result as Hebrew markdown.
func EvaluationReport(c models.ComplianceResult) string {
	var b strings.Builder

	status := "❌ לא תקין"
	if c.Compliant {
		status = "✅ תקין"
	}
	b.WriteString("# דוח הערכת תאימות משפטית\n\n")
	fmt.Fprintf(&b, "**תאריך:** %s\n", c.CheckedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**סטטוס:** %s\n", status)
	fmt.Fprintf(&b, "**בדיקות:** %d/%d עברו\n\n", c.Passed, c.TotalChecks)

	writeFailures(&b, "## ❌ כשלים קריטיים", c.CriticalFailures)
	writeFailures(&b, "## ⚠️ כשלים ברמה גבוהה", c.HighFailures)

	b.WriteString("## פירוט בדיקות\n\n")
	b.WriteString("| סטטוס | בדיקה | הפניה חוקית | חומרה |\n")
	b.WriteString("|--------|-------|-------------|--------|\n")
	for _, d := range c.Details {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", mark(d.Passed), cellText(d.Description), cellText(d.LawRef), d.Severity)
	}

	b.WriteString("\n---\n" + generatedFooter + "\n")
	return b.String()
}

func writeFailures(b *strings.Builder, heading string, failures []models.CheckResult) {
	if len(failures) == 0 {
		return
	}
	b.WriteString(heading + "\n")
	for _, f := range failures {
		fmt.Fprintf(b, "- **%s** (%s)\n", f.Description, f.LawRef)
	}
	b.WriteString("\n")
}

// ContractCard summarises one contract: parties, property, terms, quality
// score, compliance counts, limitations and ethical notes.
func ContractCard(rec models.CleanRecord, q models.QualityResult, c models.ComplianceResult, now time.Time) string {
	var b strings.Builder

	kind, ok := propertyTypeLabels[rec.PropertyType]
	if !ok {
		kind = "נכס"
	}
	area := rec.AreaSqm

	b.WriteString("# כרטיס חוזה - Contract Card\n\n")
	b.WriteString("## מטרת החוזה\n")
	fmt.Fprintf(&b, "חוזה מכר %s בכתובת %s.\n\n", kind, orUnspecified(rec.PropertyAddress))

	b.WriteString("## סיכום נתונים\n")
	fmt.Fprintf(&b, "- **מוכר:** %s\n", orUnspecified(rec.SellerName))
	fmt.Fprintf(&b, "- **קונה:** %s\n", orUnspecified(rec.BuyerName))
	fmt.Fprintf(&b, "- **נכס:** %s\n", orUnspecified(rec.PropertyAddress))
	fmt.Fprintf(&b, "- **גוש/חלקה:** %s/%s\n", rec.BlockNumber, rec.ParcelNumber)
	fmt.Fprintf(&b, "- **שטח:** %s מ\"ר | **חדרים:** %s\n", number(area), number(rec.Rooms))
	fmt.Fprintf(&b, "- **מחיר:** %s ₪ | **מחיר למ\"ר:** %s ₪\n", Shekels(rec.Price), Shekels(rec.Price/math.Max(area, 1)))
	fmt.Fprintf(&b, "- **תאריך חתימה:** %s\n", rec.SigningDate)
	fmt.Fprintf(&b, "- **תאריך מסירה:** %s\n\n", rec.DeliveryDate)

	b.WriteString("## ציון איכות\n")
	fmt.Fprintf(&b, "### %d/100 - %s\n", q.Score, q.Grade.Hebrew())
	fmt.Fprintf(&b, "**המלצה:** %s\n\n", q.Recommendation)

	if len(q.Deductions) > 0 {
		b.WriteString("## ניכויים\n")
		for _, d := range q.Deductions {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	b.WriteString("## תאימות משפטית\n")
	fmt.Fprintf(&b, "- בדיקות שעברו: %d/%d\n", c.Passed, c.TotalChecks)
	fmt.Fprintf(&b, "- כשלים קריטיים: %d\n", len(c.CriticalFailures))
	fmt.Fprintf(&b, "- כשלים גבוהים: %d\n\n", len(c.HighFailures))

	b.WriteString("## מגבלות\n")
	b.WriteString("- החוזה נוצר אוטומטית ודורש בדיקה של עורך דין\n")
	b.WriteString("- ייתכנו סעיפים שדורשים התאמה למקרה הספציפי\n")
	b.WriteString("- OCR על מסמכים סרוקים עלול להכיל שגיאות\n")
	b.WriteString("- יש לוודא פרטים מול נסח טאבו עדכני\n\n")

	b.WriteString("## שיקולים אתיים\n")
	b.WriteString("- המערכת אינה מחליפה ייעוץ משפטי מקצועי\n")
	b.WriteString("- יש לוודא שכל הצדדים מבינים את תנאי החוזה\n")
	b.WriteString("- הנתונים מטופלים בסודיות ובהתאם לחוק הגנת הפרטיות\n\n")

	fmt.Fprintf(&b, "---\n*נוצר: %s*\n", now.Format("2006-01-02 15:04"))
	return b.String()
}

// TransactionInsights is the business summary of a single clean record.
func TransactionInsights(rec models.CleanRecord, now time.Time) string {
	var b strings.Builder

	b.WriteString("# תובנות עסקיות - סיכום נתונים\n\n")
	b.WriteString("## פרטי העסקה\n")
	fmt.Fprintf(&b, "- **מוכר:** %s (ת.ז. %s)\n", rec.SellerName, rec.SellerID)
	fmt.Fprintf(&b, "- **קונה:** %s (ת.ז. %s)\n", rec.BuyerName, rec.BuyerID)
	if n := len(rec.AllSellers) + len(rec.AllBuyers); n > 2 {
		fmt.Fprintf(&b, "- **מספר צדדים:** %d מוכרים, %d קונים\n", len(rec.AllSellers), len(rec.AllBuyers))
	}
	fmt.Fprintf(&b, "- **נכס:** %s\n", rec.PropertyAddress)
	fmt.Fprintf(&b, "- **גוש/חלקה:** %s/%s\n", rec.BlockNumber, rec.ParcelNumber)
	fmt.Fprintf(&b, "- **שטח:** %s מ\"ר\n", number(rec.AreaSqm))
	fmt.Fprintf(&b, "- **חדרים:** %s\n", number(rec.Rooms))
	fmt.Fprintf(&b, "- **מחיר:** %s ₪\n", Shekels(rec.Price))
	fmt.Fprintf(&b, "- **מחיר למ\"ר:** %s ₪\n\n", Shekels(rec.PricePerSqm))

	b.WriteString("## סטטוס משפטי\n")
	fmt.Fprintf(&b, "- משכנתא: %s\n", yesNo(rec.HasMortgage))
	fmt.Fprintf(&b, "- עיקול: %s\n", yesNo(rec.HasLien))
	fmt.Fprintf(&b, "- הערת אזהרה: %s\n", yesNo(rec.HasWarningNote))
	fmt.Fprintf(&b, "- חריגות בנייה: %s\n\n", yesNo(rec.HasViolations))

	b.WriteString("## לוח זמנים\n")
	fmt.Fprintf(&b, "- תאריך חתימה: %s\n", rec.SigningDate)
	fmt.Fprintf(&b, "- תאריך מסירה: %s\n\n", rec.DeliveryDate)

	fmt.Fprintf(&b, "---\n*נוצר אוטומטית: %s*\n", now.Format(time.RFC3339))
	return b.String()
}

// Shekels formats an amount rounded to whole shekels with thousands
// separators.
func Shekels(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func number(f float64) string {
	return humanize.Ftoa(f)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func yesNo(b bool) string {
	if b {
		return "כן"
	}
	return "לא"
}

func orUnspecified(s string) string {
	if s == "" {
		return "לא צוין"
	}
	return s
}

// cellText keeps a value from breaking a markdown table row.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
