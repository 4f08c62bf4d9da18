package reports

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"math"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

const documentCSS = `body{font-family:'Segoe UI',Arial,sans-serif;direction:rtl;padding:20px;background:#fff;color:#1c1917;}
.container{max-width:900px;margin:0 auto;}
h1{color:#1a237e;} h2{color:#283593;}
table{width:100%;border-collapse:collapse;margin:15px 0;font-size:0.9rem;}
th,td{border:1px solid #bbb;padding:6px 8px;text-align:right;vertical-align:top;}
thead th{background:#e8eaf6;}
@media print{@page{size:A4;margin:12mm;} body{padding:0;}}`

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// Table markup from GFM survives; scripts, styles and event handlers
	// do not.
	contentPolicy = bluemonday.UGCPolicy()
)

// MarkdownToHTML converts a markdown report into a standalone right-to-left
// HTML document.
func MarkdownToHTML(title, md string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("reports: markdown convert: %w", err)
	}
	safe := contentPolicy.SanitizeBytes(body.Bytes())

	return "<!doctype html><html lang=\"he\" dir=\"rtl\"><head><meta charset=\"utf-8\">" +
		"<title>" + html.EscapeString(title) + "</title>" +
		"<style>" + documentCSS + "</style></head><body><div class=\"container\">" +
		string(safe) +
		"</div></body></html>", nil
}

var edaTemplate = template.Must(template.New("eda").Parse(`<!DOCTYPE html>
<html lang="he" dir="rtl">
<head>
<meta charset="UTF-8">
<title>דוח ניתוח נתונים - EDA Report</title>
<style>
body { font-family: 'Segoe UI', sans-serif; direction: rtl; padding: 20px; background: #f0f0f0; }
.container { max-width: 900px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; }
h1 { color: #1a237e; text-align: center; }
h2 { color: #283593; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; }
th, td { border: 1px solid #ddd; padding: 10px; text-align: right; }
th { background: #3f51b5; color: white; }
.error { color: #d32f2f; font-weight: bold; }
.warning { color: #f57c00; }
.score { font-size: 48px; text-align: center; }
.score.high { color: #4caf50; } .score.mid { color: #f57c00; } .score.low { color: #d32f2f; }
.summary { background: #e8eaf6; padding: 15px; border-radius: 4px; margin: 15px 0; }
</style>
</head>
<body>
<div class="container">
<h1>📊 דוח ניתוח נתונים (EDA)</h1>
<div class="summary">
<p class="score {{.ScoreClass}}">{{.Score}}%</p>
<p style="text-align:center;">ציון איכות נתונים</p>
<p>סה"כ כללים: {{.Result.TotalRules}} | עברו: {{.Result.Passed}} | שגיאות: {{len .Result.Errors}} | אזהרות: {{len .Result.Warnings}}</p>
</div>

<h2>סקירת שדות</h2>
<table>
<tr><th>סטטוס</th><th>שדה</th><th>ערך</th></tr>
{{range .Fields}}<tr><td>{{if .Failed}}❌{{else}}✅{{end}}</td><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .Result.Errors}}
<h2>שגיאות</h2>
<table><tr><th>כלל</th><th>שדה</th><th>הודעה</th></tr>
{{range .Result.Errors}}<tr><td>{{.Rule}}</td><td>{{.Field}}</td><td class="error">{{.Message}}</td></tr>
{{end}}</table>
{{end}}{{if .Result.Warnings}}
<h2>אזהרות</h2>
<table><tr><th>כלל</th><th>שדה</th><th>הודעה</th></tr>
{{range .Result.Warnings}}<tr><td>{{.Rule}}</td><td>{{.Field}}</td><td class="warning">{{.Message}}</td></tr>
{{end}}</table>
{{end}}
<p style="text-align:center; color:#999; margin-top:30px;">נוצר אוטומטית על ידי מערכת אוטומציית חוזי נדל"ן | {{.Generated}}</p>
</div>
</body>
</html>
`))

type edaField struct {
	Name   string
	Value  string
	Failed bool
}

// EDAReport renders the validation result for the submitted record as an
// HTML data-quality report. Field values are user input and are escaped.
func EDAReport(rec models.Flat, v models.ValidationResult, now time.Time) (string, error) {
	names := make([]string, 0, len(rec))
	for k := range rec {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make([]edaField, 0, len(names))
	for _, k := range names {
		fields = append(fields, edaField{
			Name:   k,
			Value:  displayValue(rec[k]),
			Failed: v.FieldFailed(k),
		})
	}

	score := v.QualityPercent()
	data := struct {
		Score      string
		ScoreClass string
		Result     models.ValidationResult
		Fields     []edaField
		Generated  string
	}{
		Score:      fmt.Sprintf("%.1f", score),
		ScoreClass: scoreClass(score),
		Result:     v,
		Fields:     fields,
		Generated:  now.Format("2006-01-02 15:04"),
	}

	var buf bytes.Buffer
	if err := edaTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("reports: eda template: %w", err)
	}
	return buf.String(), nil
}

func scoreClass(score float64) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 50:
		return "mid"
	}
	return "low"
}

func displayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) {
			return fmt.Sprintf("%.0f", x)
		}
		return fmt.Sprint(x)
	case []models.Party:
		s := ""
		for i, p := range x {
			if i > 0 {
				s += ", "
			}
			s += p.Name
		}
		return s
	}
	return fmt.Sprint(v)
}
