package services

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

// Land-registry (Tabu) extract patterns.
var (
	tabuBlock       = regexp.MustCompile(`גוש[:\s]*(\d+)`)
	parcelWord      = regexp.MustCompile(`חלקה[:\s]*(\d+)`)
	tabuSubParcel   = regexp.MustCompile(`תת[- ]?חלקה[:\s]*(\d+)`)
	tabuArea        = regexp.MustCompile(`שטח[:\s]*([\d.]+)\s*(?:מ"?ר|מטר)`)
	tabuOwner       = regexp.MustCompile(`(?:בעלים|שם הבעלים)[:\s]*(.+?)(?:\n|$)`)
	tabuMortgage    = regexp.MustCompile(`משכנתא|שעבוד`)
	tabuLien        = regexp.MustCompile(`עיקול`)
	tabuWarningNote = regexp.MustCompile(`הערת אזהרה`)
	tabuRights      = regexp.MustCompile(`(?:זכויות|סוג הזכות)[:\s]*(.+?)(?:\n|$)`)
)

// Municipal record patterns.
var (
	municipalZoning     = regexp.MustCompile(`(?:ייעוד|אזור)[:\s]*(.+?)(?:\n|$)`)
	municipalPermit     = regexp.MustCompile(`היתר בנייה[:\s]*(.+?)(?:\n|$)`)
	municipalViolations = regexp.MustCompile(`חריגות? בנייה|חריגה`)
	municipalTax        = regexp.MustCompile(`(?:ארנונה|חיוב)[:\s]*([\d,.]+)`)
)

// ParseTabu extracts registry fields from the text of a land-registry
// extract. Flags are always set; other fields only when found.
func ParseTabu(text string) models.OCRData {
	var d models.OCRData
	d.BlockNumber = firstGroup(tabuBlock, text)
	d.SubParcel = firstGroup(tabuSubParcel, text)
	d.ParcelNumber = parcelNumber(text)
	if s := firstGroup(tabuArea, text); s != nil {
		if area, err := strconv.ParseFloat(*s, 64); err == nil {
			d.AreaSqm = &area
		}
	}
	d.RegisteredOwner = trimmedGroup(tabuOwner, text)
	d.HasMortgage = flag(tabuMortgage.MatchString(text))
	d.HasLien = flag(tabuLien.MatchString(text))
	d.HasWarningNote = flag(tabuWarningNote.MatchString(text))
	d.RightsType = trimmedGroup(tabuRights, text)
	return d
}

// ParseMunicipal extracts zoning, permit, violation and property-tax fields
// from the text of a municipal record.
func ParseMunicipal(text string) models.OCRData {
	var d models.OCRData
	d.Zoning = trimmedGroup(municipalZoning, text)
	d.BuildingPermit = trimmedGroup(municipalPermit, text)
	d.HasViolations = flag(municipalViolations.MatchString(text))
	d.PropertyTax = firstGroup(municipalTax, text)
	return d
}

// ParseDocument picks the parser from the file name: names mentioning tabu
// are registry extracts, anything else is a municipal record.
func ParseDocument(name, text string) models.OCRData {
	base := strings.ToLower(filepath.Base(name))
	if strings.Contains(base, "tabu") || strings.Contains(base, "טאבו") {
		return ParseTabu(text)
	}
	return ParseMunicipal(text)
}

// parcelNumber finds the first "חלקה" that is not part of "תת-חלקה".
func parcelNumber(text string) *string {
	for _, loc := range parcelWord.FindAllStringSubmatchIndex(text, -1) {
		prefix := text[:loc[0]]
		if strings.HasSuffix(prefix, "תת-") || strings.HasSuffix(prefix, "תת ") || strings.HasSuffix(prefix, "תת") {
			continue
		}
		v := text[loc[2]:loc[3]]
		return &v
	}
	return nil
}

func firstGroup(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &m[1]
}

func trimmedGroup(re *regexp.Regexp, text string) *string {
	m := firstGroup(re, text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(*m)
	return &v
}

func flag(b bool) *bool { return &b }
