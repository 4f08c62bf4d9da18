package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

var (
	// phoneSeparators are stripped before a phone number is stored
	phoneSeparators = regexp.MustCompile(`[\s\-\(\)\+]`)
	// phoneLayout matches a local Israeli landline or mobile number
	phoneLayout = regexp.MustCompile(`^0[2-9]\d{7,8}$`)
	// priceNoise is everything that is not part of a decimal number
	priceNoise = regexp.MustCompile(`[^\d.]`)

	emailRegexp     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	blockRegexp     = regexp.MustCompile(`^\d{1,6}$`)
	parcelRegexp    = regexp.MustCompile(`^\d{1,5}$`)
	subParcelRegexp = regexp.MustCompile(`^\d{1,4}$`)
)

// CleanPhone strips separators and rewrites the 972 country code to a
// leading zero.
func CleanPhone(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := phoneSeparators.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "972") {
		cleaned = "0" + cleaned[3:]
	}
	return cleaned
}

// CleanID trims an ID number and left-pads it with zeros to 9 characters.
func CleanID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if n := len(id); n < 9 {
		id = strings.Repeat("0", 9-n) + id
	}
	return id
}

// CleanName strips leading/trailing whitespace and collapses internal runs.
func CleanName(name string) string {
	fields := strings.FieldsFunc(name, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// CleanPrice keeps only digits and dots and parses the rest. Anything
// unparsable is 0.
func CleanPrice(price any) float64 {
	var raw string
	switch p := price.(type) {
	case nil:
		return 0
	case string:
		raw = p
	case float64:
		raw = strconv.FormatFloat(p, 'f', -1, 64)
	case int:
		raw = strconv.Itoa(p)
	case int64:
		raw = strconv.FormatInt(p, 10)
	default:
		raw = asString(p)
	}

	cleaned := priceNoise.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ValidIsraeliID checks the 9-digit national ID checksum: digits are
// weighted 1,2,1,2,... and two-digit products are reduced by 9.
func ValidIsraeliID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || !allDigits(id) {
		return false
	}
	if n := len(id); n < 9 {
		id = strings.Repeat("0", 9-n) + id
	}
	if len(id) != 9 {
		return false
	}

	total := 0
	for i := 0; i < len(id); i++ {
		val := int(id[i]-'0') * (i%2 + 1)
		if val > 9 {
			val -= 9
		}
		total += val
	}
	return total%10 == 0
}

// ValidIsraeliPhone accepts 9 or 10 digit local numbers, ignoring spaces,
// hyphens and parentheses.
func ValidIsraeliPhone(phone string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, phone)
	return phoneLayout.MatchString(cleaned)
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// ValidBlockNumber reports whether block is a land-registry block (gush) number.
func ValidBlockNumber(block string) bool {
	return blockRegexp.MatchString(strings.TrimSpace(block))
}

// ValidParcelNumber reports whether parcel is a parcel (helka) number.
func ValidParcelNumber(parcel string) bool {
	return parcelRegexp.MatchString(strings.TrimSpace(parcel))
}

// ValidSubParcel reports whether sub is a sub-parcel (tat-helka) number.
func ValidSubParcel(sub string) bool {
	return subParcelRegexp.MatchString(strings.TrimSpace(sub))
}

// HasHebrew reports whether s contains at least one Hebrew letter.
func HasHebrew(s string) bool {
	for _, r := range s {
		if r >= 0x0590 && r <= 0x05FF {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
