package services

import (
	"io"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, utils.LevelError) }

var testNow = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// sampleFlat is a complete, valid flat record.
func sampleFlat() models.Flat {
	return models.Flat{
		"seller_name":           "ישראל ישראלי",
		"seller_id":             "123456782",
		"seller_address":        "רחוב הרצל 10, תל אביב",
		"seller_phone":          "050-1234567",
		"seller_email":          "Israel@Example.com",
		"seller_marital_status": "married",
		"buyer_name":            "משה כהן",
		"buyer_id":              "987654324",
		"buyer_address":         "רחוב ויצמן 5, רחובות",
		"buyer_phone":           "0529876543",
		"buyer_email":           "moshe@example.com",
		"property_address":      "רחוב הרצל 10 דירה 8, תל אביב",
		"block_number":          "6123",
		"parcel_number":         "456",
		"sub_parcel":            "8",
		"area_sqm":              "95",
		"rooms":                 "4",
		"floor":                 "3",
		"property_type":         "apartment",
		"parking":               "covered",
		"storage":               "yes",
		"price":                 "2500000",
		"signing_date":          "2026-03-01",
		"delivery_date":         "2026-06-01",
		"notes":                 "הדירה משופצת",
	}
}

func newTestValidator() *Validator {
	return NewValidator(newTestLogger()).WithClock(fixedClock)
}

func newTestMerger() *Merger {
	return NewMerger(newTestLogger()).WithClock(fixedClock)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
