package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

type outcome int

const (
	outcomePass outcome = iota
	outcomeError
	outcomeWarning
)

// Rule is one named validation rule bound to a field. Exactly one of Check
// (a predicate over the field's value) or Record (a predicate over the whole
// record, for cross-field and date-relative rules) is set.
type Rule struct {
	Name    string
	Field   string
	Message string
	Check   func(v any) (bool, error)
	Record  func(rec models.Flat, today time.Time) (outcome, error)
}

const (
	RuleDifferentParties      = "different_parties"
	RuleDeliveryAfterSigning  = "delivery_after_signing"
	RulePricePerSqmReasonable = "price_per_sqm_reasonable"
	RuleFutureSigningDate     = "future_signing_date"
	RuleSellerNotBuyerName    = "seller_name_not_buyer_name"
)

const (
	MinPricePerSqm = 5000.0
	MaxPricePerSqm = 200000.0
)

var (
	propertyTypes   = []string{"apartment", "penthouse", "garden", "duplex", "house", "land"}
	maritalStatuses = []string{"single", "married", "divorced", "widowed"}
	parkingKinds    = []string{"none", "covered", "uncovered", "underground"}
	storageValues   = []string{"yes", "no"}
)

// ValidationRules is the fixed, ordered rule registry. It is built once and
// never mutated.
var ValidationRules = buildValidationRules()

func buildValidationRules() []Rule {
	rules := make([]Rule, 0, 50)
	rules = append(rules, partyRules("seller")...)
	rules = append(rules, partyRules("buyer")...)
	rules = append(rules,
		Rule{Name: "property_address_required", Field: models.FieldPropertyAddress, Message: "property address is missing", Check: required},
		Rule{Name: "property_address_length", Field: models.FieldPropertyAddress, Message: "property address is too short", Check: minLength(5)},
		Rule{Name: "block_required", Field: models.FieldBlockNumber, Message: "block number is missing", Check: required},
		Rule{Name: "block_valid", Field: models.FieldBlockNumber, Message: "block number is invalid", Check: matches(ValidBlockNumber)},
		Rule{Name: "parcel_required", Field: models.FieldParcelNumber, Message: "parcel number is missing", Check: required},
		Rule{Name: "parcel_valid", Field: models.FieldParcelNumber, Message: "parcel number is invalid", Check: matches(ValidParcelNumber)},
		Rule{Name: "area_required", Field: models.FieldAreaSqm, Message: "property area is missing", Check: present},
		Rule{Name: "area_valid", Field: models.FieldAreaSqm, Message: "property area is not plausible (10-5000 sqm)", Check: numberIn(10, 5000)},
		Rule{Name: "rooms_required", Field: models.FieldRooms, Message: "room count is missing", Check: present},
		Rule{Name: "rooms_valid", Field: models.FieldRooms, Message: "room count is not plausible (1-20)", Check: numberIn(1, 20)},
		Rule{Name: "property_type_required", Field: models.FieldPropertyType, Message: "property type is invalid", Check: oneOf(propertyTypes...)},

		Rule{Name: "price_required", Field: models.FieldPrice, Message: "transaction price is missing", Check: present},
		Rule{Name: "price_valid", Field: models.FieldPrice, Message: "price is not plausible (50,000-100,000,000 ILS)", Check: numberIn(50000, 100000000)},
		Rule{Name: "signing_date_required", Field: models.FieldSigningDate, Message: "signing date is missing", Check: required},
		Rule{Name: "signing_date_valid", Field: models.FieldSigningDate, Message: "signing date is invalid", Check: matches(ValidDate)},
		Rule{Name: "delivery_date_required", Field: models.FieldDeliveryDate, Message: "delivery date is missing", Check: required},
		Rule{Name: "delivery_date_valid", Field: models.FieldDeliveryDate, Message: "delivery date is invalid", Check: matches(ValidDate)},

		Rule{Name: RuleDifferentParties, Field: models.FieldSellerID, Message: "seller and buyer ID numbers are identical", Record: differentParties},
		Rule{Name: RuleDeliveryAfterSigning, Field: models.FieldSigningDate, Message: "delivery date must be on or after the signing date", Record: deliveryAfterSigning},

		Rule{Name: "seller_marital_valid", Field: models.FieldSellerMaritalStatus, Message: "seller marital status is invalid", Check: optionalOneOf(maritalStatuses...)},
		Rule{Name: "parking_valid", Field: models.FieldParking, Message: "parking type is invalid", Check: optionalOneOf(parkingKinds...)},
		Rule{Name: "storage_valid", Field: models.FieldStorage, Message: "storage field is invalid", Check: optionalOneOf(storageValues...)},
		Rule{Name: "floor_valid", Field: models.FieldFloor, Message: "floor is not plausible", Check: floorInRange},
		Rule{Name: RulePricePerSqmReasonable, Field: models.FieldPrice, Message: "price per sqm is not plausible", Record: pricePerSqmReasonable},
		Rule{Name: RuleFutureSigningDate, Field: models.FieldSigningDate, Message: "signing date must not be in the past", Record: futureSigningDate},
		Rule{Name: "notes_length", Field: models.FieldNotes, Message: "notes are too long (max 5000 characters)", Check: notesLength},
		Rule{Name: "sub_parcel_valid", Field: models.FieldSubParcel, Message: "sub-parcel is invalid", Check: optionalMatches(ValidSubParcel)},
		Rule{Name: RuleSellerNotBuyerName, Field: models.FieldSellerName, Message: "seller name is identical to buyer name", Record: sellerNotBuyerName},
	)
	return rules
}

// partyRules builds the eleven identity/contact rules for one side.
func partyRules(side string) []Rule {
	f := func(suffix string) string { return side + "_" + suffix }
	return []Rule{
		{Name: f("name_required"), Field: f("name"), Message: side + " name is missing", Check: required},
		{Name: f("name_hebrew"), Field: f("name"), Message: side + " name must contain Hebrew letters", Check: matches(HasHebrew)},
		{Name: f("name_length"), Field: f("name"), Message: side + " name must be 2-100 characters", Check: lengthBetween(2, 100)},
		{Name: f("id_required"), Field: f("id"), Message: side + " ID number is missing", Check: required},
		{Name: f("id_valid"), Field: f("id"), Message: side + " ID number is invalid", Check: matches(ValidIsraeliID)},
		{Name: f("address_required"), Field: f("address"), Message: side + " address is missing", Check: required},
		{Name: f("address_length"), Field: f("address"), Message: side + " address is too short", Check: minLength(5)},
		{Name: f("phone_required"), Field: f("phone"), Message: side + " phone is missing", Check: required},
		{Name: f("phone_valid"), Field: f("phone"), Message: side + " phone is invalid", Check: matches(ValidIsraeliPhone)},
		{Name: f("email_required"), Field: f("email"), Message: side + " email is missing", Check: required},
		{Name: f("email_valid"), Field: f("email"), Message: side + " email is invalid", Check: matches(ValidEmail)},
	}
}

func required(v any) (bool, error) { return truthy(v), nil }

func present(v any) (bool, error) { return nonBlank(v), nil }

func matches(pred func(string) bool) func(any) (bool, error) {
	return func(v any) (bool, error) {
		return pred(asString(v)), nil
	}
}

func optionalMatches(pred func(string) bool) func(any) (bool, error) {
	return func(v any) (bool, error) {
		if !truthy(v) {
			return true, nil
		}
		return pred(asString(v)), nil
	}
}

func lengthBetween(min, max int) func(any) (bool, error) {
	return func(v any) (bool, error) {
		n := utf8.RuneCountInString(strings.TrimSpace(asString(v)))
		return n >= min && n <= max, nil
	}
}

func minLength(min int) func(any) (bool, error) {
	return func(v any) (bool, error) {
		return utf8.RuneCountInString(strings.TrimSpace(asString(v))) >= min, nil
	}
}

func numberIn(lo, hi float64) func(any) (bool, error) {
	return func(v any) (bool, error) {
		f, err := toFloat(v)
		if err != nil {
			return false, err
		}
		return f >= lo && f <= hi, nil
	}
}

// oneOf requires an exact enum match; an empty value fails.
func oneOf(allowed ...string) func(any) (bool, error) {
	return func(v any) (bool, error) {
		s, ok := v.(string)
		if !ok {
			return false, fmt.Errorf("expected text, got %T", v)
		}
		for _, a := range allowed {
			if s == a {
				return true, nil
			}
		}
		return false, nil
	}
}

// optionalOneOf is oneOf that lets missing values through.
func optionalOneOf(allowed ...string) func(any) (bool, error) {
	strict := oneOf(allowed...)
	return func(v any) (bool, error) {
		if !truthy(v) {
			return true, nil
		}
		return strict(v)
	}
}

func floorInRange(v any) (bool, error) {
	if !truthy(v) {
		return true, nil
	}
	n, err := toInt(v)
	if err != nil {
		return false, err
	}
	return n >= -5 && n <= 100, nil
}

func notesLength(v any) (bool, error) {
	if !truthy(v) {
		return true, nil
	}
	return utf8.RuneCountInString(asString(v)) <= 5000, nil
}

func differentParties(rec models.Flat, _ time.Time) (outcome, error) {
	seller, buyer := rec.Get(models.FieldSellerID), rec.Get(models.FieldBuyerID)
	if truthy(seller) && truthy(buyer) && asString(seller) == asString(buyer) {
		return outcomeError, nil
	}
	return outcomePass, nil
}

func deliveryAfterSigning(rec models.Flat, _ time.Time) (outcome, error) {
	signing, errS := time.Parse(models.DateLayout, asString(rec.Get(models.FieldSigningDate)))
	delivery, errD := time.Parse(models.DateLayout, asString(rec.Get(models.FieldDeliveryDate)))
	if errS != nil || errD != nil {
		return outcomePass, nil
	}
	if delivery.Before(signing) {
		return outcomeError, nil
	}
	return outcomePass, nil
}

func sellerNotBuyerName(rec models.Flat, _ time.Time) (outcome, error) {
	seller, buyer := rec.Get(models.FieldSellerName), rec.Get(models.FieldBuyerName)
	if truthy(seller) && truthy(buyer) && asString(seller) == asString(buyer) {
		return outcomeWarning, nil
	}
	return outcomePass, nil
}

// pricePerSqmReasonable warns on implausible ratios. A ratio that cannot be
// computed passes.
func pricePerSqmReasonable(rec models.Flat, _ time.Time) (outcome, error) {
	var rawPrice, rawArea any = 0.0, 1.0
	if rec.Has(models.FieldPrice) {
		rawPrice = rec[models.FieldPrice]
	}
	if rec.Has(models.FieldAreaSqm) {
		rawArea = rec[models.FieldAreaSqm]
	}

	price, err := toFloat(rawPrice)
	if err != nil {
		return outcomePass, nil
	}
	area, err := toFloat(rawArea)
	if err != nil || area == 0 {
		return outcomePass, nil
	}

	ppsm := price / area
	if ppsm < MinPricePerSqm || ppsm > MaxPricePerSqm {
		return outcomeWarning, nil
	}
	return outcomePass, nil
}

func futureSigningDate(rec models.Flat, today time.Time) (outcome, error) {
	v := rec.Get(models.FieldSigningDate)
	if !truthy(v) {
		return outcomePass, nil
	}
	signing, err := time.Parse(models.DateLayout, asString(v))
	if err != nil {
		return outcomeError, err
	}
	if signing.Before(today) {
		return outcomeError, nil
	}
	return outcomePass, nil
}
