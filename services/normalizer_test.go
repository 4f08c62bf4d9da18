package services

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

const nestedSubmission = `{
  "sellers": [
    {"name": "ישראל ישראלי", "id": "123456782", "address": "רחוב הרצל 10, תל אביב", "phone": "0501234567", "email": "israel@example.com", "marital_status": "married"},
    {"name": "שרה ישראלי", "id": 18, "address": "רחוב הרצל 10, תל אביב", "phone": "0501111111", "email": "sara@example.com"}
  ],
  "buyers": [
    {"name": "משה כהן", "id": "987654324", "address": "רחוב ויצמן 5, רחובות", "phone": "0529876543", "email": "moshe@example.com"}
  ],
  "property": {"address": "רחוב הרצל 10 דירה 8, תל אביב", "block_number": 6123, "parcel_number": "456", "area_sqm": 95, "rooms": 4, "floor": 3},
  "transaction": {"price": 2500000, "signing_date": "2026-03-01", "delivery_date": "2026-06-01"},
  "seller_notes": "הדירה משופצת"
}`

func decodeNested(t *testing.T) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(nestedSubmission), &raw); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestNormalizeFlatPassThrough(t *testing.T) {
	flat := map[string]any(sampleFlat())
	got, err := Normalize(flat)
	if err != nil {
		t.Fatalf("Normalize(flat) error: %v", err)
	}
	if !reflect.DeepEqual(map[string]any(got), flat) {
		t.Errorf("Normalize(flat) changed the record")
	}
	// Same map, not a copy.
	got["marker"] = true
	if _, ok := flat["marker"]; !ok {
		t.Error("Normalize(flat) must return the input map itself")
	}
}

func TestNormalizeNested(t *testing.T) {
	flat, err := Normalize(decodeNested(t))
	if err != nil {
		t.Fatalf("Normalize(nested) error: %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{models.FieldSellerName, "ישראל ישראלי"},
		{models.FieldSellerMaritalStatus, "married"},
		{models.FieldBuyerID, "987654324"},
		{models.FieldBlockNumber, "6123"},
		{models.FieldAreaSqm, "95"},
		{models.FieldFloor, "3"},
		{models.FieldPrice, "2500000"},
		{models.FieldPropertyType, "apartment"},
		{models.FieldParking, "none"},
		{models.FieldStorage, "no"},
		{models.FieldSubParcel, ""},
		{models.FieldNotes, "הדירה משופצת"},
	}
	for _, tt := range tests {
		if got := flat[tt.key]; got != tt.want {
			t.Errorf("flat[%q] = %v; want %v", tt.key, got, tt.want)
		}
	}

	sellers := flat.Parties(models.FieldAllSellers)
	if len(sellers) != 2 {
		t.Fatalf("all_sellers len = %d; want 2", len(sellers))
	}
	if sellers[1].ID != "18" {
		t.Errorf("numeric party id decoded as %q; want %q", sellers[1].ID, "18")
	}
}

func TestNormalizeRejectsMalformedSubmission(t *testing.T) {
	raw := map[string]any{"sellers": "not a list"}
	if _, err := Normalize(raw); err == nil {
		t.Error("Normalize with sellers as a string: expected an error")
	}
}

func TestNormalizeWrongTypedValues(t *testing.T) {
	raw := decodeNested(t)
	raw["property"].(map[string]any)["address"] = float64(10)
	raw["transaction"].(map[string]any)["signing_date"] = float64(20260301)

	flat, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if flat[models.FieldPropertyAddress] != "10" {
		t.Errorf("property_address = %v; want 10", flat[models.FieldPropertyAddress])
	}
	if flat[models.FieldSigningDate] != "20260301" {
		t.Errorf("signing_date = %v; want 20260301", flat[models.FieldSigningDate])
	}
}

func TestNormalizeExplicitEmptyKeepsEmpty(t *testing.T) {
	raw := decodeNested(t)
	prop := raw["property"].(map[string]any)
	prop["property_type"] = ""
	prop["parking"] = ""
	prop["storage"] = ""
	raw["seller_notes"] = ""
	raw["notes"] = "legacy"

	flat, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	for _, key := range []string{models.FieldPropertyType, models.FieldParking, models.FieldStorage, models.FieldNotes} {
		if flat[key] != "" {
			t.Errorf("flat[%q] = %v; want empty", key, flat[key])
		}
	}

	res := newTestValidator().Validate(flat)
	if !res.HasError("property_type_required") {
		t.Errorf("errors = %+v; want property_type_required", res.Errors)
	}
}

func TestNormalizeNotesFallback(t *testing.T) {
	flat := FlattenSubmission(models.Submission{Notes: "הערה כללית"})
	if flat[models.FieldNotes] != "הערה כללית" {
		t.Errorf("notes = %v; want fallback to notes", flat[models.FieldNotes])
	}
	if _, ok := flat[models.FieldSellerName]; ok {
		t.Error("no sellers must leave seller_name unset")
	}
}

func TestDenormalizeRoundTrip(t *testing.T) {
	raw := map[string]any{
		"sellers":     []any{map[string]any{"name": "ישראל ישראלי", "id": "123456782"}},
		"buyers":      []any{map[string]any{"name": "משה כהן", "id": "987654324"}},
		"property":    map[string]any{"address": "הרצל 10", "block_number": "6123", "parcel_number": "456"},
		"transaction": map[string]any{"price": "2500000"},
	}
	flat, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	nested := Denormalize(flat)

	if got := nested.Sellers[0].Name; got != "ישראל ישראלי" {
		t.Errorf("seller name = %q; want %q", got, "ישראל ישראלי")
	}
	if got := nested.Buyers[0].Name; got != "משה כהן" {
		t.Errorf("buyer name = %q; want %q", got, "משה כהן")
	}
	if got := nested.Property.BlockNumber.String(); got != "6123" {
		t.Errorf("block number = %q; want %q", got, "6123")
	}
	if got := nested.Transaction.Price.String(); got != "2500000" {
		t.Errorf("price = %q; want %q", got, "2500000")
	}
}

func TestDenormalizeSynthesizesParty(t *testing.T) {
	nested := Denormalize(sampleFlat())
	if len(nested.Sellers) != 1 || nested.Sellers[0].ID != "123456782" {
		t.Errorf("sellers = %+v; want one party built from flat fields", nested.Sellers)
	}
	if nested.Property.Floor.String() != "3" {
		t.Errorf("floor = %q; want %q", nested.Property.Floor, "3")
	}
	if got := nested.SellerNotes.Or(""); got != "הדירה משופצת" {
		t.Errorf("seller_notes = %q", got)
	}
}

func TestDenormalizeKeepsBlankNumbers(t *testing.T) {
	flat := sampleFlat()
	flat[models.FieldFloor] = ""
	delete(flat, models.FieldRooms)

	nested := Denormalize(flat)
	if nested.Property.Floor != "" {
		t.Errorf("floor = %q; want blank", nested.Property.Floor)
	}
	if nested.Property.Rooms != "" {
		t.Errorf("rooms = %q; want blank", nested.Property.Rooms)
	}
	if nested.Property.AreaSqm == "" {
		t.Error("area_sqm must survive")
	}
}
