package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Flat record keys.
const (
	FieldSellerName          = "seller_name"
	FieldSellerID            = "seller_id"
	FieldSellerAddress       = "seller_address"
	FieldSellerPhone         = "seller_phone"
	FieldSellerEmail         = "seller_email"
	FieldSellerMaritalStatus = "seller_marital_status"

	FieldBuyerName          = "buyer_name"
	FieldBuyerID            = "buyer_id"
	FieldBuyerAddress       = "buyer_address"
	FieldBuyerPhone         = "buyer_phone"
	FieldBuyerEmail         = "buyer_email"
	FieldBuyerMaritalStatus = "buyer_marital_status"

	FieldPropertyAddress = "property_address"
	FieldBlockNumber     = "block_number"
	FieldParcelNumber    = "parcel_number"
	FieldSubParcel       = "sub_parcel"
	FieldAreaSqm         = "area_sqm"
	FieldRooms           = "rooms"
	FieldFloor           = "floor"
	FieldPropertyType    = "property_type"
	FieldParking         = "parking"
	FieldStorage         = "storage"

	FieldPrice        = "price"
	FieldSigningDate  = "signing_date"
	FieldDeliveryDate = "delivery_date"
	FieldNotes        = "notes"

	FieldRegisteredOwner = "registered_owner"
	FieldHasMortgage     = "has_mortgage"
	FieldHasLien         = "has_lien"
	FieldHasWarningNote  = "has_warning_note"
	FieldRightsType      = "rights_type"
	FieldZoning          = "zoning"
	FieldHasViolations   = "has_violations"
	FieldBuildingPermit  = "building_permit"
	FieldPropertyTax     = "property_tax"

	FieldPricePerSqm = "price_per_sqm"
	FieldProcessedAt = "processed_at"

	FieldAllSellers = "all_sellers"
	FieldAllBuyers  = "all_buyers"
)

// DateLayout is the only date format accepted for signing/delivery dates.
const DateLayout = "2006-01-02"

// Party is one seller or buyer.
type Party struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	MaritalStatus string `json:"marital_status"`
}

// UnmarshalJSON accepts numeric IDs and phones as well as strings.
func (p *Party) UnmarshalJSON(b []byte) error {
	var aux struct {
		Name          FlexString `json:"name"`
		ID            FlexString `json:"id"`
		Address       FlexString `json:"address"`
		Phone         FlexString `json:"phone"`
		Email         FlexString `json:"email"`
		MaritalStatus FlexString `json:"marital_status"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Party{
		Name:          string(aux.Name),
		ID:            string(aux.ID),
		Address:       string(aux.Address),
		Phone:         string(aux.Phone),
		Email:         string(aux.Email),
		MaritalStatus: string(aux.MaritalStatus),
	}
	return nil
}

// Flat is the single-level field-name-to-value record used at the data
// entry boundary. Values are strings, numbers or booleans, except
// all_sellers/all_buyers which hold []Party.
type Flat map[string]any

// Has reports whether key is present, even with an empty value.
func (f Flat) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Get returns the value for key, or "" when absent.
func (f Flat) Get(key string) any {
	if v, ok := f[key]; ok {
		return v
	}
	return ""
}

// Parties returns the party list stored under key, accepting both []Party
// and decoded JSON ([]any of objects).
func (f Flat) Parties(key string) []Party {
	return PartiesFrom(f[key])
}

// PartiesFrom converts a decoded party list into []Party. Entries that are
// not objects are skipped.
func PartiesFrom(v any) []Party {
	switch list := v.(type) {
	case nil:
		return nil
	case []Party:
		return list
	case []map[string]any:
		out := make([]Party, 0, len(list))
		for _, m := range list {
			out = append(out, partyFromMap(m))
		}
		return out
	case []any:
		out := make([]Party, 0, len(list))
		for _, item := range list {
			switch p := item.(type) {
			case map[string]any:
				out = append(out, partyFromMap(p))
			case Party:
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func partyFromMap(m map[string]any) Party {
	s := func(k string) string {
		v, ok := m[k]
		if !ok || v == nil {
			return ""
		}
		if str, ok := v.(string); ok {
			return str
		}
		return fmt.Sprint(v)
	}
	return Party{
		Name:          s("name"),
		ID:            s("id"),
		Address:       s("address"),
		Phone:         s("phone"),
		Email:         s("email"),
		MaritalStatus: s("marital_status"),
	}
}

// FlexString is a string that also decodes from JSON numbers, booleans and
// null, so form payloads may send "95" or 95 interchangeably.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = FlexString(n.String())
		return nil
	}
	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil {
		*s = FlexString(strconv.FormatBool(flag))
		return nil
	}
	return fmt.Errorf("models: cannot decode %s as string or number", string(b))
}

func (s FlexString) String() string { return string(s) }

// PropertyInfo is the property section of a nested submission. The
// defaulted fields are pointers so an explicit "" stays distinguishable
// from an absent key.
type PropertyInfo struct {
	Address      FlexString  `json:"address"`
	BlockNumber  FlexString  `json:"block_number"`
	ParcelNumber FlexString  `json:"parcel_number"`
	SubParcel    FlexString  `json:"sub_parcel"`
	AreaSqm      FlexString  `json:"area_sqm"`
	Rooms        FlexString  `json:"rooms"`
	Floor        FlexString  `json:"floor"`
	PropertyType *FlexString `json:"property_type,omitempty"`
	Parking      *FlexString `json:"parking,omitempty"`
	Storage      *FlexString `json:"storage,omitempty"`
}

// TransactionTerms is the transaction section of a nested submission.
type TransactionTerms struct {
	Price        FlexString `json:"price"`
	SigningDate  FlexString `json:"signing_date"`
	DeliveryDate FlexString `json:"delivery_date"`
}

// Submission is the nested, multi-party format produced by intake forms.
type Submission struct {
	Sellers     []Party          `json:"sellers"`
	Buyers      []Party          `json:"buyers"`
	Property    PropertyInfo     `json:"property"`
	Transaction TransactionTerms `json:"transaction"`
	SellerNotes *FlexString      `json:"seller_notes,omitempty"`
	Notes       FlexString       `json:"notes,omitempty"`
}

// Flex returns a pointer to s as a FlexString.
func Flex(s string) *FlexString {
	v := FlexString(s)
	return &v
}

// Or returns the value, or def when s is nil.
func (s *FlexString) Or(def string) string {
	if s == nil {
		return def
	}
	return string(*s)
}

// OCRData holds fields extracted from scanned land-registry and municipal
// documents. A nil field was not found in any document.
type OCRData struct {
	BlockNumber     *string  `json:"block_number,omitempty" yaml:"block_number,omitempty"`
	ParcelNumber    *string  `json:"parcel_number,omitempty" yaml:"parcel_number,omitempty"`
	SubParcel       *string  `json:"sub_parcel,omitempty" yaml:"sub_parcel,omitempty"`
	AreaSqm         *float64 `json:"area_sqm,omitempty" yaml:"area_sqm,omitempty"`
	RegisteredOwner *string  `json:"registered_owner,omitempty" yaml:"registered_owner,omitempty"`
	HasMortgage     *bool    `json:"has_mortgage,omitempty" yaml:"has_mortgage,omitempty"`
	HasLien         *bool    `json:"has_lien,omitempty" yaml:"has_lien,omitempty"`
	HasWarningNote  *bool    `json:"has_warning_note,omitempty" yaml:"has_warning_note,omitempty"`
	RightsType      *string  `json:"rights_type,omitempty" yaml:"rights_type,omitempty"`
	Zoning          *string  `json:"zoning,omitempty" yaml:"zoning,omitempty"`
	HasViolations   *bool    `json:"has_violations,omitempty" yaml:"has_violations,omitempty"`
	BuildingPermit  *string  `json:"building_permit,omitempty" yaml:"building_permit,omitempty"`
	PropertyTax     *string  `json:"property_tax,omitempty" yaml:"property_tax,omitempty"`
}

// Empty reports whether no field was extracted.
func (o *OCRData) Empty() bool {
	if o == nil {
		return true
	}
	return o.BlockNumber == nil && o.ParcelNumber == nil && o.SubParcel == nil &&
		o.AreaSqm == nil && o.RegisteredOwner == nil && o.HasMortgage == nil &&
		o.HasLien == nil && o.HasWarningNote == nil && o.RightsType == nil &&
		o.Zoning == nil && o.HasViolations == nil && o.BuildingPermit == nil &&
		o.PropertyTax == nil
}

// Overlay copies every field set in other over o; later documents win.
func (o *OCRData) Overlay(other OCRData) {
	if other.BlockNumber != nil {
		o.BlockNumber = other.BlockNumber
	}
	if other.ParcelNumber != nil {
		o.ParcelNumber = other.ParcelNumber
	}
	if other.SubParcel != nil {
		o.SubParcel = other.SubParcel
	}
	if other.AreaSqm != nil {
		o.AreaSqm = other.AreaSqm
	}
	if other.RegisteredOwner != nil {
		o.RegisteredOwner = other.RegisteredOwner
	}
	if other.HasMortgage != nil {
		o.HasMortgage = other.HasMortgage
	}
	if other.HasLien != nil {
		o.HasLien = other.HasLien
	}
	if other.HasWarningNote != nil {
		o.HasWarningNote = other.HasWarningNote
	}
	if other.RightsType != nil {
		o.RightsType = other.RightsType
	}
	if other.Zoning != nil {
		o.Zoning = other.Zoning
	}
	if other.HasViolations != nil {
		o.HasViolations = other.HasViolations
	}
	if other.BuildingPermit != nil {
		o.BuildingPermit = other.BuildingPermit
	}
	if other.PropertyTax != nil {
		o.PropertyTax = other.PropertyTax
	}
}

// CleanRecord is the merged, cleaned and defaulted transaction record every
// downstream stage consumes. All schema fields are always present.
type CleanRecord struct {
	SellerName          string `json:"seller_name"`
	SellerID            string `json:"seller_id"`
	SellerAddress       string `json:"seller_address"`
	SellerPhone         string `json:"seller_phone"`
	SellerEmail         string `json:"seller_email"`
	SellerMaritalStatus string `json:"seller_marital_status"`

	BuyerName    string `json:"buyer_name"`
	BuyerID      string `json:"buyer_id"`
	BuyerAddress string `json:"buyer_address"`
	BuyerPhone   string `json:"buyer_phone"`
	BuyerEmail   string `json:"buyer_email"`

	PropertyAddress string  `json:"property_address"`
	PropertyType    string  `json:"property_type"`
	Parking         string  `json:"parking"`
	Storage         string  `json:"storage"`
	Notes           string  `json:"notes"`
	BlockNumber     string  `json:"block_number"`
	ParcelNumber    string  `json:"parcel_number"`
	SubParcel       string  `json:"sub_parcel"`
	AreaSqm         float64 `json:"area_sqm"`

	RegisteredOwner string `json:"registered_owner"`
	HasMortgage     bool   `json:"has_mortgage"`
	HasLien         bool   `json:"has_lien"`
	HasWarningNote  bool   `json:"has_warning_note"`
	RightsType      string `json:"rights_type"`
	Zoning          string `json:"zoning"`
	HasViolations   bool   `json:"has_violations"`
	BuildingPermit  string `json:"building_permit"`
	PropertyTax     string `json:"property_tax"`

	Rooms        float64 `json:"rooms"`
	Floor        int     `json:"floor"`
	Price        float64 `json:"price"`
	SigningDate  string  `json:"signing_date"`
	DeliveryDate string  `json:"delivery_date"`

	PricePerSqm float64   `json:"price_per_sqm"`
	ProcessedAt time.Time `json:"processed_at"`

	AllSellers []Party `json:"all_sellers,omitempty"`
	AllBuyers  []Party `json:"all_buyers,omitempty"`
}

// CleanColumns is the column order of the clean record's scalar fields.
var CleanColumns = []string{
	FieldSellerName, FieldSellerID, FieldSellerAddress, FieldSellerPhone, FieldSellerEmail, FieldSellerMaritalStatus,
	FieldBuyerName, FieldBuyerID, FieldBuyerAddress, FieldBuyerPhone, FieldBuyerEmail,
	FieldPropertyAddress, FieldPropertyType, FieldParking, FieldStorage, FieldNotes,
	FieldBlockNumber, FieldParcelNumber, FieldSubParcel, FieldAreaSqm,
	FieldRegisteredOwner, FieldHasMortgage, FieldHasLien, FieldHasWarningNote,
	FieldRightsType, FieldZoning, FieldHasViolations, FieldBuildingPermit, FieldPropertyTax,
	FieldRooms, FieldFloor, FieldPrice, FieldSigningDate, FieldDeliveryDate,
	FieldPricePerSqm, FieldProcessedAt,
}

// Map returns the scalar fields keyed by their flat names.
func (r CleanRecord) Map() map[string]any {
	return map[string]any{
		FieldSellerName:          r.SellerName,
		FieldSellerID:            r.SellerID,
		FieldSellerAddress:       r.SellerAddress,
		FieldSellerPhone:         r.SellerPhone,
		FieldSellerEmail:         r.SellerEmail,
		FieldSellerMaritalStatus: r.SellerMaritalStatus,
		FieldBuyerName:           r.BuyerName,
		FieldBuyerID:             r.BuyerID,
		FieldBuyerAddress:        r.BuyerAddress,
		FieldBuyerPhone:          r.BuyerPhone,
		FieldBuyerEmail:          r.BuyerEmail,
		FieldPropertyAddress:     r.PropertyAddress,
		FieldPropertyType:        r.PropertyType,
		FieldParking:             r.Parking,
		FieldStorage:             r.Storage,
		FieldNotes:               r.Notes,
		FieldBlockNumber:         r.BlockNumber,
		FieldParcelNumber:        r.ParcelNumber,
		FieldSubParcel:           r.SubParcel,
		FieldAreaSqm:             r.AreaSqm,
		FieldRegisteredOwner:     r.RegisteredOwner,
		FieldHasMortgage:         r.HasMortgage,
		FieldHasLien:             r.HasLien,
		FieldHasWarningNote:      r.HasWarningNote,
		FieldRightsType:          r.RightsType,
		FieldZoning:              r.Zoning,
		FieldHasViolations:       r.HasViolations,
		FieldBuildingPermit:      r.BuildingPermit,
		FieldPropertyTax:         r.PropertyTax,
		FieldRooms:               r.Rooms,
		FieldFloor:               r.Floor,
		FieldPrice:               r.Price,
		FieldSigningDate:         r.SigningDate,
		FieldDeliveryDate:        r.DeliveryDate,
		FieldPricePerSqm:         r.PricePerSqm,
		FieldProcessedAt:         r.ProcessedAt.Format(time.RFC3339),
	}
}

// Filled reports whether a clean value counts as provided: non-empty
// strings, non-zero numbers and true flags.
func Filled(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}
