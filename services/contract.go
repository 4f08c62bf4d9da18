package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

const DatasetContractVersion = "1.0"

func bound(v float64) *float64 { return &v }

// datasetSchema is the fixed schema published for clean records.
var datasetSchema = map[string]models.FieldSpec{
	models.FieldSellerName:      {Type: "string", Required: true, MinLength: 2},
	models.FieldSellerID:        {Type: "string", Required: true, Pattern: `^\d{9}$`},
	models.FieldSellerAddress:   {Type: "string", Required: true},
	models.FieldSellerPhone:     {Type: "string", Required: true, Pattern: `^0\d{8,9}$`},
	models.FieldSellerEmail:     {Type: "string", Required: true, Format: "email"},
	models.FieldBuyerName:       {Type: "string", Required: true, MinLength: 2},
	models.FieldBuyerID:         {Type: "string", Required: true, Pattern: `^\d{9}$`},
	models.FieldBuyerAddress:    {Type: "string", Required: true},
	models.FieldBuyerPhone:      {Type: "string", Required: true, Pattern: `^0\d{8,9}$`},
	models.FieldBuyerEmail:      {Type: "string", Required: true, Format: "email"},
	models.FieldPropertyAddress: {Type: "string", Required: true},
	models.FieldBlockNumber:     {Type: "string", Required: true},
	models.FieldParcelNumber:    {Type: "string", Required: true},
	models.FieldSubParcel:       {Type: "string"},
	models.FieldAreaSqm:         {Type: "number", Required: true, Min: bound(10), Max: bound(5000)},
	models.FieldRooms:           {Type: "number", Required: true, Min: bound(1), Max: bound(20)},
	models.FieldFloor:           {Type: "integer"},
	models.FieldPropertyType:    {Type: "string", Required: true, Enum: propertyTypes},
	models.FieldPrice:           {Type: "number", Required: true, Min: bound(50000)},
	models.FieldSigningDate:     {Type: "string", Required: true, Format: "date"},
	models.FieldDeliveryDate:    {Type: "string", Required: true, Format: "date"},
}

var contractQualityChecks = []string{
	"seller_id != buyer_id",
	"delivery_date >= signing_date",
	"price_per_sqm between 5000 and 200000",
	"has_lien == False (warning if True)",
	"has_violations == False (warning if True)",
}

// BuildDatasetContract describes the schema of rec for downstream consumers.
// Only the data summary depends on rec's contents.
func BuildDatasetContract(rec models.CleanRecord, now time.Time) models.DatasetContract {
	schema := make(map[string]models.FieldSpec, len(datasetSchema))
	for k, v := range datasetSchema {
		schema[k] = v
	}

	values := rec.Map()
	filled := 0
	for _, col := range models.CleanColumns {
		if models.Filled(values[col]) {
			filled++
		}
	}

	return models.DatasetContract{
		Version:       DatasetContractVersion,
		GeneratedAt:   now,
		Description:   "Dataset contract for real estate transaction data",
		Schema:        schema,
		QualityChecks: append([]string(nil), contractQualityChecks...),
		DataSummary: models.DataSummary{
			TotalFields:  len(models.CleanColumns),
			FilledFields: filled,
		},
	}
}

// CheckConformance lists every way rec breaks the contract's schema, sorted
// by field name. An empty list means the record may move on to contract
// generation.
func CheckConformance(contract models.DatasetContract, rec models.CleanRecord) []string {
	fields := make([]string, 0, len(contract.Schema))
	for name := range contract.Schema {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	values := rec.Map()
	issues := []string{}
	for _, name := range fields {
		spec := contract.Schema[name]
		v := values[name]
		if !models.Filled(v) {
			if spec.Required {
				issues = append(issues, fmt.Sprintf("missing required field: %s", name))
			}
			continue
		}
		if msg := specViolation(spec, v); msg != "" {
			issues = append(issues, fmt.Sprintf("%s: %s", name, msg))
		}
	}
	return issues
}

func specViolation(spec models.FieldSpec, v any) string {
	switch spec.Type {
	case "number", "integer":
		f, err := toFloat(v)
		if err != nil {
			return "not a number"
		}
		if spec.Min != nil && f < *spec.Min {
			return fmt.Sprintf("below minimum %v", *spec.Min)
		}
		if spec.Max != nil && f > *spec.Max {
			return fmt.Sprintf("above maximum %v", *spec.Max)
		}
		return ""
	}

	s := asString(v)
	if spec.MinLength > 0 && len([]rune(s)) < spec.MinLength {
		return fmt.Sprintf("shorter than %d characters", spec.MinLength)
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil || !re.MatchString(s) {
			return fmt.Sprintf("does not match %s", spec.Pattern)
		}
	}
	switch spec.Format {
	case "email":
		if !ValidEmail(s) {
			return "not an email address"
		}
	case "date":
		if !ValidDate(s) {
			return "not a YYYY-MM-DD date"
		}
	}
	if len(spec.Enum) > 0 {
		for _, e := range spec.Enum {
			if s == e {
				return ""
			}
		}
		return "not an allowed value"
	}
	return ""
}

// EncodeDatasetContract renders the contract as "json" (indented) or "yaml".
func EncodeDatasetContract(contract models.DatasetContract, format string) ([]byte, error) {
	switch format {
	case "", "json":
		b, err := json.MarshalIndent(contract, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("contract: encode json: %w", err)
		}
		return b, nil
	case "yaml", "yml":
		b, err := yaml.Marshal(contract)
		if err != nil {
			return nil, fmt.Errorf("contract: encode yaml: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("contract: unknown format %q", format)
}
