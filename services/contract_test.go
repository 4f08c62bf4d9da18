package services

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

func TestBuildDatasetContract(t *testing.T) {
	rec := cleanSample(t)
	c := BuildDatasetContract(rec, testNow)

	if c.Version != "1.0" {
		t.Errorf("version = %q; want 1.0", c.Version)
	}
	if len(c.Schema) != 21 {
		t.Errorf("schema has %d fields; want 21", len(c.Schema))
	}
	if !c.GeneratedAt.Equal(testNow) {
		t.Errorf("generated_at = %v", c.GeneratedAt)
	}
	if spec := c.Schema[models.FieldAreaSqm]; spec.Min == nil || *spec.Min != 10 || *spec.Max != 5000 {
		t.Errorf("area_sqm spec = %+v", spec)
	}
	if c.DataSummary.TotalFields != len(models.CleanColumns) {
		t.Errorf("total_fields = %d; want %d", c.DataSummary.TotalFields, len(models.CleanColumns))
	}
	// Sample has no registry extras: owner, flags, rights, zoning, permit, tax.
	if want := len(models.CleanColumns) - 9; c.DataSummary.FilledFields != want {
		t.Errorf("filled_fields = %d; want %d", c.DataSummary.FilledFields, want)
	}
}

func TestBuildDatasetContractDoesNotShareSchema(t *testing.T) {
	c := BuildDatasetContract(cleanSample(t), testNow)
	delete(c.Schema, models.FieldSellerName)

	again := BuildDatasetContract(cleanSample(t), testNow)
	if _, ok := again.Schema[models.FieldSellerName]; !ok {
		t.Error("mutating one contract changed the shared schema")
	}
}

func TestCheckConformance(t *testing.T) {
	rec := cleanSample(t)
	c := BuildDatasetContract(rec, testNow)
	if issues := CheckConformance(c, rec); len(issues) != 0 {
		t.Fatalf("sample record issues: %v", issues)
	}

	rec.BuyerEmail = ""
	rec.SellerID = "12345"
	rec.AreaSqm = 6000
	rec.PropertyType = "castle"
	issues := CheckConformance(c, rec)

	want := []string{
		"area_sqm: above maximum 5000",
		"buyer_email",
		"property_type: not an allowed value",
		"seller_id: does not match",
	}
	if len(issues) != len(want) {
		t.Fatalf("issues = %v; want %d entries", issues, len(want))
	}
	for i, w := range want {
		if !strings.Contains(issues[i], w) {
			t.Errorf("issues[%d] = %q; want it to contain %q", i, issues[i], w)
		}
	}
}

func TestEncodeDatasetContract(t *testing.T) {
	c := BuildDatasetContract(cleanSample(t), testNow)

	js, err := EncodeDatasetContract(c, "json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var back models.DatasetContract
	if err := json.Unmarshal(js, &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if back.Schema[models.FieldSellerID].Pattern != `^\d{9}$` {
		t.Errorf("json pattern = %q", back.Schema[models.FieldSellerID].Pattern)
	}

	ym, err := EncodeDatasetContract(c, "yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(ym, &doc); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if doc["version"] != "1.0" {
		t.Errorf("yaml version = %v", doc["version"])
	}

	if _, err := EncodeDatasetContract(c, "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
