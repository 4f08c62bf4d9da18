package services

import "github.com/drorlaib-lgtm/real-estate-automation/models"

// FeatureColumns is the header order of features.csv.
var FeatureColumns = []string{
	"price_per_sqm", "has_parking", "has_storage", "floor", "rooms", "area_sqm",
	"has_mortgage", "has_lien", "has_violations", "property_type",
}

// ExtractFeatures derives the numeric feature vector for analytics.
func ExtractFeatures(rec models.CleanRecord) models.Features {
	return models.Features{
		PricePerSqm:   rec.PricePerSqm,
		HasParking:    boolInt(rec.Parking != "" && rec.Parking != "none"),
		HasStorage:    boolInt(rec.Storage == "yes"),
		Floor:         rec.Floor,
		Rooms:         rec.Rooms,
		AreaSqm:       rec.AreaSqm,
		HasMortgage:   boolInt(rec.HasMortgage),
		HasLien:       boolInt(rec.HasLien),
		HasViolations: boolInt(rec.HasViolations),
		PropertyType:  rec.PropertyType,
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
