package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// Merger combines client-entered data with document-extracted data into a
// clean record.
type Merger struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewMerger returns a Merger that stamps records with the wall clock.
func NewMerger(logger *utils.Logger) *Merger {
	return &Merger{logger: logger, now: time.Now}
}

// WithClock returns a copy of the merger that stamps records with now.
func (m *Merger) WithClock(now func() time.Time) *Merger {
	cp := *m
	cp.now = now
	return &cp
}

// Merge builds the clean record. Land-registry fields and legal-status
// flags prefer OCR values whenever ocr carries any field at all; everything
// else comes from client. Malformed numbers become 0.
func (m *Merger) Merge(client models.Flat, ocr *models.OCRData) models.CleanRecord {
	str := func(key, def string) string {
		if !client.Has(key) {
			return def
		}
		return strings.TrimSpace(asString(client[key]))
	}

	rec := models.CleanRecord{
		SellerName:          CleanName(asString(client.Get(models.FieldSellerName))),
		SellerID:            CleanID(asString(client.Get(models.FieldSellerID))),
		SellerAddress:       str(models.FieldSellerAddress, ""),
		SellerPhone:         CleanPhone(asString(client.Get(models.FieldSellerPhone))),
		SellerEmail:         strings.ToLower(str(models.FieldSellerEmail, "")),
		SellerMaritalStatus: str(models.FieldSellerMaritalStatus, ""),

		BuyerName:    CleanName(asString(client.Get(models.FieldBuyerName))),
		BuyerID:      CleanID(asString(client.Get(models.FieldBuyerID))),
		BuyerAddress: str(models.FieldBuyerAddress, ""),
		BuyerPhone:   CleanPhone(asString(client.Get(models.FieldBuyerPhone))),
		BuyerEmail:   strings.ToLower(str(models.FieldBuyerEmail, "")),

		PropertyAddress: str(models.FieldPropertyAddress, ""),
		PropertyType:    str(models.FieldPropertyType, ""),
		Parking:         str(models.FieldParking, "none"),
		Storage:         str(models.FieldStorage, "no"),
		Notes:           str(models.FieldNotes, ""),

		Rooms:        floatOrZero(client.Get(models.FieldRooms)),
		Floor:        intOrZero(client.Get(models.FieldFloor)),
		Price:        CleanPrice(client.Get(models.FieldPrice)),
		SigningDate:  str(models.FieldSigningDate, ""),
		DeliveryDate: str(models.FieldDeliveryDate, ""),

		AllSellers: cleanParties(client.Parties(models.FieldAllSellers)),
		AllBuyers:  cleanParties(client.Parties(models.FieldAllBuyers)),
	}

	if !ocr.Empty() {
		m.logger.Debug("[merger] applying document-extracted fields")
		rec.BlockNumber = ocrString(ocr.BlockNumber, str(models.FieldBlockNumber, ""))
		rec.ParcelNumber = ocrString(ocr.ParcelNumber, str(models.FieldParcelNumber, ""))
		rec.SubParcel = ocrString(ocr.SubParcel, str(models.FieldSubParcel, ""))
		if ocr.AreaSqm != nil {
			rec.AreaSqm = *ocr.AreaSqm
		} else {
			rec.AreaSqm = floatOrZero(client.Get(models.FieldAreaSqm))
		}
		rec.RegisteredOwner = ocrString(ocr.RegisteredOwner, "")
		rec.HasMortgage = ocrBool(ocr.HasMortgage)
		rec.HasLien = ocrBool(ocr.HasLien)
		rec.HasWarningNote = ocrBool(ocr.HasWarningNote)
		rec.RightsType = ocrString(ocr.RightsType, "")
		rec.Zoning = ocrString(ocr.Zoning, "")
		rec.HasViolations = ocrBool(ocr.HasViolations)
		rec.BuildingPermit = ocrString(ocr.BuildingPermit, "")
		rec.PropertyTax = ocrString(ocr.PropertyTax, "")
	} else {
		rec.BlockNumber = str(models.FieldBlockNumber, "")
		rec.ParcelNumber = str(models.FieldParcelNumber, "")
		rec.SubParcel = str(models.FieldSubParcel, "")
		rec.AreaSqm = floatOrZero(client.Get(models.FieldAreaSqm))
	}

	if rec.AreaSqm > 0 {
		ppsm, _ := decimal.NewFromFloat(rec.Price).
			Div(decimal.NewFromFloat(rec.AreaSqm)).
			Round(2).
			Float64()
		rec.PricePerSqm = ppsm
	}
	rec.ProcessedAt = m.now()

	m.logger.Info("[merger] merged record for %s (block %s, parcel %s)",
		rec.PropertyAddress, rec.BlockNumber, rec.ParcelNumber)
	return rec
}

func ocrString(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return strings.TrimSpace(*v)
}

func ocrBool(v *bool) bool {
	return v != nil && *v
}

// intOrZero parses a floor-like value; blanks and garbage are 0.
func intOrZero(v any) int {
	if !truthy(v) {
		return 0
	}
	n, err := toInt(v)
	if err != nil {
		return 0
	}
	return n
}

func cleanParties(parties []models.Party) []models.Party {
	if len(parties) == 0 {
		return nil
	}
	out := make([]models.Party, len(parties))
	for i, p := range parties {
		out[i] = models.Party{
			Name:          CleanName(p.Name),
			ID:            CleanID(p.ID),
			Address:       strings.TrimSpace(p.Address),
			Phone:         CleanPhone(p.Phone),
			Email:         strings.ToLower(strings.TrimSpace(p.Email)),
			MaritalStatus: strings.TrimSpace(p.MaritalStatus),
		}
	}
	return out
}
