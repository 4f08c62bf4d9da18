package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

// Normalize converts a submission-format record into a flat record. A record
// that already carries seller_name is returned as is. A map that does not
// decode as a submission is a caller error.
func Normalize(raw map[string]any) (models.Flat, error) {
	if _, ok := raw[models.FieldSellerName]; ok {
		return models.Flat(raw), nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizer: encode submission: %w", err)
	}
	var sub models.Submission
	if err := json.Unmarshal(b, &sub); err != nil {
		return nil, fmt.Errorf("normalizer: decode submission: %w", err)
	}
	return FlattenSubmission(sub), nil
}

// FlattenSubmission maps the first seller and buyer onto seller_*/buyer_*
// keys and keeps the full party lists under all_sellers/all_buyers.
func FlattenSubmission(sub models.Submission) models.Flat {
	flat := models.Flat{}

	if len(sub.Sellers) > 0 {
		p := sub.Sellers[0]
		flat[models.FieldSellerName] = p.Name
		flat[models.FieldSellerID] = p.ID
		flat[models.FieldSellerAddress] = p.Address
		flat[models.FieldSellerPhone] = p.Phone
		flat[models.FieldSellerEmail] = p.Email
		flat[models.FieldSellerMaritalStatus] = p.MaritalStatus
	}
	if len(sub.Buyers) > 0 {
		p := sub.Buyers[0]
		flat[models.FieldBuyerName] = p.Name
		flat[models.FieldBuyerID] = p.ID
		flat[models.FieldBuyerAddress] = p.Address
		flat[models.FieldBuyerPhone] = p.Phone
		flat[models.FieldBuyerEmail] = p.Email
		flat[models.FieldBuyerMaritalStatus] = p.MaritalStatus
	}

	prop := sub.Property
	flat[models.FieldPropertyAddress] = prop.Address.String()
	flat[models.FieldBlockNumber] = prop.BlockNumber.String()
	flat[models.FieldParcelNumber] = prop.ParcelNumber.String()
	flat[models.FieldSubParcel] = prop.SubParcel.String()
	flat[models.FieldAreaSqm] = prop.AreaSqm.String()
	flat[models.FieldRooms] = prop.Rooms.String()
	flat[models.FieldFloor] = prop.Floor.String()
	flat[models.FieldPropertyType] = prop.PropertyType.Or("apartment")
	flat[models.FieldParking] = prop.Parking.Or("none")
	flat[models.FieldStorage] = prop.Storage.Or("no")

	flat[models.FieldPrice] = sub.Transaction.Price.String()
	flat[models.FieldSigningDate] = sub.Transaction.SigningDate.String()
	flat[models.FieldDeliveryDate] = sub.Transaction.DeliveryDate.String()

	flat[models.FieldNotes] = sub.SellerNotes.Or(sub.Notes.String())

	flat[models.FieldAllSellers] = nonNilParties(sub.Sellers)
	flat[models.FieldAllBuyers] = nonNilParties(sub.Buyers)
	return flat
}

// Denormalize rebuilds the submission format from a flat record. Party lists
// are taken from all_sellers/all_buyers when present; otherwise a single
// party is built from the flat fields.
func Denormalize(flat models.Flat) models.Submission {
	sellers := flat.Parties(models.FieldAllSellers)
	if !flat.Has(models.FieldAllSellers) {
		sellers = []models.Party{{
			Name:          asString(flat.Get(models.FieldSellerName)),
			ID:            asString(flat.Get(models.FieldSellerID)),
			Address:       asString(flat.Get(models.FieldSellerAddress)),
			Phone:         asString(flat.Get(models.FieldSellerPhone)),
			Email:         asString(flat.Get(models.FieldSellerEmail)),
			MaritalStatus: asString(flat.Get(models.FieldSellerMaritalStatus)),
		}}
	}
	buyers := flat.Parties(models.FieldAllBuyers)
	if !flat.Has(models.FieldAllBuyers) {
		buyers = []models.Party{{
			Name:          asString(flat.Get(models.FieldBuyerName)),
			ID:            asString(flat.Get(models.FieldBuyerID)),
			Address:       asString(flat.Get(models.FieldBuyerAddress)),
			Phone:         asString(flat.Get(models.FieldBuyerPhone)),
			Email:         asString(flat.Get(models.FieldBuyerEmail)),
			MaritalStatus: asString(flat.Get(models.FieldBuyerMaritalStatus)),
		}}
	}

	str := func(key, def string) string {
		if !flat.Has(key) {
			return def
		}
		return asString(flat[key])
	}

	return models.Submission{
		Sellers: nonNilParties(sellers),
		Buyers:  nonNilParties(buyers),
		Property: models.PropertyInfo{
			Address:      models.FlexString(str(models.FieldPropertyAddress, "")),
			BlockNumber:  models.FlexString(str(models.FieldBlockNumber, "")),
			ParcelNumber: models.FlexString(str(models.FieldParcelNumber, "")),
			SubParcel:    models.FlexString(str(models.FieldSubParcel, "")),
			AreaSqm:      numberText(flat.Get(models.FieldAreaSqm), false),
			Rooms:        numberText(flat.Get(models.FieldRooms), false),
			Floor:        numberText(flat.Get(models.FieldFloor), true),
			PropertyType: models.Flex(str(models.FieldPropertyType, "apartment")),
			Parking:      models.Flex(str(models.FieldParking, "none")),
			Storage:      models.Flex(str(models.FieldStorage, "no")),
		},
		Transaction: models.TransactionTerms{
			Price:        numberText(flat.Get(models.FieldPrice), true),
			SigningDate:  models.FlexString(str(models.FieldSigningDate, "")),
			DeliveryDate: models.FlexString(str(models.FieldDeliveryDate, "")),
		},
		SellerNotes: models.Flex(str(models.FieldNotes, "")),
	}
}

// numberText renders a loose numeric value, 0 when it does not parse. A
// blank value stays blank.
func numberText(v any, integer bool) models.FlexString {
	if strings.TrimSpace(asString(v)) == "" {
		return ""
	}
	f, err := toFloat(v)
	if err != nil {
		f = 0
	}
	if integer {
		return models.FlexString(strconv.Itoa(int(f)))
	}
	return models.FlexString(strconv.FormatFloat(f, 'f', -1, 64))
}

func nonNilParties(p []models.Party) []models.Party {
	if p == nil {
		return []models.Party{}
	}
	return p
}
