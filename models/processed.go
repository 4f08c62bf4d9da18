package models

import "time"

// Features is the numeric feature vector derived from a clean record.
type Features struct {
	PricePerSqm   float64 `json:"price_per_sqm"`
	HasParking    int     `json:"has_parking"`
	HasStorage    int     `json:"has_storage"`
	Floor         int     `json:"floor"`
	Rooms         float64 `json:"rooms"`
	AreaSqm       float64 `json:"area_sqm"`
	HasMortgage   int     `json:"has_mortgage"`
	HasLien       int     `json:"has_lien"`
	HasViolations int     `json:"has_violations"`
	PropertyType  string  `json:"property_type"`
}

// ProcessedTransaction is everything one pipeline run produced for a
// submission.
type ProcessedTransaction struct {
	RunID           string           `json:"run_id"`
	Source          string           `json:"source"`
	InputHash       string           `json:"input_hash"`
	Input           Flat             `json:"input"`
	OCR             *OCRData         `json:"ocr,omitempty"`
	Clean           CleanRecord      `json:"clean"`
	Validation      ValidationResult `json:"validation"`
	Compliance      ComplianceResult `json:"compliance"`
	Quality         QualityResult    `json:"quality"`
	DatasetContract DatasetContract  `json:"dataset_contract"`
	ContractIssues  []string         `json:"contract_issues"`
	Features        Features         `json:"features"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     time.Time        `json:"completed_at"`
}

// StoredTransaction is the summary row persisted per processed transaction.
type StoredTransaction struct {
	ID              int64     `db:"id"`
	RunID           string    `db:"run_id"`
	SellerName      string    `db:"seller_name"`
	BuyerName       string    `db:"buyer_name"`
	PropertyAddress string    `db:"property_address"`
	PropertyType    string    `db:"property_type"`
	Price           float64   `db:"price"`
	AreaSqm         float64   `db:"area_sqm"`
	PricePerSqm     float64   `db:"price_per_sqm"`
	Score           int       `db:"score"`
	Grade           string    `db:"grade"`
	Compliant       bool      `db:"compliant"`
	Valid           bool      `db:"valid"`
	CreatedAt       time.Time `db:"created_at"`
}

// PortfolioInsights holds analytics computed over many stored transactions.
type PortfolioInsights struct {
	TotalTransactions  int
	CompliantCount     int
	ValidCount         int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	AveragePricePerSqm float64
	AverageScore       float64
	MostExpensive      *StoredTransaction
	TopScored          []*StoredTransaction
	ByPropertyType     map[string]int
}
