package models

import "time"

// FieldSpec describes one field of the dataset contract schema.
type FieldSpec struct {
	Type      string   `json:"type" yaml:"type"`
	Required  bool     `json:"required" yaml:"required"`
	MinLength int      `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string   `json:"format,omitempty" yaml:"format,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Enum      []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// DataSummary counts the fields of the record a contract was emitted for.
type DataSummary struct {
	TotalFields  int `json:"total_fields" yaml:"total_fields"`
	FilledFields int `json:"filled_fields" yaml:"filled_fields"`
}

// DatasetContract is the versioned schema emitted next to a clean record.
type DatasetContract struct {
	Version       string               `json:"version" yaml:"version"`
	GeneratedAt   time.Time            `json:"generated_at" yaml:"generated_at"`
	Description   string               `json:"description" yaml:"description"`
	Schema        map[string]FieldSpec `json:"schema" yaml:"schema"`
	QualityChecks []string             `json:"quality_checks" yaml:"quality_checks"`
	DataSummary   DataSummary          `json:"data_summary" yaml:"data_summary"`
}
