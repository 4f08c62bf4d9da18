package storage

import (
	"context"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

// TransactionWriter is the interface any backend persisting processed
// transaction summaries must satisfy.
type TransactionWriter interface {
	Write(ctx context.Context, rows []*models.StoredTransaction) error
	Close() error
}

// TransactionReader feeds the insight service.
type TransactionReader interface {
	FetchAll(ctx context.Context) ([]*models.StoredTransaction, error)
}

// RowWriter is the interface for flat tabular artifacts (clean data,
// features).
type RowWriter interface {
	WriteRows(rows [][]string) error
	Close() error
}

var (
	_ TransactionWriter = (*PostgresWriter)(nil)
	_ TransactionReader = (*PostgresWriter)(nil)
	_ RowWriter         = (*CSVWriter)(nil)
)
