package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

const transactionsSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id               SERIAL PRIMARY KEY,
	run_id           TEXT          UNIQUE NOT NULL,
	seller_name      TEXT          NOT NULL DEFAULT '',
	buyer_name       TEXT          NOT NULL DEFAULT '',
	property_address TEXT          NOT NULL DEFAULT '',
	property_type    VARCHAR(32)   NOT NULL DEFAULT '',
	price            NUMERIC(14,2) NOT NULL DEFAULT 0,
	area_sqm         NUMERIC(10,2) NOT NULL DEFAULT 0,
	price_per_sqm    NUMERIC(12,2) NOT NULL DEFAULT 0,
	score            INTEGER       NOT NULL DEFAULT 0,
	grade            VARCHAR(16)   NOT NULL DEFAULT '',
	compliant        BOOLEAN       NOT NULL DEFAULT FALSE,
	valid            BOOLEAN       NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_price ON transactions(price);
CREATE INDEX IF NOT EXISTS idx_transactions_type  ON transactions(property_type);
CREATE INDEX IF NOT EXISTS idx_transactions_score ON transactions(score);
`

// insertColumns is the column list of a batch insert, in argument order.
var insertColumns = []string{
	"run_id", "seller_name", "buyer_name", "property_address", "property_type",
	"price", "area_sqm", "price_per_sqm", "score", "grade", "compliant", "valid",
}

const insertBatchSize = 50

// PostgresWriter persists processed transaction summaries to PostgreSQL.
type PostgresWriter struct {
	db *sqlx.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to accept
// pings, runs the schema migration and returns a ready-to-use writer.
func NewPostgresWriter(ctx context.Context, dsn string, retry utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, transactionsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return &PostgresWriter{db: db}, nil
}

// Write inserts the rows in batches. Rows whose run_id already exists are
// skipped, so re-running a batch is idempotent.
func (pw *PostgresWriter) Write(ctx context.Context, rows []*models.StoredTransaction) error {
	for i := 0; i < len(rows); i += insertBatchSize {
		end := min(i+insertBatchSize, len(rows))
		query, args := buildInsert(rows[i:end])
		if _, err := pw.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch %d: %w", i/insertBatchSize, err)
		}
	}
	return nil
}

func buildInsert(batch []*models.StoredTransaction) (string, []any) {
	n := len(insertColumns)
	valueStrings := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*n)

	for idx, t := range batch {
		ph := make([]string, n)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", idx*n+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		args = append(args,
			t.RunID, t.SellerName, t.BuyerName, t.PropertyAddress, t.PropertyType,
			t.Price, t.AreaSqm, t.PricePerSqm, t.Score, t.Grade, t.Compliant, t.Valid)
	}

	query := fmt.Sprintf(
		"INSERT INTO transactions (%s) VALUES %s ON CONFLICT (run_id) DO NOTHING",
		strings.Join(insertColumns, ", "), strings.Join(valueStrings, ","))
	return query, args
}

// FetchAll retrieves all stored transactions in insertion order.
func (pw *PostgresWriter) FetchAll(ctx context.Context) ([]*models.StoredTransaction, error) {
	var rows []*models.StoredTransaction
	err := pw.db.SelectContext(ctx, &rows, `
		SELECT id, run_id, seller_name, buyer_name, property_address, property_type,
		       price, area_sqm, price_per_sqm, score, grade, compliant, valid, created_at
		FROM transactions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	return rows, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
