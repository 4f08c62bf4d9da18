package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

// ErrSubmissionNotFound is returned by Load for an unknown id.
var ErrSubmissionNotFound = errors.New("storage: submission not found")

const submissionsSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	submission_id    TEXT PRIMARY KEY,
	dir_name         TEXT NOT NULL,
	seller_name      TEXT NOT NULL DEFAULT '',
	buyer_name       TEXT NOT NULL DEFAULT '',
	property_address TEXT NOT NULL DEFAULT '',
	payload          TEXT NOT NULL,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
`

// SubmissionSummary is one row of the submission listing.
type SubmissionSummary struct {
	ID              string    `db:"submission_id"`
	DirName         string    `db:"dir_name"`
	SellerName      string    `db:"seller_name"`
	BuyerName       string    `db:"buyer_name"`
	PropertyAddress string    `db:"property_address"`
	CreatedAt       time.Time `db:"-"`
	CreatedAtRaw    string    `db:"created_at"`
}

// SubmissionStore keeps intake submissions in a local SQLite database.
type SubmissionStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSubmissionStore opens (or creates) the database at path.
func NewSubmissionStore(path string) (*SubmissionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("submissions: create dir: %w", err)
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("submissions: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(submissionsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("submissions: migrate: %w", err)
	}
	return &SubmissionStore{db: db, now: time.Now}, nil
}

// Save stores sub and returns its generated id.
func (s *SubmissionStore) Save(ctx context.Context, sub models.Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("submissions: encode: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (submission_id, dir_name, seller_name, buyer_name, property_address, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, DirName(sub.Property.Address.String()), firstName(sub.Sellers), firstName(sub.Buyers),
		sub.Property.Address.String(), string(payload), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("submissions: insert: %w", err)
	}
	return id, nil
}

// Load returns the submission stored under id.
func (s *SubmissionStore) Load(ctx context.Context, id string) (models.Submission, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM submissions WHERE submission_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Submission{}, ErrSubmissionNotFound
	}
	if err != nil {
		return models.Submission{}, fmt.Errorf("submissions: load %s: %w", id, err)
	}

	var sub models.Submission
	if err := json.Unmarshal([]byte(payload), &sub); err != nil {
		return models.Submission{}, fmt.Errorf("submissions: decode %s: %w", id, err)
	}
	return sub, nil
}

// List returns every stored submission, newest first.
func (s *SubmissionStore) List(ctx context.Context) ([]SubmissionSummary, error) {
	var rows []SubmissionSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT submission_id, dir_name, seller_name, buyer_name, property_address, created_at
		FROM submissions
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("submissions: list: %w", err)
	}
	for i := range rows {
		rows[i].CreatedAt, _ = time.Parse(time.RFC3339Nano, rows[i].CreatedAtRaw)
	}
	return rows, nil
}

func (s *SubmissionStore) Close() error {
	return s.db.Close()
}

var dirUnsafe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

const maxDirName = 50

// DirName derives a filesystem-safe folder name from a property address.
// Letters (Hebrew included), digits, underscores and hyphens survive;
// whitespace runs become a single underscore.
func DirName(address string) string {
	s := dirUnsafe.ReplaceAllString(address, "")
	s = strings.Join(strings.Fields(s), "_")
	if r := []rune(s); len(r) > maxDirName {
		s = string(r[:maxDirName])
	}
	if s == "" {
		return "unnamed"
	}
	return s
}

func firstName(parties []models.Party) string {
	if len(parties) == 0 {
		return ""
	}
	return parties[0].Name
}
