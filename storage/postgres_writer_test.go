package storage

import (
	"strings"
	"testing"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

func TestBuildInsert(t *testing.T) {
	batch := []*models.StoredTransaction{
		{RunID: "a", SellerName: "ישראל", Price: 100, Score: 90, Grade: "excellent", Valid: true},
		{RunID: "b", BuyerName: "משה", Compliant: true},
	}
	query, args := buildInsert(batch)

	if len(args) != 2*len(insertColumns) {
		t.Fatalf("len(args) = %d; want %d", len(args), 2*len(insertColumns))
	}
	if args[0] != "a" || args[len(insertColumns)] != "b" {
		t.Errorf("run ids = %v, %v", args[0], args[len(insertColumns)])
	}
	for _, want := range []string{
		"INSERT INTO transactions (run_id, seller_name",
		"($1,$2,",
		"$24)",
		"ON CONFLICT (run_id) DO NOTHING",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
	if strings.Contains(query, "$25") {
		t.Errorf("query has too many placeholders:\n%s", query)
	}
}
