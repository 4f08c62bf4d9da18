package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/config"
	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/reports"
	"github.com/drorlaib-lgtm/real-estate-automation/services"
	"github.com/drorlaib-lgtm/real-estate-automation/storage"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

func main() {
	cfg := config.Load()

	input := flag.String("input", cfg.InputPath, "client data JSON (one submission or an array)")
	ocr := flag.String("ocr", strings.Join(cfg.OCRPaths, ","), "comma-separated OCR text files (Tabu / municipal)")
	list := flag.Bool("list", false, "list stored submissions and exit")
	flag.Parse()

	logger := utils.NewLogger().WithLevel(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.NewSubmissionStore(cfg.SubmissionsDB)
	if err != nil {
		logger.Error("Failed to open submission store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if *list {
		listSubmissions(ctx, store, logger)
		return
	}

	logger.Info("=== Real-estate contract pipeline starting ===")
	logger.Info("Config: artifacts %s | concurrency %d | contract format %s | postgres %v | pdf %v",
		cfg.ArtifactsDir, cfg.MaxConcurrency, cfg.ContractFormat, cfg.PostgresEnabled, cfg.PDFEnabled)

	subs, err := loadSubmissions(*input, config.SplitList(*ocr))
	if err != nil {
		logger.Error("Failed to load input: %v", err)
		os.Exit(1)
	}

	processor := services.NewProcessor(logger, cfg.CacheTTL, cfg.MaxConcurrency)
	results := processor.ProcessBatch(ctx, subs)

	retry := utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	var renderer *reports.PDFRenderer
	if cfg.PDFEnabled {
		renderer = reports.NewPDFRenderer(cfg.ChromeBin, retry)
	}
	out := newArtifactWriter(cfg.ContractFormat, renderer, logger)

	var processed []*models.ProcessedTransaction
	for _, r := range results {
		if r.Err != nil {
			logger.Error("%s: %v", r.Source, r.Err)
			continue
		}
		if r.Duplicate {
			logger.Warn("%s: identical to an earlier submission, skipped", r.Source)
			continue
		}
		tx := r.Transaction
		processed = append(processed, tx)

		id, err := store.Save(ctx, services.Denormalize(tx.Input))
		if err != nil {
			logger.Error("%s: save submission: %v", r.Source, err)
		} else {
			logger.Info("%s: submission stored as %s", r.Source, id)
		}

		dir := cfg.ArtifactsDir
		if len(subs) > 1 {
			dir = filepath.Join(cfg.ArtifactsDir, storage.DirName(tx.Clean.PropertyAddress))
		}
		if err := out.Write(ctx, dir, tx); err != nil {
			logger.Error("%s: artifacts: %v", r.Source, err)
		}
	}

	if len(processed) == 0 {
		logger.Error("No submission was processed. Exiting.")
		os.Exit(1)
	}

	rows := services.Summarize(processed)
	if cfg.PostgresEnabled {
		rows = persistTransactions(ctx, cfg, retry, rows, logger)
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(os.Stdout, insightSvc.Generate(rows))

	fmt.Printf("  Done. %d transaction(s) processed, artifacts in %s\n\n", len(processed), cfg.ArtifactsDir)
}

// persistTransactions stores rows in PostgreSQL and returns the full table
// for insights. On any database failure it logs and returns rows unchanged.
func persistTransactions(ctx context.Context, cfg *config.Config, retry utils.RetryConfig, rows []*models.StoredTransaction, logger *utils.Logger) []*models.StoredTransaction {
	pg, err := storage.NewPostgresWriter(ctx, cfg.DSN(), retry)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		return rows
	}
	defer pg.Close()

	if err := pg.Write(ctx, rows); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return rows
	}
	logger.Info("Stored %d transaction(s) in PostgreSQL (table: transactions)", len(rows))

	all, err := pg.FetchAll(ctx)
	if err != nil {
		logger.Error("Failed to fetch transactions for insights: %v", err)
		return rows
	}
	return all
}

func listSubmissions(ctx context.Context, store *storage.SubmissionStore, logger *utils.Logger) {
	subs, err := store.List(ctx)
	if err != nil {
		logger.Error("List submissions: %v", err)
		os.Exit(1)
	}
	if len(subs) == 0 {
		fmt.Println("  No stored submissions.")
		return
	}
	for _, s := range subs {
		fmt.Printf("  %s  %s  %-30s  %s → %s\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"), s.ID, s.DirName, s.SellerName, s.BuyerName)
	}
}

// loadSubmissions reads the client data file and attaches the OCR text
// files to every submission. With no input path the built-in sample is used.
func loadSubmissions(path string, ocrPaths []string) ([]services.Submission, error) {
	docs := make([]services.Document, 0, len(ocrPaths))
	for _, p := range ocrPaths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read ocr file: %w", err)
		}
		docs = append(docs, services.Document{Name: filepath.Base(p), Text: string(b)})
	}

	if path == "" {
		return []services.Submission{{Source: "sample", Raw: sampleClientData(), Documents: docs}}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	raws, err := decodeInput(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	subs := make([]services.Submission, len(raws))
	for i, raw := range raws {
		source := filepath.Base(path)
		if len(raws) > 1 {
			source = fmt.Sprintf("%s#%d", source, i+1)
		}
		subs[i] = services.Submission{Source: source, Raw: raw, Documents: docs}
	}
	return subs, nil
}

// decodeInput accepts a single JSON object or an array of objects.
func decodeInput(b []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		var many []map[string]any
		if err := json.Unmarshal(b, &many); err != nil {
			return nil, fmt.Errorf("decode input array: %w", err)
		}
		return many, nil
	}
	var one map[string]any
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return []map[string]any{one}, nil
}

func sampleClientData() map[string]any {
	return map[string]any{
		"seller_name":           "ישראל ישראלי",
		"seller_id":             "123456782",
		"seller_address":        "רחוב הרצל 10, תל אביב",
		"seller_phone":          "050-1234567",
		"seller_email":          "israel@example.com",
		"seller_marital_status": "married",
		"buyer_name":            "משה כהן",
		"buyer_id":              "987654324",
		"buyer_address":         "רחוב ויצמן 5, רחובות",
		"buyer_phone":           "052-9876543",
		"buyer_email":           "moshe@example.com",
		"property_address":      "רחוב הרצל 10 דירה 8, תל אביב",
		"block_number":          "6123",
		"parcel_number":         "456",
		"sub_parcel":            "8",
		"area_sqm":              "95",
		"rooms":                 "4",
		"floor":                 "3",
		"property_type":         "apartment",
		"parking":               "covered",
		"storage":               "yes",
		"price":                 "2500000",
		"signing_date":          time.Now().AddDate(0, 1, 0).Format(models.DateLayout),
		"delivery_date":         time.Now().AddDate(0, 4, 0).Format(models.DateLayout),
		"notes":                 "הדירה משופצת, כולל מזגנים",
	}
}
