package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/reports"
	"github.com/drorlaib-lgtm/real-estate-automation/services"
	"github.com/drorlaib-lgtm/real-estate-automation/storage"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// artifactWriter emits every per-transaction file into an output directory.
type artifactWriter struct {
	contractFormat string
	pdf            *reports.PDFRenderer
	logger         *utils.Logger
}

func newArtifactWriter(contractFormat string, pdf *reports.PDFRenderer, logger *utils.Logger) *artifactWriter {
	return &artifactWriter{contractFormat: contractFormat, pdf: pdf, logger: logger}
}

// Write produces the artifacts of tx in dir and finishes with
// flow_summary.json listing them. A failing optional artifact (PDF) is
// logged; any other failure stops the run for this transaction.
func (a *artifactWriter) Write(ctx context.Context, dir string, tx *models.ProcessedTransaction) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	written := map[string]string{}
	put := func(name, file string, data []byte) error {
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
		written[name] = path
		return nil
	}

	eda, err := reports.EDAReport(tx.Input, tx.Validation, tx.CompletedAt)
	if err != nil {
		return err
	}
	if err := put("eda_report", "eda_report.html", []byte(eda)); err != nil {
		return err
	}

	cleanPath := filepath.Join(dir, "clean_data.csv")
	cw, err := storage.NewCleanDataWriter(cleanPath)
	if err != nil {
		return err
	}
	if err := cw.WriteClean([]models.CleanRecord{tx.Clean}); err != nil {
		_ = cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	written["clean_data"] = cleanPath

	contract, err := services.EncodeDatasetContract(tx.DatasetContract, a.contractFormat)
	if err != nil {
		return err
	}
	if err := put("dataset_contract", "dataset_contract."+contractExt(a.contractFormat), contract); err != nil {
		return err
	}

	if err := put("insights", "insights.md", []byte(reports.TransactionInsights(tx.Clean, tx.CompletedAt))); err != nil {
		return err
	}

	if len(tx.ContractIssues) > 0 {
		a.logger.Warn("Dataset contract issues, continuing: %v", tx.ContractIssues)
	} else {
		a.logger.Info("Dataset contract satisfied")
	}

	featuresPath := filepath.Join(dir, "features.csv")
	if err := writeFeatures(featuresPath, tx.Features); err != nil {
		return err
	}
	written["features"] = featuresPath

	if err := put("evaluation_report", "evaluation_report.md", []byte(reports.EvaluationReport(tx.Compliance))); err != nil {
		return err
	}

	card := reports.ContractCard(tx.Clean, tx.Quality, tx.Compliance, tx.CompletedAt)
	if err := put("contract_card", "contract_card.md", []byte(card)); err != nil {
		return err
	}
	cardHTML, err := reports.MarkdownToHTML("כרטיס חוזה", card)
	if err != nil {
		return err
	}
	if err := put("contract_card_html", "contract_card.html", []byte(cardHTML)); err != nil {
		return err
	}

	if a.pdf != nil {
		pdf, err := a.pdf.Render(ctx, cardHTML)
		if err != nil {
			a.logger.Warn("Contract card PDF skipped: %v", err)
		} else if err := put("contract_card_pdf", "contract_card.pdf", pdf); err != nil {
			return err
		}
	}

	summary, err := reports.NewFlowSummary(tx, written).Encode()
	if err != nil {
		return err
	}
	if err := put("flow_summary", "flow_summary.json", summary); err != nil {
		return err
	}

	a.logger.Info("Artifacts for %s written to %s (%d files)", tx.Source, dir, len(written))
	return nil
}

func writeFeatures(path string, f models.Features) error {
	w, err := storage.NewCSVWriter(path, services.FeatureColumns, false)
	if err != nil {
		return err
	}
	if err := w.WriteRows([][]string{storage.FeatureRow(f)}); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func contractExt(format string) string {
	if format == "yml" {
		return "yaml"
	}
	return format
}
