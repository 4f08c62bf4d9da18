package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// Document is the already-extracted text of one scanned document. Name
// decides which parser reads it.
type Document struct {
	Name string
	Text string
}

// Submission is one unit of work for the Processor.
type Submission struct {
	Source    string
	Raw       map[string]any
	Documents []Document
}

// BatchResult pairs a submission with its outcome. Duplicate is set when an
// identical submission earlier in the batch already produced Transaction.
type BatchResult struct {
	Source      string
	Transaction *models.ProcessedTransaction
	Duplicate   bool
	Err         error
}

// Processor runs submissions through normalize, validate, merge, dataset
// contract, compliance, scoring and feature extraction.
type Processor struct {
	logger     *utils.Logger
	validator  *Validator
	merger     *Merger
	compliance *ComplianceChecker
	scorer     *Scorer
	results    *cache.Cache
	maxWorkers int
	now        func() time.Time
}

// NewProcessor builds a Processor whose results are cached for cacheTTL,
// keyed by input hash. A cacheTTL of zero or less disables the cache.
// ProcessBatch runs at most maxWorkers submissions at once.
func NewProcessor(logger *utils.Logger, cacheTTL time.Duration, maxWorkers int) *Processor {
	p := &Processor{
		logger:     logger,
		validator:  NewValidator(logger),
		merger:     NewMerger(logger),
		compliance: NewComplianceChecker(logger),
		scorer:     NewScorer(logger),
		maxWorkers: maxWorkers,
		now:        time.Now,
	}
	if cacheTTL > 0 {
		p.results = cache.New(cacheTTL, 2*cacheTTL)
	}
	return p
}

// WithClock returns a copy of the processor whose stages all read time from
// now. The result cache is shared with the original.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	cp := *p
	cp.now = now
	cp.validator = p.validator.WithClock(now)
	cp.merger = p.merger.WithClock(now)
	cp.compliance = p.compliance.WithClock(now)
	return &cp
}

// Process runs one submission. Only a malformed submission shape or a
// cancelled context is an error; data-quality problems are in the result.
func (p *Processor) Process(ctx context.Context, sub Submission) (*models.ProcessedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}

	hash, err := InputHash(sub)
	if err != nil {
		return nil, err
	}
	if p.results != nil {
		if cached, found := p.results.Get(hash); found {
			p.logger.Debug("[processor] cache hit for %s", sub.Source)
			tx := *cached.(*models.ProcessedTransaction)
			tx.Source = sub.Source
			return &tx, nil
		}
	}

	started := p.now()
	flat, err := Normalize(sub.Raw)
	if err != nil {
		return nil, fmt.Errorf("processor: %s: %w", sub.Source, err)
	}

	var (
		wg         sync.WaitGroup
		validation models.ValidationResult
		ocr        *models.OCRData
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		validation = p.validator.Validate(flat)
	}()
	go func() {
		defer wg.Done()
		ocr = parseDocuments(sub.Documents)
	}()
	wg.Wait()

	if !validation.Valid {
		p.logger.Warn("[processor] %s: %d validation errors", sub.Source, len(validation.Errors))
	}

	clean := p.merger.Merge(flat, ocr)
	contract := BuildDatasetContract(clean, p.now())
	issues := CheckConformance(contract, clean)
	if len(issues) > 0 {
		p.logger.Warn("[processor] %s: dataset contract issues: %v", sub.Source, issues)
	}
	compliance := p.compliance.Check(clean)
	quality := p.scorer.Score(clean, compliance)

	tx := &models.ProcessedTransaction{
		RunID:           uuid.New().String(),
		Source:          sub.Source,
		InputHash:       hash,
		Input:           flat,
		OCR:             ocr,
		Clean:           clean,
		Validation:      validation,
		Compliance:      compliance,
		Quality:         quality,
		DatasetContract: contract,
		ContractIssues:  issues,
		Features:        ExtractFeatures(clean),
		StartedAt:       started,
		CompletedAt:     p.now(),
	}
	if p.results != nil {
		p.results.Set(hash, tx, cache.DefaultExpiration)
	}

	p.logger.Info("[processor] %s: score %d/100 (%s), compliant=%v, valid=%v",
		sub.Source, quality.Score, quality.Grade, compliance.Compliant, validation.Valid)
	return tx, nil
}

// ProcessBatch runs submissions through a worker pool. Identical submissions
// are processed once. Results keep the input order.
func (p *Processor) ProcessBatch(ctx context.Context, subs []Submission) []BatchResult {
	results := make([]BatchResult, len(subs))
	hashes := make([]string, len(subs))
	seen := utils.NewKeySet()
	pool := utils.NewWorkerPool(p.maxWorkers, 0)

	for i, sub := range subs {
		results[i].Source = sub.Source
		hash, err := InputHash(sub)
		if err != nil {
			results[i].Err = err
			continue
		}
		hashes[i] = hash
		if !seen.Add(hash) {
			results[i].Duplicate = true
			continue
		}

		i, sub := i, sub
		if err := pool.Go(ctx, func() {
			results[i].Transaction, results[i].Err = p.Process(ctx, sub)
		}); err != nil {
			results[i].Err = fmt.Errorf("processor: %s: %w", sub.Source, err)
		}
	}
	pool.Wait()

	first := make(map[string]int, seen.Size())
	for i := range results {
		if results[i].Duplicate || hashes[i] == "" {
			continue
		}
		first[hashes[i]] = i
	}
	for i := range results {
		if !results[i].Duplicate {
			continue
		}
		src := results[first[hashes[i]]]
		results[i].Transaction, results[i].Err = src.Transaction, src.Err
	}

	p.logger.Info("[processor] batch of %d submissions done (%d unique)", len(subs), seen.Size())
	return results
}

// InputHash fingerprints a submission's raw data and documents.
func InputHash(sub Submission) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(sub.Raw); err != nil {
		return "", fmt.Errorf("processor: hash input: %w", err)
	}
	for _, d := range sub.Documents {
		fmt.Fprintf(h, "%s\x00%s\x00", d.Name, d.Text)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// parseDocuments merges the fields of every document in order; nil when
// there are none.
func parseDocuments(docs []Document) *models.OCRData {
	if len(docs) == 0 {
		return nil
	}
	merged := &models.OCRData{}
	for _, d := range docs {
		merged.Overlay(ParseDocument(d.Name, d.Text))
	}
	return merged
}
