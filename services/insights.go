package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Summarize turns processed transactions into the rows persisted for
// portfolio analytics.
func Summarize(txs []*models.ProcessedTransaction) []*models.StoredTransaction {
	out := make([]*models.StoredTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		out = append(out, &models.StoredTransaction{
			RunID:           tx.RunID,
			SellerName:      tx.Clean.SellerName,
			BuyerName:       tx.Clean.BuyerName,
			PropertyAddress: tx.Clean.PropertyAddress,
			PropertyType:    tx.Clean.PropertyType,
			Price:           tx.Clean.Price,
			AreaSqm:         tx.Clean.AreaSqm,
			PricePerSqm:     tx.Clean.PricePerSqm,
			Score:           tx.Quality.Score,
			Grade:           string(tx.Quality.Grade),
			Compliant:       tx.Compliance.Compliant,
			Valid:           tx.Validation.Valid,
			CreatedAt:       tx.CompletedAt,
		})
	}
	return out
}

func (s *InsightService) Generate(txs []*models.StoredTransaction) *models.PortfolioInsights {
	report := &models.PortfolioInsights{
		ByPropertyType: make(map[string]int),
	}

	if len(txs) == 0 {
		return report
	}

	report.TotalTransactions = len(txs)

	var priced []*models.StoredTransaction
	var ppsmTotal float64
	var ppsmCount int
	var scoreTotal int

	for _, t := range txs {
		if t.Compliant {
			report.CompliantCount++
		}
		if t.Valid {
			report.ValidCount++
		}
		if t.Price > 0 {
			priced = append(priced, t)
		}
		if t.PricePerSqm > 0 {
			ppsmTotal += t.PricePerSqm
			ppsmCount++
		}
		if t.PropertyType != "" {
			report.ByPropertyType[t.PropertyType]++
		}
		scoreTotal += t.Score
	}

	// Price stats (only transactions with a price)
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		report.MostExpensive = priced[0]
		var total float64
		for _, t := range priced {
			total += t.Price
			if t.Price < report.MinPrice {
				report.MinPrice = t.Price
			}
			if t.Price > report.MaxPrice {
				report.MaxPrice = t.Price
				report.MostExpensive = t
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
	}
	if ppsmCount > 0 {
		report.AveragePricePerSqm = round2(ppsmTotal / float64(ppsmCount))
	}
	report.AverageScore = round2(float64(scoreTotal) / float64(len(txs)))

	// Top 5 by quality score
	ranked := append([]*models.StoredTransaction(nil), txs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	report.TopScored = ranked

	s.logger.Info("[insights] %d transactions, %d compliant", report.TotalTransactions, report.CompliantCount)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.PortfolioInsights) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🏠 REAL ESTATE PORTFOLIO INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Transactions processed : \033[1m%d\033[0m\n", r.TotalTransactions)
	fmt.Fprintf(w, "  Passed validation      : \033[1m%d\033[0m\n", r.ValidCount)
	fmt.Fprintf(w, "  Legally compliant      : \033[1m%d\033[0m\n", r.CompliantCount)
	fmt.Fprintf(w, "  Average quality score  : \033[1m%.1f\033[0m\n", r.AverageScore)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics (ILS)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price  : \033[1;32m₪%s\033[0m\n", shekels(r.AveragePrice))
		fmt.Fprintf(w, "  Minimum price  : \033[1;32m₪%s\033[0m\n", shekels(r.MinPrice))
		fmt.Fprintf(w, "  Maximum price  : \033[1;32m₪%s\033[0m\n", shekels(r.MaxPrice))
		fmt.Fprintf(w, "  Avg per sqm    : \033[1;32m₪%s\033[0m\n", shekels(r.AveragePricePerSqm))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Property\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.PropertyAddress, 50))
		fmt.Fprintf(w, "  Seller : %s\n", r.MostExpensive.SellerName)
		fmt.Fprintf(w, "  Price  : \033[1;31m₪%s\033[0m\n", shekels(r.MostExpensive.Price))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top 5 Contracts by Quality\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopScored) == 0 {
		fmt.Fprintf(w, "  No transactions scored\n")
	} else {
		for i, t := range r.TopScored {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%3d/100\033[0m\n",
				i+1, truncate(t.PropertyAddress, 38), t.Score)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Transactions by Property Type\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByPropertyType) == 0 {
		fmt.Fprintf(w, "  No property type data\n")
	} else {
		type typeCount struct {
			kind  string
			count int
		}
		var kinds []typeCount
		for k, cnt := range r.ByPropertyType {
			kinds = append(kinds, typeCount{k, cnt})
		}
		sort.Slice(kinds, func(i, j int) bool {
			if kinds[i].count != kinds[j].count {
				return kinds[i].count > kinds[j].count
			}
			return kinds[i].kind < kinds[j].kind
		})
		for _, tc := range kinds {
			bar := strings.Repeat("█", tc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(tc.kind, 28), bar, tc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func shekels(v float64) string {
	return humanize.Commaf(float64(int64(v + 0.5)))
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

// truncate shortens s to max runes; Hebrew text is multi-byte.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
