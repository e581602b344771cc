package sales

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/store"
)

// GenerateReport aggregates sales within [start, end] per product and
// returns the lines plus a totals row. The end date is widened to the
// last instant of its calendar day. Sales whose product has been
// deleted are skipped: orphans stay in the ledger but cannot be priced.
//
// This is a pure read; both collections are read from one consistent
// snapshot and nothing is written or cached.
func (l *Ledger) GenerateReport(start, end time.Time) (*domain.SalesReport, error) {
	end = endOfDay(end)

	lines := map[int64]*domain.ReportLine{}
	err := l.store.View(func(tx *store.Tx) error {
		return tx.ForEach(domain.BucketSales, func(data []byte) error {
			var s domain.Sale
			if err := store.Decode(data, &s); err != nil {
				return err
			}
			if s.Date.Before(start) || s.Date.After(end) {
				return nil
			}
			var p domain.Product
			err := tx.Get(domain.BucketProducts, s.ProductID, &p)
			if errors.Is(err, domain.ErrNotFound) {
				return nil // orphaned sale
			}
			if err != nil {
				return err
			}

			price, cost := l.pricing(&s, &p)
			line, ok := lines[p.ID]
			if !ok {
				line = &domain.ReportLine{ProductID: p.ID, ProductName: p.Label()}
				lines[p.ID] = line
			}
			line.QuantitySold += s.Quantity
			line.TotalRevenue += float64(s.Quantity) * price
			line.TotalProfit += float64(s.Quantity) * (price - cost)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	report := &domain.SalesReport{Lines: make([]domain.ReportLine, 0, len(lines))}
	for _, line := range lines {
		report.Lines = append(report.Lines, *line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		a, b := report.Lines[i], report.Lines[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return a.ProductID < b.ProductID
	})
	for _, line := range report.Lines {
		report.Totals.QuantitySold += line.QuantitySold
		report.Totals.TotalRevenue += line.TotalRevenue
		report.Totals.TotalProfit += line.TotalProfit
	}
	report.Totals.ProductName = "total"
	return report, nil
}

// pricing resolves the unit price and cost for one sale row. Snapshot
// prices apply only in sale mode; rows recorded before that mode was
// enabled fall back to the current catalog price.
func (l *Ledger) pricing(s *domain.Sale, p *domain.Product) (price, cost float64) {
	if l.priceMode == PriceModeSale && s.UnitPrice != nil {
		if s.UnitCost != nil {
			cost = *s.UnitCost
		}
		return *s.UnitPrice, cost
	}
	return p.Price, p.CostPrice
}
