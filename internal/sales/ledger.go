package sales

import (
	"sort"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/bannerstock/internal/catalog"
	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/store"
)

// TopicSaleRecorded is published after a sale commits. Arguments:
// the *domain.Sale and the remaining stock (int).
const TopicSaleRecorded = "sale/recorded"

// PriceMode selects which price the report engine applies to a sale.
type PriceMode string

const (
	// PriceModeCurrent reprices history with the product's current
	// price, matching the legacy behavior: editing a product changes
	// past reports.
	PriceModeCurrent PriceMode = "current"

	// PriceModeSale snapshots unit price and cost onto the sale row at
	// record time; reports prefer the snapshot.
	PriceModeSale PriceMode = "sale"
)

// Ledger owns the immutable sale collection and the report engine.
type Ledger struct {
	store     *store.Store
	catalog   *catalog.Ledger
	idgen     *snowflake.Node
	bus       EventBus.Bus
	logger    *zap.Logger
	priceMode PriceMode
}

// NewLedger creates a sales ledger. The catalog ledger is required:
// its AdjustQuantityTx is the only sanctioned way to touch stock.
func NewLedger(s *store.Store, cat *catalog.Ledger, idgen *snowflake.Node,
	bus EventBus.Bus, logger *zap.Logger, mode PriceMode) *Ledger {
	if logger == nil {
		logger = zap.L()
	}
	if mode == "" {
		mode = PriceModeCurrent
	}
	return &Ledger{store: s, catalog: cat, idgen: idgen, bus: bus, logger: logger, priceMode: mode}
}

// RecordSale decrements the product's stock and appends the sale in a
// single store transaction. A failure on either side leaves both
// collections untouched.
func (l *Ledger) RecordSale(productID int64, quantity int, date time.Time) (*domain.Sale, error) {
	if quantity <= 0 {
		return nil, errors.Wrap(domain.ErrValidation, "sale quantity must be positive")
	}

	var (
		sale      *domain.Sale
		remaining int
	)
	err := l.store.Update(func(tx *store.Tx) error {
		var p domain.Product
		if err := tx.Get(domain.BucketProducts, productID, &p); err != nil {
			return err
		}
		if p.Quantity < quantity {
			return errors.Wrapf(domain.ErrInsufficientStock, "on hand %d, requested %d", p.Quantity, quantity)
		}
		updated, err := l.catalog.AdjustQuantityTx(tx, productID, -quantity)
		if err != nil {
			return err
		}
		remaining = updated.Quantity

		sale = &domain.Sale{
			ID:        l.idgen.Generate().Int64(),
			ProductID: productID,
			Quantity:  quantity,
			Date:      date,
		}
		if l.priceMode == PriceModeSale {
			price, cost := p.Price, p.CostPrice
			sale.UnitPrice = &price
			sale.UnitCost = &cost
		}
		return tx.Put(domain.BucketSales, sale.ID, sale)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", remaining))
	if l.bus != nil {
		l.bus.Publish(TopicSaleRecorded, sale, remaining)
	}
	return sale, nil
}

// SalesBetween returns sale rows whose date falls inside the inclusive
// window, oldest first. The end date covers its whole calendar day.
func (l *Ledger) SalesBetween(start, end time.Time) ([]*domain.Sale, error) {
	end = endOfDay(end)
	var out []*domain.Sale
	err := l.store.ForEach(domain.BucketSales, func(data []byte) error {
		var s domain.Sale
		if err := store.Decode(data, &s); err != nil {
			return err
		}
		if s.Date.Before(start) || s.Date.After(end) {
			return nil
		}
		out = append(out, &s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// endOfDay pins t to the last instant of its calendar day so a report
// window includes everything recorded on the end date.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
