package catalog

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/store"
)

// Options tune ledger behavior the original left ambiguous.
type Options struct {
	// StrictUpdate makes Update fail with ErrNotFound for unknown ids
	// instead of upserting.
	StrictUpdate bool
}

// Ledger owns the product collection and the stock invariant
// (quantity >= 0).
type Ledger struct {
	store  *store.Store
	idgen  *snowflake.Node
	logger *zap.Logger
	opts   Options
}

// NewLedger creates a catalog ledger over the given store.
func NewLedger(s *store.Store, idgen *snowflake.Node, logger *zap.Logger, opts Options) *Ledger {
	if logger == nil {
		logger = zap.L()
	}
	return &Ledger{store: s, idgen: idgen, logger: logger, opts: opts}
}

// Draft carries every product field the operator supplies; id and
// creation time are assigned by the ledger.
type Draft struct {
	Type        string
	Size        string
	Density     string
	Price       float64
	CostPrice   float64
	Quantity    int
	Description string
	ImageBase64 string
}

func (d *Draft) validate() error {
	if !domain.ValidType(d.Type) {
		return errors.Wrapf(domain.ErrValidation, "type must be %q or %q", domain.TypeBanner, domain.TypeTent)
	}
	if strings.TrimSpace(d.Size) == "" {
		return errors.Wrap(domain.ErrValidation, "size is required")
	}
	if strings.TrimSpace(d.Density) == "" {
		return errors.Wrap(domain.ErrValidation, "density is required")
	}
	if d.Price < 0 {
		return errors.Wrap(domain.ErrValidation, "price must not be negative")
	}
	if d.CostPrice < 0 {
		return errors.Wrap(domain.ErrValidation, "cost price must not be negative")
	}
	if d.Quantity < 0 {
		return errors.Wrap(domain.ErrValidation, "quantity must not be negative")
	}
	return nil
}

// Create validates the draft, assigns a fresh id and creation time and
// persists the product.
func (l *Ledger) Create(draft Draft) (*domain.Product, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:          l.idgen.Generate().Int64(),
		Type:        draft.Type,
		Size:        strings.TrimSpace(draft.Size),
		Density:     strings.TrimSpace(draft.Density),
		Price:       draft.Price,
		CostPrice:   draft.CostPrice,
		Quantity:    draft.Quantity,
		Description: draft.Description,
		ImageBase64: draft.ImageBase64,
		CreatedAt:   time.Now(),
	}
	if err := l.store.Put(domain.BucketProducts, p.ID, p); err != nil {
		return nil, err
	}
	l.logger.Info("product created",
		zap.Int64("id", p.ID),
		zap.String("type", p.Type),
		zap.String("size", p.Size),
		zap.String("density", p.Density))
	return p, nil
}

// Get returns the product with the given id.
func (l *Ledger) Get(id int64) (*domain.Product, error) {
	var p domain.Product
	if err := l.store.Get(domain.BucketProducts, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the stored record with p. Upsert by default; strict
// mode rejects unknown ids. The stored CreatedAt of an existing row
// wins over whatever the caller sent.
func (l *Ledger) Update(p *domain.Product) error {
	if p == nil || p.ID == 0 {
		return errors.Wrap(domain.ErrValidation, "product id is required")
	}
	d := Draft{
		Type:      p.Type,
		Size:      p.Size,
		Density:   p.Density,
		Price:     p.Price,
		CostPrice: p.CostPrice,
		Quantity:  p.Quantity,
	}
	if err := d.validate(); err != nil {
		return err
	}
	return l.store.Update(func(tx *store.Tx) error {
		var prev domain.Product
		err := tx.Get(domain.BucketProducts, p.ID, &prev)
		switch {
		case err == nil:
			p.CreatedAt = prev.CreatedAt
		case errors.Is(err, domain.ErrNotFound):
			if l.opts.StrictUpdate {
				return err
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = time.Now()
			}
		default:
			return err
		}
		return tx.Put(domain.BucketProducts, p.ID, p)
	})
}

// AdjustQuantity applies delta to the on-hand stock and returns the
// updated product. It is the only code path that mutates Quantity.
func (l *Ledger) AdjustQuantity(id int64, delta int) (*domain.Product, error) {
	var p *domain.Product
	err := l.store.Update(func(tx *store.Tx) error {
		var err error
		p, err = l.AdjustQuantityTx(tx, id, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("stock adjusted",
		zap.Int64("id", p.ID),
		zap.Int("delta", delta),
		zap.Int("quantity", p.Quantity))
	return p, nil
}

// AdjustQuantityTx is the transaction-scoped form of AdjustQuantity so
// the sales ledger can combine the decrement with its own writes in
// one transaction.
func (l *Ledger) AdjustQuantityTx(tx *store.Tx, id int64, delta int) (*domain.Product, error) {
	var p domain.Product
	if err := tx.Get(domain.BucketProducts, id, &p); err != nil {
		return nil, err
	}
	next := p.Quantity + delta
	if next < 0 {
		return nil, errors.Wrapf(domain.ErrInvalidQuantity, "on hand %d, delta %d", p.Quantity, delta)
	}
	p.Quantity = next
	if err := tx.Put(domain.BucketProducts, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the product unconditionally. Sales referencing it are
// kept as historical facts and drop out of product-keyed reports.
func (l *Ledger) Delete(id int64) error {
	if err := l.store.Delete(domain.BucketProducts, id); err != nil {
		return err
	}
	l.logger.Info("product deleted", zap.Int64("id", id))
	return nil
}
