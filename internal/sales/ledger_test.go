package sales

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/talkincode/bannerstock/internal/catalog"
	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/store"
)

type testLedgers struct {
	catalog *catalog.Ledger
	sales   *Ledger
	bus     EventBus.Bus
}

func newTestLedgers(t *testing.T, mode PriceMode) *testLedgers {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	bus := EventBus.New()
	cat := catalog.NewLedger(s, node, logger, catalog.Options{})
	return &testLedgers{
		catalog: cat,
		sales:   NewLedger(s, cat, node, bus, logger, mode),
		bus:     bus,
	}
}

func createProduct(t *testing.T, cat *catalog.Ledger, price, cost float64, qty int) *domain.Product {
	t.Helper()
	p, err := cat.Create(catalog.Draft{
		Type: domain.TypeBanner, Size: "3x4", Density: "450",
		Price: price, CostPrice: cost, Quantity: qty,
	})
	require.NoError(t, err)
	return p
}

var wideStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
var wideEnd = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRecordSaleDecrementsAtomically(t *testing.T) {
	tl := newTestLedgers(t, PriceModeCurrent)
	p := createProduct(t, tl.catalog, 100, 60, 5)
	date := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

	sale, err := tl.sales.RecordSale(p.ID, 3, date)
	require.NoError(t, err)
	assert.Equal(t, 3, sale.Quantity)
	assert.Equal(t, p.ID, sale.ProductID)

	got, err := tl.catalog.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	// overselling fails without touching stock or the sale ledger
	_, err = tl.sales.RecordSale(p.ID, 10, date)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	got, err = tl.catalog.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	rows, err := tl.sales.SalesBetween(wideStart, wideEnd)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
}

func TestRecordSaleValidation(t *testing.T) {
	tl := newTestLedgers(t, PriceModeCurrent)
	p := createProduct(t, tl.catalog, 100, 60, 5)

	_, err := tl.sales.RecordSale(p.ID, 0, time.Now())
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = tl.sales.RecordSale(p.ID, -2, time.Now())
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = tl.sales.RecordSale(99999, 1, time.Now())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// failed attempts never append sale rows
	rows, err := tl.sales.SalesBetween(wideStart, wideEnd)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecordSaleSnapshotsPriceInSaleMode(t *testing.T) {
	tl := newTestLedgers(t, PriceModeSale)
	p := createProduct(t, tl.catalog, 100, 60, 5)

	sale, err := tl.sales.RecordSale(p.ID, 1, time.Now())
	require.NoError(t, err)
	require.NotNil(t, sale.UnitPrice)
	require.NotNil(t, sale.UnitCost)
	assert.Equal(t, 100.0, *sale.UnitPrice)
	assert.Equal(t, 60.0, *sale.UnitCost)
}

func TestRecordSaleSkipsSnapshotInCurrentMode(t *testing.T) {
	tl := newTestLedgers(t, PriceModeCurrent)
	p := createProduct(t, tl.catalog, 100, 60, 5)

	sale, err := tl.sales.RecordSale(p.ID, 1, time.Now())
	require.NoError(t, err)
	assert.Nil(t, sale.UnitPrice)
	assert.Nil(t, sale.UnitCost)
}

func TestRecordSalePublishesEvent(t *testing.T) {
	tl := newTestLedgers(t, PriceModeCurrent)
	p := createProduct(t, tl.catalog, 100, 60, 5)

	var gotRemaining int
	var gotProduct int64
	require.NoError(t, tl.bus.Subscribe(TopicSaleRecorded, func(s *domain.Sale, remaining int) {
		gotProduct = s.ProductID
		gotRemaining = remaining
	}))

	_, err := tl.sales.RecordSale(p.ID, 4, time.Now())
	require.NoError(t, err)
	assert.Equal(t, p.ID, gotProduct)
	assert.Equal(t, 1, gotRemaining)
}

func TestSalesBetweenWindow(t *testing.T) {
	tl := newTestLedgers(t, PriceModeCurrent)
	p := createProduct(t, tl.catalog, 100, 60, 10)

	inside := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	lastDay := time.Date(2025, 7, 31, 18, 0, 0, 0, time.UTC)
	after := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{after, lastDay, inside} {
		_, err := tl.sales.RecordSale(p.ID, 1, d)
		require.NoError(t, err)
	}

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC) // midnight, still covers the whole day
	rows, err := tl.sales.SalesBetween(start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// oldest first
	assert.True(t, rows[0].Date.Equal(inside))
	assert.True(t, rows[1].Date.Equal(lastDay))
}
