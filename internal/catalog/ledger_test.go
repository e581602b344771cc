package catalog

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/store"
)

func newTestLedger(t *testing.T, opts Options) *Ledger {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewLedger(s, node, zaptest.NewLogger(t), opts)
}

func validDraft() Draft {
	return Draft{Type: domain.TypeBanner, Size: "3x4", Density: "450", Price: 100, CostPrice: 60, Quantity: 5}
}

func TestCreateValidation(t *testing.T) {
	l := newTestLedger(t, Options{})

	cases := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"unknown type", func(d *Draft) { d.Type = "flag" }},
		{"empty size", func(d *Draft) { d.Size = "  " }},
		{"empty density", func(d *Draft) { d.Density = "" }},
		{"negative price", func(d *Draft) { d.Price = -1 }},
		{"negative cost", func(d *Draft) { d.CostPrice = -0.5 }},
		{"negative quantity", func(d *Draft) { d.Quantity = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			_, err := l.Create(d)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	l := newTestLedger(t, Options{})

	p, err := l.Create(validDraft())
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := l.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 5, got.Quantity)
}

func TestAdjustQuantityInvariant(t *testing.T) {
	l := newTestLedger(t, Options{})
	p, err := l.Create(validDraft())
	require.NoError(t, err)

	got, err := l.AdjustQuantity(p.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	// over-draw is rejected and leaves the stock unchanged
	_, err = l.AdjustQuantity(p.ID, -4)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	got, err = l.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	got, err = l.AdjustQuantity(p.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Quantity)
}

func TestAdjustQuantityMissingProduct(t *testing.T) {
	l := newTestLedger(t, Options{})
	_, err := l.AdjustQuantity(12345, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateUpsertsByDefault(t *testing.T) {
	l := newTestLedger(t, Options{})

	p := &domain.Product{ID: 777, Type: domain.TypeTent, Size: "2x3", Density: "510", Price: 50}
	require.NoError(t, l.Update(p))
	assert.False(t, p.CreatedAt.IsZero())

	got, err := l.Get(777)
	require.NoError(t, err)
	assert.Equal(t, "510", got.Density)
}

func TestUpdateStrictMode(t *testing.T) {
	l := newTestLedger(t, Options{StrictUpdate: true})

	p := &domain.Product{ID: 777, Type: domain.TypeTent, Size: "2x3", Density: "510", Price: 50}
	err := l.Update(p)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	l := newTestLedger(t, Options{})
	p, err := l.Create(validDraft())
	require.NoError(t, err)

	edit := *p
	edit.Price = 120
	edit.CreatedAt = edit.CreatedAt.AddDate(1, 0, 0) // callers cannot move it
	require.NoError(t, l.Update(&edit))

	got, err := l.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Price)
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt))
}

func TestDelete(t *testing.T) {
	l := newTestLedger(t, Options{})
	p, err := l.Create(validDraft())
	require.NoError(t, err)

	require.NoError(t, l.Delete(p.ID))
	_, err = l.Get(p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// unconditional: deleting an unknown id does not error
	require.NoError(t, l.Delete(p.ID))
}
