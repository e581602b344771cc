package store

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bannerstock/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := newTestStore(t)

	in := domain.Product{ID: 42, Type: domain.TypeBanner, Size: "3x4", Density: "450", Price: 100}
	require.NoError(t, s.Put(domain.BucketProducts, in.ID, &in))

	var out domain.Product
	require.NoError(t, s.Get(domain.BucketProducts, in.ID, &out))
	assert.Equal(t, in, out)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	var out domain.Product
	err := s.Get(domain.BucketProducts, 999, &out)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	p := domain.Product{ID: 7, Type: domain.TypeTent, Size: "2x3", Density: "510"}
	require.NoError(t, s.Put(domain.BucketProducts, p.ID, &p))
	require.NoError(t, s.Delete(domain.BucketProducts, p.ID))

	var out domain.Product
	assert.True(t, errors.Is(s.Get(domain.BucketProducts, p.ID, &out), domain.ErrNotFound))

	// deleting a missing key is a no-op
	require.NoError(t, s.Delete(domain.BucketProducts, p.ID))
}

func TestForEachKeyOrder(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []int64{30, 10, 20} {
		p := domain.Product{ID: id, Type: domain.TypeBanner, Size: "1x1", Density: "300"}
		require.NoError(t, s.Put(domain.BucketProducts, id, &p))
	}

	var ids []int64
	require.NoError(t, s.ForEach(domain.BucketProducts, func(data []byte) error {
		var p domain.Product
		if err := Decode(data, &p); err != nil {
			return err
		}
		ids = append(ids, p.ID)
		return nil
	}))
	assert.Equal(t, []int64{10, 20, 30}, ids)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.Update(func(tx *Tx) error {
		p := domain.Product{ID: 1, Type: domain.TypeBanner, Size: "3x4", Density: "450"}
		if err := tx.Put(domain.BucketProducts, p.ID, &p); err != nil {
			return err
		}
		sale := domain.Sale{ID: 2, ProductID: 1, Quantity: 1}
		if err := tx.Put(domain.BucketSales, sale.ID, &sale); err != nil {
			return err
		}
		return boom
	})
	require.True(t, errors.Is(err, boom))

	var p domain.Product
	assert.True(t, errors.Is(s.Get(domain.BucketProducts, 1, &p), domain.ErrNotFound))
	var sale domain.Sale
	assert.True(t, errors.Is(s.Get(domain.BucketSales, 2, &sale), domain.ErrNotFound))
}

func TestReset(t *testing.T) {
	s := newTestStore(t)

	p := domain.Product{ID: 1, Type: domain.TypeBanner, Size: "3x4", Density: "450"}
	require.NoError(t, s.Put(domain.BucketProducts, p.ID, &p))
	require.NoError(t, s.Reset())

	var out domain.Product
	assert.True(t, errors.Is(s.Get(domain.BucketProducts, p.ID, &out), domain.ErrNotFound))
}
