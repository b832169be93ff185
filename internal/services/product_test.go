package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rugstoreapp/rugstore/internal/cache"
	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/models"
)

type fakeProductStore struct {
	products map[int64]*models.Product
	gets     int
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[int64]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetByID(_ context.Context, id int64) (*models.Product, error) {
	f.gets++
	p, ok := f.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProductStore) List(_ context.Context, limit, offset int) ([]*models.Product, int, error) {
	var out []*models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProductStore) ListNewest(_ context.Context, limit int) ([]*models.Product, error) {
	products, _, err := f.List(context.Background(), limit, 0)
	return products, err
}

func (f *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	product.ID = int64(len(f.products) + 1)
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return db.ErrNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakePropagator struct {
	calls    int
	price    int
	discount int
	sizes    []string
	removed  []int64
}

func (f *fakePropagator) ProductChanged(_ context.Context, _ int64, newPrice, newDiscount int, newSizes []string) ([]int64, error) {
	f.calls++
	f.price = newPrice
	f.discount = newDiscount
	f.sizes = newSizes
	return f.removed, nil
}

func newTestCache(t *testing.T) cache.Provider {
	t.Helper()
	c, err := cache.NewMemoryProvider()
	if err != nil {
		t.Fatalf("NewMemoryProvider() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestProductGetCaches(t *testing.T) {
	t.Parallel()

	store := newFakeProductStore(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewProductService(store, newTestCache(t), &fakePropagator{}, testLogger())

	for i := 0; i < 3; i++ {
		got, err := svc.Get(context.Background(), 7)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != "Meadow" {
			t.Fatalf("Get() name = %q, want Meadow", got.Name)
		}
	}
	if store.gets != 1 {
		t.Fatalf("store was hit %d times, want 1", store.gets)
	}
}

func TestProductGetNotFound(t *testing.T) {
	t.Parallel()

	svc := NewProductService(newFakeProductStore(), newTestCache(t), &fakePropagator{}, testLogger())
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("Get() error = %v, want ErrProductNotFound", err)
	}
}

func TestProductUpdatePropagatesAndInvalidates(t *testing.T) {
	t.Parallel()

	store := newFakeProductStore(&models.Product{ID: 7, Name: "Meadow", Price: 100, Sizes: []string{"2x3", "1x2"}})
	prop := &fakePropagator{removed: []int64{11}}
	c := newTestCache(t)
	svc := NewProductService(store, c, prop, testLogger())

	// Warm the cache with the old price.
	if _, err := svc.Get(context.Background(), 7); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	removed, err := svc.Update(context.Background(), &models.Product{ID: 7, Name: "Meadow", Price: 150, Sizes: []string{"2x3"}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(removed) != 1 || removed[0] != 11 {
		t.Fatalf("removed = %v, want [11]", removed)
	}
	if prop.calls != 1 || prop.price != 150 {
		t.Fatalf("propagator calls = %d, price = %d, want 1 and 150", prop.calls, prop.price)
	}

	// The stale cache entry must be gone so the next read sees the new price.
	if _, err := c.Get(context.Background(), cache.ProductKey(7)); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("cache entry survived the update: %v", err)
	}
	got, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if got.Price != 150 {
		t.Fatalf("price after update = %d, want 150", got.Price)
	}
}

func TestProductUpdateValidation(t *testing.T) {
	t.Parallel()

	store := newFakeProductStore(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	prop := &fakePropagator{}
	svc := NewProductService(store, newTestCache(t), prop, testLogger())

	tests := []struct {
		name    string
		product *models.Product
		wantErr error
	}{
		{"blank name", &models.Product{ID: 7, Name: "  ", Price: 100}, ErrMissingFields},
		{"zero price", &models.Product{ID: 7, Name: "Meadow", Price: 0}, ErrMissingFields},
		{"negative discount", &models.Product{ID: 7, Name: "Meadow", Price: 100, Discount: -1}, ErrMissingFields},
		{"discount above price", &models.Product{ID: 7, Name: "Meadow", Price: 100, Discount: 120}, ErrMissingFields},
		{"unknown product", &models.Product{ID: 42, Name: "Ghost", Price: 100}, ErrProductNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), tc.product); !errors.Is(err, tc.wantErr) {
				t.Fatalf("Update() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
	if prop.calls != 0 {
		t.Fatal("propagator ran for a rejected update")
	}
}

// Discount is a discounted per-square-meter price, so values well above any
// percentage scale are legitimate as long as they stay under the regular price.
func TestProductUpdateAcceptsDiscountedUnitPrice(t *testing.T) {
	t.Parallel()

	store := newFakeProductStore(&models.Product{ID: 7, Name: "Meadow", Price: 5000})
	prop := &fakePropagator{}
	svc := NewProductService(store, newTestCache(t), prop, testLogger())

	_, err := svc.Update(context.Background(), &models.Product{
		ID: 7, Name: "Meadow", Price: 5000, Discount: 4000, Sizes: []string{"2x3"},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if prop.discount != 4000 {
		t.Fatalf("propagated discount = %d, want 4000", prop.discount)
	}
}

func TestProductGetDiscardsMalformedCacheEntry(t *testing.T) {
	t.Parallel()

	store := newFakeProductStore(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	c := newTestCache(t)
	if err := c.Set(context.Background(), cache.ProductKey(7), "{not json", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	svc := NewProductService(store, c, &fakePropagator{}, testLogger())

	got, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Price != 100 {
		t.Fatalf("price = %d, want 100", got.Price)
	}

	// The bad entry was replaced with a well-formed one.
	raw, err := c.Get(context.Background(), cache.ProductKey(7))
	if err != nil {
		t.Fatalf("cache Get() error = %v", err)
	}
	var cached models.Product
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("cache still holds malformed data: %v", err)
	}
}
