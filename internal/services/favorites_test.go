package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rugstoreapp/rugstore/internal/models"
)

type favoriteKey struct {
	sessionKey string
	productID  int64
}

type fakeFavorites struct {
	entries map[favoriteKey]bool
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{entries: make(map[favoriteKey]bool)}
}

func (f *fakeFavorites) Insert(_ context.Context, sessionKey string, productID int64) error {
	f.entries[favoriteKey{sessionKey: sessionKey, productID: productID}] = true
	return nil
}

func (f *fakeFavorites) ListBySession(_ context.Context, sessionKey string) ([]models.FavoriteDetail, error) {
	var out []models.FavoriteDetail
	for key := range f.entries {
		if key.sessionKey == sessionKey {
			detail := models.FavoriteDetail{Product: models.Product{ID: key.productID}}
			detail.SessionKey = key.sessionKey
			detail.ProductID = key.productID
			out = append(out, detail)
		}
	}
	return out, nil
}

func (f *fakeFavorites) Delete(_ context.Context, sessionKey string, productID int64) error {
	delete(f.entries, favoriteKey{sessionKey: sessionKey, productID: productID})
	return nil
}

func TestFavoriteServiceAddListRemove(t *testing.T) {
	t.Parallel()

	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewFavoriteService(newFakeFavorites(), products, testLogger())

	if err := svc.Add(context.Background(), "sess-1", 7); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Adding the same product again is a no-op, not an error.
	if err := svc.Add(context.Background(), "sess-1", 7); err != nil {
		t.Fatalf("repeat Add: %v", err)
	}

	favorites, err := svc.List(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ProductID != 7 {
		t.Fatalf("favorites = %+v, want one entry for product 7", favorites)
	}

	if err := svc.Remove(context.Background(), "sess-1", 7); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(context.Background(), "sess-1", 7); err != nil {
		t.Fatalf("repeat Remove: %v", err)
	}

	favorites, err = svc.List(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("List after Remove: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("favorites after Remove = %+v, want none", favorites)
	}
}

func TestFavoriteServiceRejections(t *testing.T) {
	t.Parallel()

	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewFavoriteService(newFakeFavorites(), products, testLogger())

	if err := svc.Add(context.Background(), "", 7); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Add without session error = %v, want ErrSessionNotFound", err)
	}
	if err := svc.Add(context.Background(), "sess-1", 99); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("Add unknown product error = %v, want ErrProductNotFound", err)
	}
	if _, err := svc.List(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("List without session error = %v, want ErrSessionNotFound", err)
	}
	if err := svc.Remove(context.Background(), "", 7); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Remove without session error = %v, want ErrSessionNotFound", err)
	}
}
