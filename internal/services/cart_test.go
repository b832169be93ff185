package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/models"
)

type fakeProducts struct {
	mu       sync.Mutex
	products map[int64]*models.Product
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{products: make(map[int64]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProducts) set(p *models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

type lineKey struct {
	sessionKey string
	productID  int64
	size       string
}

type fakeCartLines struct {
	mu     sync.Mutex
	nextID int64
	lines  map[int64]*models.CartLine
	keys   map[lineKey]int64
}

func newFakeCartLines() *fakeCartLines {
	return &fakeCartLines{
		lines: make(map[int64]*models.CartLine),
		keys:  make(map[lineKey]int64),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "cart_lines_session_product_size_key"}
}

func (f *fakeCartLines) InsertLine(_ context.Context, line *models.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := lineKey{line.SessionKey, line.ProductID, line.Size}
	if _, exists := f.keys[key]; exists {
		return uniqueViolation()
	}
	f.nextID++
	line.ID = f.nextID
	clone := *line
	f.lines[line.ID] = &clone
	f.keys[key] = line.ID
	return nil
}

func (f *fakeCartLines) ListBySession(_ context.Context, sessionKey string) ([]models.CartLineDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []models.CartLineDetail
	for _, line := range f.lines {
		if line.SessionKey == sessionKey {
			details = append(details, models.CartLineDetail{CartLine: *line})
		}
	}
	return details, nil
}

func (f *fakeCartLines) GetLine(_ context.Context, sessionKey string, lineID int64) (*models.CartLineDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[lineID]
	if !ok || line.SessionKey != sessionKey {
		return nil, db.ErrNotFound
	}
	return &models.CartLineDetail{CartLine: *line}, nil
}

func (f *fakeCartLines) DeleteLine(_ context.Context, sessionKey string, lineID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[lineID]
	if !ok || line.SessionKey != sessionKey {
		return nil
	}
	delete(f.keys, lineKey{line.SessionKey, line.ProductID, line.Size})
	delete(f.lines, lineID)
	return nil
}

func (f *fakeCartLines) UpdateLine(_ context.Context, lineID int64, quantity, total, discountTotal int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[lineID]
	if !ok {
		return false, nil
	}
	line.Quantity = quantity
	line.Total = total
	line.DiscountTotal = discountTotal
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCartAddLine(t *testing.T) {
	t.Parallel()

	lines := newFakeCartLines()
	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100, Discount: 10, Sizes: []string{"2x3"}})
	svc := NewCartService(lines, products, testLogger())

	got, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 2)
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("AddLine() returned %d lines, want 1", len(got))
	}
	if got[0].Total != 1200 {
		t.Errorf("line total = %d, want 1200", got[0].Total)
	}
	if got[0].DiscountTotal != 120 {
		t.Errorf("line discount total = %d, want 120", got[0].DiscountTotal)
	}
}

func TestCartAddLineRejections(t *testing.T) {
	t.Parallel()

	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})

	tests := []struct {
		name       string
		sessionKey string
		productID  int64
		size       string
		quantity   int
		wantErr    error
	}{
		{"no session", "", 7, "2x3", 1, ErrSessionNotFound},
		{"zero quantity", "sess-1", 7, "2x3", 0, ErrInvalidQuantity},
		{"negative quantity", "sess-1", 7, "2x3", -2, ErrInvalidQuantity},
		{"unknown product", "sess-1", 42, "2x3", 1, ErrProductNotFound},
		{"malformed size", "sess-1", 7, "big", 1, ErrInvalidSize},
		{"zero dimension", "sess-1", 7, "0x3", 1, ErrInvalidSize},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewCartService(newFakeCartLines(), products, testLogger())
			_, err := svc.AddLine(context.Background(), tc.sessionKey, tc.productID, tc.size, tc.quantity)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("AddLine() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCartAddLineDuplicate(t *testing.T) {
	t.Parallel()

	lines := newFakeCartLines()
	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewCartService(lines, products, testLogger())

	if _, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 1); err != nil {
		t.Fatalf("first AddLine() error = %v", err)
	}
	if _, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 5); !errors.Is(err, ErrDuplicateLine) {
		t.Fatalf("second AddLine() error = %v, want ErrDuplicateLine", err)
	}

	// A different size of the same product is a distinct line.
	if _, err := svc.AddLine(context.Background(), "sess-1", 7, "1x2", 1); err != nil {
		t.Fatalf("AddLine() with new size error = %v", err)
	}
	// Another session is unaffected by the first session's lines.
	if _, err := svc.AddLine(context.Background(), "sess-2", 7, "2x3", 1); err != nil {
		t.Fatalf("AddLine() for second session error = %v", err)
	}
}

func TestCartAddLineConcurrent(t *testing.T) {
	t.Parallel()

	lines := newFakeCartLines()
	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewCartService(lines, products, testLogger())

	const workers = 16
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateLine):
			dup++
		default:
			t.Fatalf("unexpected AddLine() error: %v", err)
		}
	}
	if ok != 1 || dup != workers-1 {
		t.Fatalf("got %d successes and %d duplicates, want 1 and %d", ok, dup, workers-1)
	}
}

func TestCartUpdateQuantityRepricesFromCurrentPrice(t *testing.T) {
	t.Parallel()

	lines := newFakeCartLines()
	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100, Discount: 10})
	svc := NewCartService(lines, products, testLogger())

	got, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 1)
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	lineID := got[0].ID

	// Catalog price changes after the line was added; the update must price
	// against the new value.
	products.set(&models.Product{ID: 7, Name: "Meadow", Price: 150, Discount: 20})

	updated, err := svc.UpdateQuantity(context.Background(), "sess-1", lineID, 2)
	if err != nil {
		t.Fatalf("UpdateQuantity() error = %v", err)
	}
	if updated.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", updated.Quantity)
	}
	if updated.Total != 1800 {
		t.Errorf("total = %d, want 1800", updated.Total)
	}
	if updated.DiscountTotal != 240 {
		t.Errorf("discount total = %d, want 240", updated.DiscountTotal)
	}
}

func TestCartUpdateQuantityRejections(t *testing.T) {
	t.Parallel()

	lines := newFakeCartLines()
	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewCartService(lines, products, testLogger())

	got, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 1)
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	lineID := got[0].ID

	if _, err := svc.UpdateQuantity(context.Background(), "sess-1", lineID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.UpdateQuantity(context.Background(), "sess-1", 999, 2); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("missing line error = %v, want ErrLineNotFound", err)
	}
	// A line belonging to another session is invisible here.
	if _, err := svc.UpdateQuantity(context.Background(), "sess-2", lineID, 2); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("foreign line error = %v, want ErrLineNotFound", err)
	}
}

func TestCartRemoveLineIsIdempotent(t *testing.T) {
	t.Parallel()

	lines := newFakeCartLines()
	products := newFakeProducts(&models.Product{ID: 7, Name: "Meadow", Price: 100})
	svc := NewCartService(lines, products, testLogger())

	got, err := svc.AddLine(context.Background(), "sess-1", 7, "2x3", 1)
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	lineID := got[0].ID

	after, err := svc.RemoveLine(context.Background(), "sess-1", lineID)
	if err != nil {
		t.Fatalf("RemoveLine() error = %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("cart has %d lines after removal, want 0", len(after))
	}

	// Removing it again is a no-op, not an error.
	if _, err := svc.RemoveLine(context.Background(), "sess-1", lineID); err != nil {
		t.Fatalf("second RemoveLine() error = %v", err)
	}
}
