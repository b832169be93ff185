package pricing

import (
	"errors"
	"testing"
)

func TestNormalizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "120x180", want: "120x180"},
		{name: "upper case separator", in: "120X180", want: "120x180"},
		{name: "surrounding whitespace", in: " 120X180 ", want: "120x180"},
		{name: "inner whitespace", in: "120 x 180", want: "120x180"},
		{name: "multiplication sign", in: "120×180", want: "120x180"},
		{name: "asterisk separator", in: "120*180", want: "120x180"},
		{name: "decimal dimensions", in: "1.5X2", want: "1.5x2"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSize(tc.in); got != tc.want {
				t.Fatalf("NormalizeSize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeSizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"120x180", " 120X180 ", "1.5 × 2"} {
		once := NormalizeSize(raw)
		if twice := NormalizeSize(once); twice != once {
			t.Fatalf("NormalizeSize not idempotent for %q: %q != %q", raw, twice, once)
		}
	}
}

func TestLineTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		size     string
		price    int
		quantity int
		want     int
		wantErr  bool
	}{
		{name: "whole meters", size: "2x3", price: 100, quantity: 2, want: 1200},
		{name: "single unit", size: "2x3", price: 150, quantity: 1, want: 900},
		{name: "fractional area rounds", size: "1.2x1.8", price: 100, quantity: 1, want: 216},
		{name: "rounding up", size: "0.7x0.7", price: 103, quantity: 1, want: 50},
		{name: "zero unit price", size: "2x3", price: 0, quantity: 5, want: 0},
		{name: "missing dimension", size: "120x", wantErr: true},
		{name: "single number", size: "120", wantErr: true},
		{name: "non numeric", size: "axb", wantErr: true},
		{name: "zero dimension", size: "0x180", wantErr: true},
		{name: "negative dimension", size: "-1x2", wantErr: true},
		{name: "infinite dimension", size: "infx2", wantErr: true},
		{name: "negative infinity", size: "-infx2", wantErr: true},
		{name: "nan dimensions", size: "nanxnan", wantErr: true},
		{name: "exponent overflow", size: "1e400x2", wantErr: true},
		{name: "empty", size: "", wantErr: true},
		{name: "too many parts", size: "1x2x3", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := LineTotal(tc.size, tc.price, tc.quantity)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Fatalf("LineTotal(%q) error = %v, want ErrInvalidSize", tc.size, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LineTotal(%q) unexpected error: %v", tc.size, err)
			}
			if got != tc.want {
				t.Fatalf("LineTotal(%q, %d, %d) = %d, want %d", tc.size, tc.price, tc.quantity, got, tc.want)
			}
		})
	}
}

func TestArea(t *testing.T) {
	t.Parallel()

	got, err := Area(" 2 X 3 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 6 {
		t.Fatalf("Area = %v, want 6", got)
	}

	if _, err := Area("2x"); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Area error = %v, want ErrInvalidSize", err)
	}
}
