// Package pricing computes cart line totals from a product's per-square-meter
// price, a physical size string and a quantity.
package pricing

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned for size strings that do not encode two positive
// dimensions.
var ErrInvalidSize = errors.New("invalid size")

const canonicalSeparator = "x"

var separatorReplacer = strings.NewReplacer("X", canonicalSeparator, "×", canonicalSeparator, "*", canonicalSeparator)

// NormalizeSize returns the canonical form of a size identifier: whitespace
// stripped, lower-cased, separator rewritten to "x". Two raw strings name the
// same size iff their normalized forms are equal; catalog-authored and
// cart-stored sizes must always be compared through this function.
func NormalizeSize(size string) string {
	var b strings.Builder
	b.Grow(len(size))
	for _, r := range size {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return separatorReplacer.Replace(strings.ToLower(b.String()))
}

// ParseSize parses a size identifier into its width and length dimensions.
// Both must be present, numeric and strictly positive.
func ParseSize(size string) (w, l float64, err error) {
	parts := strings.Split(NormalizeSize(size), canonicalSeparator)
	if len(parts) != 2 {
		return 0, 0, ErrInvalidSize
	}

	w, err = parseDimension(parts[0])
	if err != nil {
		return 0, 0, err
	}
	l, err = parseDimension(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return w, l, nil
}

// parseDimension rejects anything ParseFloat accepts that is not a finite
// positive number; "inf" and "nan" parse fine but would poison every total
// computed from them.
func parseDimension(raw string) (float64, error) {
	dim, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidSize
	}
	if math.IsNaN(dim) || math.IsInf(dim, 0) || dim <= 0 {
		return 0, ErrInvalidSize
	}
	return dim, nil
}

// Area returns the square-meter area encoded by a size identifier.
func Area(size string) (float64, error) {
	w, l, err := ParseSize(size)
	if err != nil {
		return 0, err
	}
	return w * l, nil
}

// LineTotal computes round(unitPrice * area(size) * quantity). It is the
// single pricing definition shared by the cart, the checkout snapshot and
// catalog-change recomputation, so all paths price a line identically. The
// regular total and the discount total are produced by two independent calls
// with different unit prices, never derived from one another.
func LineTotal(size string, unitPrice, quantity int) (int, error) {
	area, err := Area(size)
	if err != nil {
		return 0, err
	}
	return int(math.Round(float64(unitPrice) * area * float64(quantity))), nil
}
