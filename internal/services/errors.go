package services

import (
	"errors"

	"github.com/rugstoreapp/rugstore/internal/pricing"
)

// Sentinel errors returned by the cart and checkout services. Handlers map
// each one to a distinct response status; anything unrecognized collapses to a
// generic server error.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateLine     = errors.New("line already in cart")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrLineNotFound      = errors.New("cart line not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrSessionNotFound   = errors.New("session not found")
	ErrMissingFields     = errors.New("missing required fields")
	ErrPolicyNotAccepted = errors.New("privacy policy not accepted")
	ErrDuplicateRating   = errors.New("product already rated by this session")
	ErrInvalidGrade      = errors.New("grade must be between 1 and 5")

	// ErrTransactionFailure wraps datastore failures during checkout. The
	// transaction boundary guarantees no partial order or cart state is left
	// behind when it occurs.
	ErrTransactionFailure = errors.New("transaction failed")
)

// ErrInvalidSize is re-exported so callers can match it alongside the rest of
// the taxonomy.
var ErrInvalidSize = pricing.ErrInvalidSize
