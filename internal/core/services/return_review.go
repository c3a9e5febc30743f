package services

import (
	"strings"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"
)

// ReturnReview holds the transient state of a return reconciliation: which
// items the staff member confirmed as present, the problem text for items
// they did not, and the captured signature. Every item starts out confirmed
// because the common case is a full return. Confirmed and "has a problem"
// are mutually exclusive per item, so confirming an item discards its
// problem text.
type ReturnReview struct {
	itemIDs   []uint
	confirmed map[uint]bool
	problems  map[uint]string
	signature []byte
}

// NewReturnReview starts a review for a checkout with every item pre-marked
// as confirmed present.
func NewReturnReview(checkout *models.Checkout) *ReturnReview {
	r := &ReturnReview{
		itemIDs:   checkout.ItemIDs(),
		confirmed: make(map[uint]bool),
		problems:  make(map[uint]string),
	}
	for _, id := range r.itemIDs {
		r.confirmed[id] = true
	}
	return r
}

// ToggleItem flips an item between confirmed and not-confirmed. Transitioning
// into confirmed clears any stored problem text. Items that are not part of
// the checkout are ignored.
func (r *ReturnReview) ToggleItem(itemID uint) {
	confirmed, ok := r.confirmed[itemID]
	if !ok {
		return
	}

	r.confirmed[itemID] = !confirmed
	if !confirmed {
		delete(r.problems, itemID)
	}
}

// IsConfirmed reports whether an item is currently marked present.
func (r *ReturnReview) IsConfirmed(itemID uint) bool {
	return r.confirmed[itemID]
}

// SetProblem records the problem description for a not-confirmed item. It has
// no effect on confirmed or unknown items.
func (r *ReturnReview) SetProblem(itemID uint, text string) {
	confirmed, ok := r.confirmed[itemID]
	if !ok || confirmed {
		return
	}
	r.problems[itemID] = text
}

// Problem returns the stored problem text for an item.
func (r *ReturnReview) Problem(itemID uint) string {
	return r.problems[itemID]
}

// CaptureSignature stores the signature image, discarding a previous capture.
func (r *ReturnReview) CaptureSignature(png []byte) {
	r.signature = png
}

// ClearSignature discards the captured signature.
func (r *ReturnReview) ClearSignature() {
	r.signature = nil
}

// HasSignature reports whether a signature has been captured.
func (r *ReturnReview) HasSignature() bool {
	return len(r.signature) > 0
}

// Signature returns the captured signature image.
func (r *ReturnReview) Signature() []byte {
	return r.signature
}

// Problems derives the problem list for submission: one entry per
// not-confirmed item, ordered by the checkout's item order.
func (r *ReturnReview) Problems() []models.CheckoutProblem {
	var problems []models.CheckoutProblem
	for _, id := range r.itemIDs {
		if r.confirmed[id] {
			continue
		}
		problems = append(problems, models.CheckoutProblem{
			ItemID:      id,
			Description: r.problems[id],
		})
	}
	return problems
}

// Validate checks the submission rules: every not-confirmed item needs a
// non-blank problem description and a signature must have been captured.
func (r *ReturnReview) Validate() error {
	for _, id := range r.itemIDs {
		if r.confirmed[id] {
			continue
		}
		if strings.TrimSpace(r.problems[id]) == "" {
			return domain.NewValidationError("problems", "Bitte beschreiben Sie das Problem für alle fehlenden Gegenstände.")
		}
	}

	if !r.HasSignature() {
		return domain.NewValidationError("signature", "Bitte erstellen Sie eine Rückgabe-Signatur.")
	}
	return nil
}

// coversCheckout reports whether the review was built for exactly the given
// item set, keeping problem item refs a subset of the checkout's items.
func (r *ReturnReview) coversCheckout(checkout *models.Checkout) bool {
	ids := checkout.ItemIDs()
	if len(ids) != len(r.itemIDs) {
		return false
	}
	for _, id := range ids {
		if _, ok := r.confirmed[id]; !ok {
			return false
		}
	}
	return true
}
