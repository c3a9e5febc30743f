package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"

	"gorm.io/gorm"
)

// FileStore persists record attachments (signature images, item photos).
type FileStore interface {
	Save(collection string, recordID uint, originalName string, data []byte) (string, error)
}

// MinPurposeLength is the minimum length for purposes and requester names.
const MinPurposeLength = 3

// CheckoutService drives a checkout from creation through return
// reconciliation.
type CheckoutService struct {
	checkoutRepo repositories.CheckoutRepository
	itemRepo     repositories.ItemRepository
	userRepo     repositories.UserRepository
	fileStore    FileStore
	notify       *NotificationService
	now          func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	checkoutRepo repositories.CheckoutRepository,
	itemRepo repositories.ItemRepository,
	userRepo repositories.UserRepository,
	fileStore FileStore,
	notify *NotificationService,
) *CheckoutService {
	return &CheckoutService{
		checkoutRepo: checkoutRepo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		fileStore:    fileStore,
		notify:       notify,
		now:          time.Now,
	}
}

// CreateCheckoutInput represents create checkout input
type CreateCheckoutInput struct {
	Purpose      string    `json:"purpose"`
	CheckedOutAt time.Time `json:"checked_out_at"`
	ItemIDs      []uint    `json:"items"`
	Notes        string    `json:"notes,omitempty"`
}

// Create validates the draft and persists the checkout with its fixed item
// set in a single create write. Nothing is kept on failure, the same input
// can be retried as-is.
func (s *CheckoutService) Create(ctx context.Context, input *CreateCheckoutInput, userID uint) (*models.Checkout, error) {
	if len(strings.TrimSpace(input.Purpose)) < MinPurposeLength {
		return nil, domain.NewValidationError("purpose", "Der Zweck muss mindestens 3 Zeichen lang sein.")
	}
	if input.CheckedOutAt.IsZero() {
		return nil, domain.NewValidationError("checked_out_at", "Bitte wählen Sie ein Datum aus.")
	}

	itemIDs := dedupe(input.ItemIDs)
	if len(itemIDs) == 0 {
		return nil, domain.NewValidationError("items", "Bitte wählen Sie mindestens einen Gegenstand aus.")
	}

	items, err := s.itemRepo.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	if len(items) != len(itemIDs) {
		return nil, domain.ErrItemNotFound
	}

	checkout := &models.Checkout{
		Purpose:      strings.TrimSpace(input.Purpose),
		CheckedOutAt: input.CheckedOutAt,
		UserID:       userID,
		Notes:        input.Notes,
	}
	if err := s.checkoutRepo.Create(ctx, checkout, itemIDs); err != nil {
		return nil, fmt.Errorf("creating checkout: %w", err)
	}

	if s.notify != nil {
		s.notify.NotifyNewCheckout(checkout, s.userName(ctx, userID))
	}

	return checkout, nil
}

// GetByID gets a checkout by ID
func (s *CheckoutService) GetByID(ctx context.Context, id uint) (*models.Checkout, error) {
	checkout, err := s.checkoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCheckoutNotFound
		}
		return nil, err
	}
	return checkout, nil
}

// List lists checkouts filtered by status with search and pagination
func (s *CheckoutService) List(ctx context.Context, status string, opts repositories.ListOptions) ([]*models.Checkout, int64, error) {
	return s.checkoutRepo.List(ctx, status, opts)
}

// BeginReturn loads an open checkout and starts a return review with every
// item pre-confirmed.
func (s *CheckoutService) BeginReturn(ctx context.Context, id uint) (*models.Checkout, *ReturnReview, error) {
	checkout, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if checkout.IsReturned() {
		return nil, nil, domain.ErrAlreadyReturned
	}
	return checkout, NewReturnReview(checkout), nil
}

// SubmitReturn finishes the lifecycle: it validates the review, stores the
// signature image, and writes checked_in_at, the signature reference and the
// derived problem list in one update. The checkout stays open when the write
// fails, so the same review can be resubmitted.
func (s *CheckoutService) SubmitReturn(ctx context.Context, checkoutID uint, review *ReturnReview) (*models.Checkout, error) {
	checkout, err := s.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.IsReturned() {
		return nil, domain.ErrAlreadyReturned
	}
	if !review.coversCheckout(checkout) {
		return nil, domain.NewValidationError("items", "Die Rückgabe passt nicht zu dieser Entnahme.")
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	signatureName := fmt.Sprintf("signature-%d.png", s.now().UnixMilli())
	signature, err := s.fileStore.Save("checkouts", checkout.ID, signatureName, review.Signature())
	if err != nil {
		return nil, fmt.Errorf("storing signature: %w", err)
	}

	checkedInAt := s.now()
	problems := review.Problems()
	if err := s.checkoutRepo.CompleteReturn(ctx, checkout.ID, checkedInAt, signature, problems); err != nil {
		return nil, fmt.Errorf("completing return: %w", err)
	}

	checkout.CheckedInAt = &checkedInAt
	checkout.ReturnSignature = signature
	checkout.Problems = problems

	if s.notify != nil {
		s.notify.NotifyReturn(checkout, s.userName(ctx, checkout.UserID), len(problems))
	}

	return checkout, nil
}

// userName resolves a user's display name for notifications.
func (s *CheckoutService) userName(ctx context.Context, userID uint) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return "Unbekannt"
	}
	return user.Name
}

// dedupe removes duplicate ids while preserving order.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
