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

// RequestService handles the public request intake and the staff-side
// conversion of a request into a checkout.
type RequestService struct {
	requestRepo repositories.RequestRepository
	itemRepo    repositories.ItemRepository
	checkouts   *CheckoutService
	notify      *NotificationService
	now         func() time.Time
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repositories.RequestRepository,
	itemRepo repositories.ItemRepository,
	checkouts *CheckoutService,
	notify *NotificationService,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		checkouts:   checkouts,
		notify:      notify,
		now:         time.Now,
	}
}

// SubmitRequestInput represents public request intake input
type SubmitRequestInput struct {
	RequesterName string    `json:"requester_name"`
	Purpose       string    `json:"purpose"`
	NeededFrom    time.Time `json:"needed_from"`
	ItemIDs       []uint    `json:"items"`
}

// Submit validates and persists a public item request, then publishes a
// best-effort notification.
func (s *RequestService) Submit(ctx context.Context, input *SubmitRequestInput) (*models.Request, error) {
	if len(strings.TrimSpace(input.RequesterName)) < MinPurposeLength {
		return nil, domain.NewValidationError("requester_name", "Der Name muss mindestens 3 Zeichen lang sein.")
	}
	if len(strings.TrimSpace(input.Purpose)) < MinPurposeLength {
		return nil, domain.NewValidationError("purpose", "Der Zweck muss mindestens 3 Zeichen lang sein.")
	}
	if input.NeededFrom.IsZero() {
		return nil, domain.NewValidationError("needed_from", "Bitte wählen Sie ein Datum aus.")
	}
	if !startOfDay(input.NeededFrom).After(startOfDay(s.now())) {
		return nil, domain.NewValidationError("needed_from", "Das Datum muss nach dem heutigen Tag liegen.")
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

	request := &models.Request{
		RequesterName: strings.TrimSpace(input.RequesterName),
		Purpose:       strings.TrimSpace(input.Purpose),
		NeededFrom:    input.NeededFrom,
	}
	if err := s.requestRepo.Create(ctx, request, itemIDs); err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if s.notify != nil {
		s.notify.NotifyNewRequest(request)
	}

	return request, nil
}

// GetByID gets a request by ID
func (s *RequestService) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// List lists requests with search and pagination
func (s *RequestService) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Request, int64, error) {
	return s.requestRepo.List(ctx, opts)
}

// Status buckets a request by age.
func (s *RequestService) Status(request *models.Request) domain.RequestStatus {
	return domain.RequestAgeStatus(request.CreatedAt, s.now())
}

// Convert spawns a checkout from a request: the request's item set, a purpose
// embedding the requester's stated purpose, and the acting staff member as
// the checkout's user. A request converts exactly once.
func (s *RequestService) Convert(ctx context.Context, requestID, staffUserID uint) (*models.Checkout, error) {
	request, err := s.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.IsConverted() {
		return nil, domain.ErrRequestAlreadyConverted
	}

	input := &CreateCheckoutInput{
		Purpose:      fmt.Sprintf("Anfrage von %s: %s", request.RequesterName, request.Purpose),
		CheckedOutAt: request.NeededFrom,
		ItemIDs:      request.ItemIDs(),
		Notes:        fmt.Sprintf("Erstellt aus öffentlicher Anfrage (ID: %d)", request.ID),
	}

	checkout, err := s.checkouts.Create(ctx, input, staffUserID)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.MarkConverted(ctx, request.ID, checkout.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestAlreadyConverted
		}
		return nil, fmt.Errorf("marking request converted: %w", err)
	}

	return checkout, nil
}

// startOfDay truncates a time to day granularity in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
