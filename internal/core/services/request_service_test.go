package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/core/domain"
)

type requestFixture struct {
	service  *RequestService
	itemRepo *fakeItemRepo
	repo     *fakeRequestRepo
	now      time.Time
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	itemRepo := newFakeItemRepo()
	userRepo := newFakeUserRepo()
	checkoutRepo := newFakeCheckoutRepo(itemRepo)
	requestRepo := newFakeRequestRepo(itemRepo)

	checkouts := NewCheckoutService(checkoutRepo, itemRepo, userRepo, &fakeFileStore{}, nil)
	service := NewRequestService(requestRepo, itemRepo, checkouts, nil)

	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	checkouts.now = service.now

	return &requestFixture{
		service:  service,
		itemRepo: itemRepo,
		repo:     requestRepo,
		now:      now,
	}
}

func (f *requestFixture) validInput() *SubmitRequestInput {
	return &SubmitRequestInput{
		RequesterName: "Alina Berger",
		Purpose:       "Gruppenstunde",
		NeededFrom:    f.now.AddDate(0, 0, 3),
		ItemIDs:       []uint{1},
	}
}

func TestSubmitRequestValidation(t *testing.T) {
	f := newRequestFixture(t)
	f.itemRepo.add("Zelt")

	tests := []struct {
		name   string
		mutate func(*SubmitRequestInput)
	}{
		{"name too short", func(in *SubmitRequestInput) { in.RequesterName = "Al" }},
		{"name only spaces", func(in *SubmitRequestInput) { in.RequesterName = "     " }},
		{"purpose too short", func(in *SubmitRequestInput) { in.Purpose = "ab" }},
		{"missing date", func(in *SubmitRequestInput) { in.NeededFrom = time.Time{} }},
		{"no items", func(in *SubmitRequestInput) { in.ItemIDs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := f.validInput()
			tt.mutate(input)
			if _, err := f.service.Submit(context.Background(), input); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitRequestDateMustBeAfterToday(t *testing.T) {
	f := newRequestFixture(t)
	f.itemRepo.add("Zelt")

	// Later today is still "today" and rejected: the comparison is at day
	// granularity.
	input := f.validInput()
	input.NeededFrom = f.now.Add(2 * time.Hour)
	if _, err := f.service.Submit(context.Background(), input); !domain.IsValidation(err) {
		t.Errorf("same-day date: expected validation error, got %v", err)
	}

	// Early tomorrow morning is fine even though it is less than 24h away.
	input = f.validInput()
	input.NeededFrom = time.Date(2026, 8, 29, 0, 30, 0, 0, time.UTC)
	if _, err := f.service.Submit(context.Background(), input); err != nil {
		t.Errorf("next-day date: expected success, got %v", err)
	}

	input = f.validInput()
	input.NeededFrom = f.now.AddDate(0, 0, -1)
	if _, err := f.service.Submit(context.Background(), input); !domain.IsValidation(err) {
		t.Errorf("past date: expected validation error, got %v", err)
	}
}

func TestSubmitRequestUnknownItem(t *testing.T) {
	f := newRequestFixture(t)
	f.itemRepo.add("Zelt")

	input := f.validInput()
	input.ItemIDs = []uint{1, 77}
	if _, err := f.service.Submit(context.Background(), input); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSubmitRequest(t *testing.T) {
	f := newRequestFixture(t)
	zelt := f.itemRepo.add("Zelt")
	kocher := f.itemRepo.add("Kocher")

	input := f.validInput()
	input.ItemIDs = []uint{zelt.ID, kocher.ID}

	request, err := f.service.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if request.ID == 0 {
		t.Error("expected assigned ID")
	}
	if len(request.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(request.Items))
	}
	if request.IsConverted() {
		t.Error("fresh request must not be converted")
	}
}

func TestRequestStatusBuckets(t *testing.T) {
	f := newRequestFixture(t)
	zelt := f.itemRepo.add("Zelt")

	request, err := f.service.Submit(context.Background(), &SubmitRequestInput{
		RequesterName: "Alina Berger",
		Purpose:       "Gruppenstunde",
		NeededFrom:    f.now.AddDate(0, 0, 5),
		ItemIDs:       []uint{zelt.ID},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	tests := []struct {
		age  time.Duration
		want domain.RequestStatus
	}{
		{1 * time.Hour, domain.RequestStatusNew},
		{23 * time.Hour, domain.RequestStatusNew},
		{25 * time.Hour, domain.RequestStatusPending},
		{71 * time.Hour, domain.RequestStatusPending},
		{73 * time.Hour, domain.RequestStatusOlder},
	}

	for _, tt := range tests {
		request.CreatedAt = f.now.Add(-tt.age)
		if got := f.service.Status(request); got != tt.want {
			t.Errorf("age %v: expected %s, got %s", tt.age, tt.want, got)
		}
	}
}

func TestConvertRequest(t *testing.T) {
	f := newRequestFixture(t)
	zelt := f.itemRepo.add("Zelt")
	kocher := f.itemRepo.add("Kocher")

	input := f.validInput()
	input.ItemIDs = []uint{zelt.ID, kocher.ID}
	request, _ := f.service.Submit(context.Background(), input)

	checkout, err := f.service.Convert(context.Background(), request.ID, 7)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !strings.Contains(checkout.Purpose, request.RequesterName) ||
		!strings.Contains(checkout.Purpose, request.Purpose) {
		t.Errorf("checkout purpose %q must embed requester and purpose", checkout.Purpose)
	}
	if checkout.UserID != 7 {
		t.Errorf("expected acting staff member as owner, got user %d", checkout.UserID)
	}
	if !checkout.CheckedOutAt.Equal(request.NeededFrom) {
		t.Errorf("expected checkout date %v, got %v", request.NeededFrom, checkout.CheckedOutAt)
	}
	if len(checkout.Items) != 2 {
		t.Errorf("expected request item set carried over, got %d items", len(checkout.Items))
	}

	reloaded, _ := f.service.GetByID(context.Background(), request.ID)
	if !reloaded.IsConverted() {
		t.Fatal("expected request marked converted")
	}
	if *reloaded.ConvertedCheckoutID != checkout.ID {
		t.Errorf("expected link to checkout %d, got %d", checkout.ID, *reloaded.ConvertedCheckoutID)
	}
}

func TestConvertRequestOnlyOnce(t *testing.T) {
	f := newRequestFixture(t)
	zelt := f.itemRepo.add("Zelt")

	input := f.validInput()
	input.ItemIDs = []uint{zelt.ID}
	request, _ := f.service.Submit(context.Background(), input)

	if _, err := f.service.Convert(context.Background(), request.ID, 1); err != nil {
		t.Fatalf("first Convert: %v", err)
	}
	if _, err := f.service.Convert(context.Background(), request.ID, 1); !errors.Is(err, domain.ErrRequestAlreadyConverted) {
		t.Errorf("expected ErrRequestAlreadyConverted, got %v", err)
	}
}

func TestConvertUnknownRequest(t *testing.T) {
	f := newRequestFixture(t)
	if _, err := f.service.Convert(context.Background(), 99, 1); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}
