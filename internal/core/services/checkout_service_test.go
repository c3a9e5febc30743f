package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"
)

type checkoutFixture struct {
	service   *CheckoutService
	itemRepo  *fakeItemRepo
	repo      *fakeCheckoutRepo
	userRepo  *fakeUserRepo
	fileStore *fakeFileStore
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	itemRepo := newFakeItemRepo()
	userRepo := newFakeUserRepo()
	userRepo.users[1] = &models.User{ID: 1, Name: "Lena", Email: "lena@example.org", IsActive: true}
	repo := newFakeCheckoutRepo(itemRepo)
	fileStore := &fakeFileStore{}

	return &checkoutFixture{
		service:   NewCheckoutService(repo, itemRepo, userRepo, fileStore, nil),
		itemRepo:  itemRepo,
		repo:      repo,
		userRepo:  userRepo,
		fileStore: fileStore,
	}
}

func TestCreateCheckoutValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")

	tests := []struct {
		name  string
		input CreateCheckoutInput
	}{
		{"purpose too short", CreateCheckoutInput{Purpose: "Ze", CheckedOutAt: time.Now(), ItemIDs: []uint{zelt.ID}}},
		{"purpose only spaces", CreateCheckoutInput{Purpose: "   ", CheckedOutAt: time.Now(), ItemIDs: []uint{zelt.ID}}},
		{"missing date", CreateCheckoutInput{Purpose: "Zeltlager", ItemIDs: []uint{zelt.ID}}},
		{"no items", CreateCheckoutInput{Purpose: "Zeltlager", CheckedOutAt: time.Now()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), &tt.input, 1)
			if !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateCheckoutUnknownItem(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")

	input := &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID, 99},
	}
	if _, err := f.service.Create(context.Background(), input, 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCreateCheckout(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")
	kocher := f.itemRepo.add("Kocher")

	input := &CreateCheckoutInput{
		Purpose:      "Zeltlager Sommer",
		CheckedOutAt: time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC),
		ItemIDs:      []uint{zelt.ID, kocher.ID, zelt.ID}, // duplicate collapses
	}

	checkout, err := f.service.Create(context.Background(), input, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if checkout.ID == 0 {
		t.Error("expected assigned ID")
	}
	if len(checkout.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(checkout.Items))
	}
	if checkout.IsReturned() {
		t.Error("new checkout must be open")
	}
	if checkout.Status() != domain.CheckoutStatusOpen {
		t.Errorf("expected open status, got %s", checkout.Status())
	}
}

func TestSubmitReturnFullConfirmation(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")
	kocher := f.itemRepo.add("Kocher")

	created, err := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID, kocher.ID},
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, review, err := f.service.BeginReturn(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("BeginReturn: %v", err)
	}
	review.CaptureSignature([]byte("signature png"))

	returned, err := f.service.SubmitReturn(context.Background(), created.ID, review)
	if err != nil {
		t.Fatalf("SubmitReturn: %v", err)
	}

	if !returned.IsReturned() {
		t.Error("expected returned checkout")
	}
	if returned.ReturnSignature == "" {
		t.Error("expected stored signature reference")
	}
	if len(returned.Problems) != 0 {
		t.Errorf("expected no problems, got %d", len(returned.Problems))
	}
	if f.fileStore.saves != 1 {
		t.Errorf("expected 1 signature save, got %d", f.fileStore.saves)
	}
	if string(f.fileStore.lastData) != "signature png" {
		t.Error("signature bytes not passed to file store")
	}
}

func TestSubmitReturnWithProblems(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")
	kocher := f.itemRepo.add("Kocher")

	created, _ := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID, kocher.ID},
	}, 1)

	_, review, err := f.service.BeginReturn(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("BeginReturn: %v", err)
	}
	review.ToggleItem(kocher.ID)
	review.SetProblem(kocher.ID, "beschädigt")
	review.CaptureSignature([]byte("png"))

	returned, err := f.service.SubmitReturn(context.Background(), created.ID, review)
	if err != nil {
		t.Fatalf("SubmitReturn: %v", err)
	}

	if len(returned.Problems) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(returned.Problems))
	}
	problem := returned.Problems[0]
	if problem.ItemID != kocher.ID || problem.Description != "beschädigt" {
		t.Errorf("unexpected problem %+v", problem)
	}
}

func TestSubmitReturnRejectedReviewStoresNothing(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")

	created, _ := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID},
	}, 1)

	_, review, _ := f.service.BeginReturn(context.Background(), created.ID)
	// No signature captured.

	if _, err := f.service.SubmitReturn(context.Background(), created.ID, review); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.fileStore.saves != 0 {
		t.Errorf("rejected review must not store files, got %d saves", f.fileStore.saves)
	}
	if f.repo.completeCalls != 0 {
		t.Errorf("rejected review must not hit the store, got %d calls", f.repo.completeCalls)
	}

	reloaded, _ := f.service.GetByID(context.Background(), created.ID)
	if reloaded.IsReturned() {
		t.Error("checkout must stay open after a rejected review")
	}
}

func TestSubmitReturnRetriesAfterWriteFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")

	created, _ := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID},
	}, 1)

	_, review, _ := f.service.BeginReturn(context.Background(), created.ID)
	review.CaptureSignature([]byte("png"))

	f.repo.failCompleteReturn = true
	if _, err := f.service.SubmitReturn(context.Background(), created.ID, review); err == nil {
		t.Fatal("expected write failure")
	}

	reloaded, _ := f.service.GetByID(context.Background(), created.ID)
	if reloaded.IsReturned() {
		t.Fatal("checkout must stay open after a failed write")
	}

	// Same review resubmits cleanly.
	if _, err := f.service.SubmitReturn(context.Background(), created.ID, review); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestSubmitReturnAlreadyReturned(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")

	created, _ := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID},
	}, 1)

	_, review, _ := f.service.BeginReturn(context.Background(), created.ID)
	review.CaptureSignature([]byte("png"))
	if _, err := f.service.SubmitReturn(context.Background(), created.ID, review); err != nil {
		t.Fatalf("SubmitReturn: %v", err)
	}

	if _, _, err := f.service.BeginReturn(context.Background(), created.ID); !errors.Is(err, domain.ErrAlreadyReturned) {
		t.Errorf("expected ErrAlreadyReturned from BeginReturn, got %v", err)
	}
	if _, err := f.service.SubmitReturn(context.Background(), created.ID, review); !errors.Is(err, domain.ErrAlreadyReturned) {
		t.Errorf("expected ErrAlreadyReturned from SubmitReturn, got %v", err)
	}
}

func TestSubmitReturnMismatchedReview(t *testing.T) {
	f := newCheckoutFixture(t)
	zelt := f.itemRepo.add("Zelt")
	kocher := f.itemRepo.add("Kocher")

	first, _ := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Zeltlager",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID},
	}, 1)
	second, _ := f.service.Create(context.Background(), &CreateCheckoutInput{
		Purpose:      "Gruppenstunde",
		CheckedOutAt: time.Now(),
		ItemIDs:      []uint{zelt.ID, kocher.ID},
	}, 1)

	_, review, _ := f.service.BeginReturn(context.Background(), first.ID)
	review.CaptureSignature([]byte("png"))

	if _, err := f.service.SubmitReturn(context.Background(), second.ID, review); !domain.IsValidation(err) {
		t.Errorf("expected validation error for mismatched review, got %v", err)
	}
}

func TestGetCheckoutNotFound(t *testing.T) {
	f := newCheckoutFixture(t)
	if _, err := f.service.GetByID(context.Background(), 42); !errors.Is(err, domain.ErrCheckoutNotFound) {
		t.Errorf("expected ErrCheckoutNotFound, got %v", err)
	}
}
