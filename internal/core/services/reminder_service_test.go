package services

import (
	"strings"
	"testing"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
)

func TestReminderPublishesBacklog(t *testing.T) {
	srv, captured := captureServer(t)

	itemRepo := newFakeItemRepo()
	checkoutRepo := newFakeCheckoutRepo(itemRepo)
	requestRepo := newFakeRequestRepo(itemRepo)

	// One checkout open for over a week, one recent, one returned.
	old := time.Now().Add(-8 * 24 * time.Hour)
	recent := time.Now().Add(-2 * time.Hour)
	returned := time.Now()
	checkoutRepo.checkouts[1] = &models.Checkout{ID: 1, CheckedOutAt: old}
	checkoutRepo.checkouts[2] = &models.Checkout{ID: 2, CheckedOutAt: recent}
	checkoutRepo.checkouts[3] = &models.Checkout{ID: 3, CheckedOutAt: old, CheckedInAt: &returned}

	// One unconverted request, one converted.
	converted := uint(1)
	requestRepo.requests[1] = &models.Request{ID: 1}
	requestRepo.requests[2] = &models.Request{ID: 2, ConvertedCheckoutID: &converted}

	notify := NewNotificationService(srv.URL)
	reminder := NewReminderService(checkoutRepo, requestRepo, notify)
	reminder.runOnce()
	notify.Close()

	got := captured()
	if len(got) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(got))
	}
	if got[0].title != "Lager Erinnerung" {
		t.Errorf("unexpected title %q", got[0].title)
	}
	if !strings.Contains(got[0].body, "Offene Entnahmen: 1") {
		t.Errorf("expected 1 long-open checkout in %q", got[0].body)
	}
	if !strings.Contains(got[0].body, "Unbearbeitete Anfragen: 1") {
		t.Errorf("expected 1 open request in %q", got[0].body)
	}
}

func TestReminderSkipsEmptyBacklog(t *testing.T) {
	srv, captured := captureServer(t)

	itemRepo := newFakeItemRepo()
	notify := NewNotificationService(srv.URL)
	reminder := NewReminderService(newFakeCheckoutRepo(itemRepo), newFakeRequestRepo(itemRepo), notify)
	reminder.runOnce()
	notify.Close()

	if got := captured(); len(got) != 0 {
		t.Errorf("expected no reminder for empty backlog, got %d", len(got))
	}
}
