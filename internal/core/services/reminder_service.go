package services

import (
	"context"
	"log"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// reminderSchedule fires the daily backlog summary at 08:30.
const reminderSchedule = "30 8 * * *"

// openCheckoutAge is how long a checkout may stay open before it counts
// towards the reminder.
const openCheckoutAge = 7 * 24 * time.Hour

// ReminderService publishes a daily notification summarizing long-open
// checkouts and unconverted requests.
type ReminderService struct {
	checkoutRepo repositories.CheckoutRepository
	requestRepo  repositories.RequestRepository
	notify       *NotificationService
	cron         *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	checkoutRepo repositories.CheckoutRepository,
	requestRepo repositories.RequestRepository,
	notify *NotificationService,
) *ReminderService {
	return &ReminderService{
		checkoutRepo: checkoutRepo,
		requestRepo:  requestRepo,
		notify:       notify,
		cron:         cron.New(),
	}
}

// Start schedules the daily reminder job
func (s *ReminderService) Start() {
	s.cron.AddFunc(reminderSchedule, s.runOnce)
	s.cron.Start()
	log.Println("✅ Reminder cron started (daily 08:30)")
}

// Stop stops the cron scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Reminder cron stopped")
}

// runOnce checks the backlog and publishes a reminder when there is one.
func (s *ReminderService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	openCheckouts, err := s.checkoutRepo.CountOpenSince(ctx, time.Now().Add(-openCheckoutAge))
	if err != nil {
		log.Printf("⚠️ Reminder: failed to count open checkouts: %v", err)
		return
	}

	openRequests, err := s.requestRepo.CountUnconverted(ctx)
	if err != nil {
		log.Printf("⚠️ Reminder: failed to count open requests: %v", err)
		return
	}

	if openCheckouts == 0 && openRequests == 0 {
		return
	}

	s.notify.NotifyReminder(openCheckouts, openRequests)
}
