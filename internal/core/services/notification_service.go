package services

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
)

// Notification priorities (ntfy levels)
const (
	PriorityMin     = "min"
	PriorityLow     = "low"
	PriorityDefault = "default"
	PriorityHigh    = "high"
	PriorityMax     = "max"
)

// Notification is a single message for the ntfy topic.
type Notification struct {
	Title    string
	Message  string
	Tags     string
	Priority string
}

// NotificationService publishes staff alerts to an ntfy topic. Delivery is
// best-effort and decoupled from the caller through an internal queue: a
// failed or dropped notification is logged and never reaches the caller, so
// it cannot be mistaken for a persistence failure.
type NotificationService struct {
	topicURL string
	enabled  bool
	client   *http.Client
	queue    chan Notification
	done     chan struct{}
}

// queueSize bounds the in-flight notification backlog.
const queueSize = 64

// NewNotificationService creates a notification service for the given ntfy
// topic URL. An empty URL disables publishing entirely.
func NewNotificationService(topicURL string) *NotificationService {
	s := &NotificationService{
		topicURL: topicURL,
		enabled:  topicURL != "",
		client:   &http.Client{Timeout: 10 * time.Second},
		queue:    make(chan Notification, queueSize),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// IsEnabled checks if notification publishing is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// Publish enqueues a notification. It never blocks; when the queue is full
// the notification is dropped and logged.
func (s *NotificationService) Publish(n Notification) {
	if !s.enabled {
		return
	}
	select {
	case s.queue <- n:
	default:
		log.Printf("⚠️ Notification queue full, dropping: %s", n.Title)
	}
}

// Close drains the queue and stops the worker.
func (s *NotificationService) Close() {
	close(s.queue)
	<-s.done
}

func (s *NotificationService) run() {
	defer close(s.done)
	for n := range s.queue {
		if err := s.send(n); err != nil {
			log.Printf("⚠️ Failed to send notification %q: %v", n.Title, err)
		}
	}
}

// send posts a single message to the topic. Headers follow the ntfy contract:
// Title, Priority and an optional comma-separated Tags list, plain-text body.
func (s *NotificationService) send(n Notification) error {
	req, err := http.NewRequest(http.MethodPost, s.topicURL, strings.NewReader(n.Message))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", n.Title)
	priority := n.Priority
	if priority == "" {
		priority = PriorityDefault
	}
	req.Header.Set("Priority", priority)
	if n.Tags != "" {
		req.Header.Set("Tags", n.Tags)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy request failed with status %d", resp.StatusCode)
	}
	return nil
}

// NotifyNewCheckout announces a freshly created checkout.
func (s *NotificationService) NotifyNewCheckout(checkout *models.Checkout, userName string) {
	s.Publish(Notification{
		Title:    "Neue Entnahme",
		Tags:     "package",
		Priority: PriorityDefault,
		Message: fmt.Sprintf("Zweck: %s\nEntnommen von: %s\nGegenstände: %d",
			checkout.Purpose, userName, len(checkout.Items)),
	})
}

// NotifyReturn announces a completed return, including the number of
// reported problems when there are any.
func (s *NotificationService) NotifyReturn(checkout *models.Checkout, returnedBy string, problemCount int) {
	message := fmt.Sprintf("Entnahme: %s\nRückgegeben von: %s\nZeitpunkt: %s",
		checkout.Purpose, returnedBy, time.Now().Format("02.01.2006 15:04"))
	if problemCount > 0 {
		message += fmt.Sprintf("\nGemeldete Probleme: %d", problemCount)
	}

	s.Publish(Notification{
		Title:    "Rückgabe bestätigt",
		Tags:     "white_check_mark,package",
		Priority: PriorityDefault,
		Message:  message,
	})
}

// NotifyNewRequest announces a public item request.
func (s *NotificationService) NotifyNewRequest(request *models.Request) {
	s.Publish(Notification{
		Title:    "Neue Anfrage eingegangen",
		Tags:     "inbox,package",
		Priority: PriorityHigh,
		Message: fmt.Sprintf("Name: %s\nZweck: %s\nBenötigt ab: %s\nAnzahl Gegenstände: %d",
			request.RequesterName, request.Purpose,
			request.NeededFrom.Format("02.01.2006 15:04"), len(request.Items)),
	})
}

// NotifyReminder sends the daily backlog summary.
func (s *NotificationService) NotifyReminder(openCheckouts, openRequests int64) {
	s.Publish(Notification{
		Title:    "Lager Erinnerung",
		Tags:     "alarm_clock,package",
		Priority: PriorityDefault,
		Message: fmt.Sprintf("Offene Entnahmen: %d\nUnbearbeitete Anfragen: %d",
			openCheckouts, openRequests),
	})
}
