package domain

import (
	"testing"
	"time"
)

func TestRequestAgeStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want RequestStatus
	}{
		{"just created", 0, RequestStatusNew},
		{"under a day", 23*time.Hour + 59*time.Minute, RequestStatusNew},
		{"exactly a day", 24 * time.Hour, RequestStatusPending},
		{"two days", 48 * time.Hour, RequestStatusPending},
		{"just under three days", 71 * time.Hour, RequestStatusPending},
		{"exactly three days", 72 * time.Hour, RequestStatusOlder},
		{"a week", 7 * 24 * time.Hour, RequestStatusOlder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequestAgeStatus(now.Add(-tt.age), now); got != tt.want {
				t.Errorf("age %v: expected %s, got %s", tt.age, tt.want, got)
			}
		})
	}
}
