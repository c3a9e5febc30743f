package domain

import "time"

// RequestStatus is the age bucket shown for an open request.
type RequestStatus string

const (
	RequestStatusNew     RequestStatus = "new"
	RequestStatusPending RequestStatus = "pending"
	RequestStatusOlder   RequestStatus = "older"
)

// Age thresholds for request buckets.
const (
	requestNewMaxAge     = 24 * time.Hour
	requestPendingMaxAge = 72 * time.Hour
)

// RequestAgeStatus buckets a request by how long ago it was created.
func RequestAgeStatus(created, now time.Time) RequestStatus {
	age := now.Sub(created)
	switch {
	case age < requestNewMaxAge:
		return RequestStatusNew
	case age < requestPendingMaxAge:
		return RequestStatusPending
	default:
		return RequestStatusOlder
	}
}

// CheckoutStatus is the lifecycle state of a checkout.
type CheckoutStatus string

const (
	CheckoutStatusOpen     CheckoutStatus = "open"
	CheckoutStatusReturned CheckoutStatus = "returned"
)
