package domain

import "time"

// SubscriberStatus represents newsletter subscription state
type SubscriberStatus string

// subscriber statuses
const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
	SubscriberBounced      SubscriberStatus = "bounced"
	SubscriberPending      SubscriberStatus = "pending"
)

// Subscriber represents a newsletter subscriber
type Subscriber struct {
	ID             int64
	Email          string
	Status         SubscriberStatus
	Source         string
	Tags           []string
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
}
