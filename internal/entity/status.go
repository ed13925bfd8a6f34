package entity

import "time"

type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusCompleted  PaymentStatus = "completed"
	StatusFailed     PaymentStatus = "failed"
	StatusCancelled  PaymentStatus = "cancelled"
	StatusRefunded   PaymentStatus = "refunded"
)

// PaymentStatuses lists every defined lifecycle state.
func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		StatusPending,
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
		StatusCancelled,
		StatusRefunded,
	}
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted,
		StatusFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// StatusTransition is one append-only history record of a payment
// moving between lifecycle states.
type StatusTransition struct {
	PaymentID  string         `json:"payment_id"`
	FromStatus PaymentStatus  `json:"from_status"`
	ToStatus   PaymentStatus  `json:"to_status"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// TransitionResult is what a successful status change reports back to the caller.
type TransitionResult struct {
	PaymentID      string        `json:"payment_id"`
	Status         PaymentStatus `json:"status"`
	PreviousStatus PaymentStatus `json:"previous_status"`
	TransitionTime time.Time     `json:"transition_time"`
}
