package status

import (
	"sync"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
)

// _transitions is the full lifecycle table. A state mapping to an empty
// set is terminal. failed → pending is the retry path.
var _transitions = map[entity.PaymentStatus][]entity.PaymentStatus{
	entity.StatusPending:    {entity.StatusProcessing, entity.StatusCancelled, entity.StatusFailed},
	entity.StatusProcessing: {entity.StatusCompleted, entity.StatusFailed, entity.StatusCancelled},
	entity.StatusCompleted:  {entity.StatusRefunded},
	entity.StatusFailed:     {entity.StatusPending},
	entity.StatusCancelled:  {},
	entity.StatusRefunded:   {},
}

// Machine owns the payment lifecycle: it decides which status changes are
// legal and keeps the append-only transition history per payment. The last
// appended ToStatus always equals the payment's current status.
type Machine struct {
	mu        sync.RWMutex
	histories map[string][]entity.StatusTransition
	log       logger.Logger
	metrics   metric.Ledger
}

func NewMachine(log logger.Logger, metrics metric.Ledger) *Machine {
	return &Machine{
		histories: make(map[string][]entity.StatusTransition),
		log:       log,
		metrics:   metrics,
	}
}

// CanTransition reports whether the lifecycle table allows from → to.
func (m *Machine) CanTransition(from, to entity.PaymentStatus) bool {
	allowed, ok := _transitions[from]
	if !ok || !to.Valid() {
		return false
	}
	for _, next := range allowed {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (m *Machine) IsTerminal(status entity.PaymentStatus) bool {
	allowed, ok := _transitions[status]
	return ok && len(allowed) == 0
}

// Transition validates from → to and, on success, atomically appends a
// history record. Rejected transitions leave no partial state behind.
func (m *Machine) Transition(
	paymentID string,
	from, to entity.PaymentStatus,
	metadata map[string]any,
) (*entity.TransitionResult, error) {
	if !m.CanTransition(from, to) {
		m.metrics.TransitionRejected(string(from), string(to))
		return nil, &entity.InvalidTransitionError{From: from, To: to}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.histories[paymentID]
	if len(history) > 0 {
		if current := history[len(history)-1].ToStatus; current != from {
			m.log.Warnw("transition rejected: stale from-status",
				"payment_id", paymentID,
				"requested_from", from,
				"actual_status", current,
			)
			m.metrics.TransitionRejected(string(from), string(to))
			return nil, &entity.InvalidTransitionError{From: from, To: to}
		}
	}

	now := time.Now().UTC()
	m.histories[paymentID] = append(history, entity.StatusTransition{
		PaymentID:  paymentID,
		FromStatus: from,
		ToStatus:   to,
		Timestamp:  now,
		Metadata:   metadata,
	})

	m.metrics.Transition(string(from), string(to))

	return &entity.TransitionResult{
		PaymentID:      paymentID,
		Status:         to,
		PreviousStatus: from,
		TransitionTime: now,
	}, nil
}

// History returns a copy of the ordered transition sequence for a payment.
func (m *Machine) History(paymentID string) []entity.StatusTransition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.histories[paymentID]
	out := make([]entity.StatusTransition, len(history))
	copy(out, history)
	return out
}

// Restore preloads histories from persisted transitions, which must already
// be in per-payment chronological order.
func (m *Machine) Restore(transitions []entity.StatusTransition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range transitions {
		m.histories[t.PaymentID] = append(m.histories[t.PaymentID], t)
	}
}
