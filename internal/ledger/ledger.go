package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
)

const (
	EntryTypePaymentCreated = "payment_created"
	EntryTypeStatusChange   = "status_change"
)

// Ledger is the append-only transaction log plus a per-payer audit index.
// Entries are write-once; nothing here is ever updated or removed. Readers
// always receive copies taken under a snapshot-consistent read lock.
type Ledger struct {
	mu      sync.RWMutex
	entries []entity.TransactionLogEntry
	byID    map[string]int
	byPayer map[string][]int
	log     logger.Logger
	metrics metric.Ledger
}

func NewLedger(log logger.Logger, metrics metric.Ledger) *Ledger {
	return &Ledger{
		byID:    make(map[string]int),
		byPayer: make(map[string][]int),
		log:     log,
		metrics: metrics,
	}
}

// Checksum fingerprints the tamper-sensitive fields of a log entry. The
// concatenation order is fixed; xxhash is for detection of post-write
// alteration, not a security control.
func Checksum(transactionID string, amount decimal.Decimal, currency, payerID string) string {
	payload := transactionID + "|" + amount.String() + "|" + currency + "|" + payerID
	return fmt.Sprintf("%016x", xxhash.Sum64String(payload))
}

// NewEntry builds a write-once entry snapshotting the payment's current
// state, without appending it. Callers that persist entries durably build
// first, write, then Append, so the in-memory log never runs ahead of storage.
func (l *Ledger) NewEntry(
	p *entity.Payment,
	entryType string,
	metadata map[string]any,
) entity.TransactionLogEntry {
	return entity.TransactionLogEntry{
		ID:            "LOG-" + uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		TransactionID: p.ID,
		Type:          entryType,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PayerID:       p.PayerID,
		Status:        p.Status,
		Metadata:      metadata,
		Checksum:      Checksum(p.ID, p.Amount, p.Currency, p.PayerID),
	}
}

// Append adds a built entry to the log and the per-payer index.
func (l *Ledger) Append(entry entity.TransactionLogEntry) {
	l.append(entry)

	l.metrics.EntryAppended(entry.Type)
	l.log.Debugw("transaction logged",
		"log_id", entry.ID,
		"transaction_id", entry.TransactionID,
		"type", entry.Type,
	)
}

// Log builds and appends in one step.
func (l *Ledger) Log(
	p *entity.Payment,
	entryType string,
	metadata map[string]any,
) entity.TransactionLogEntry {
	entry := l.NewEntry(p, entryType, metadata)
	l.Append(entry)
	return entry
}

func (l *Ledger) append(entry entity.TransactionLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := len(l.entries)
	l.entries = append(l.entries, entry)
	l.byID[entry.ID] = idx
	l.byPayer[entry.PayerID] = append(l.byPayer[entry.PayerID], idx)
}

// Query returns the entries matching every populated filter field, in
// insertion order.
func (l *Ledger) Query(filter entity.LogFilter) []entity.TransactionLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []entity.TransactionLogEntry
	for _, entry := range l.entries {
		if matches(entry, filter) {
			out = append(out, entry)
		}
	}
	return out
}

func matches(entry entity.TransactionLogEntry, f entity.LogFilter) bool {
	if f.PayerID != "" && entry.PayerID != f.PayerID {
		return false
	}
	if f.Status != "" && entry.Status != f.Status {
		return false
	}
	if !f.StartDate.IsZero() && entry.Timestamp.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && entry.Timestamp.After(f.EndDate) {
		return false
	}
	if f.MinAmount != nil && entry.Amount.LessThan(*f.MinAmount) {
		return false
	}
	return true
}

// Get returns one entry by log id.
func (l *Ledger) Get(logID string) (entity.TransactionLogEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byID[logID]
	if !ok {
		return entity.TransactionLogEntry{}, false
	}
	return l.entries[idx], true
}

// AuditTrail returns every entry for one payer in insertion order, which is
// chronological because the log is append-only.
func (l *Ledger) AuditTrail(payerID string) []entity.TransactionLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	indexes := l.byPayer[payerID]
	out := make([]entity.TransactionLogEntry, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, l.entries[idx])
	}
	return out
}

// VerifyIntegrity recomputes the checksum from the entry's own fields. A
// mismatch means one of the covered fields changed after logging; callers
// must surface that to an operator, never auto-correct it.
func (l *Ledger) VerifyIntegrity(entry *entity.TransactionLogEntry) bool {
	ok := Checksum(entry.TransactionID, entry.Amount, entry.Currency, entry.PayerID) == entry.Checksum
	l.metrics.IntegrityCheck(ok)
	if !ok {
		l.log.Errorw("transaction log integrity check failed",
			"log_id", entry.ID,
			"transaction_id", entry.TransactionID,
		)
	}
	return ok
}

// Entries returns a copy of the whole log in insertion order.
func (l *Ledger) Entries() []entity.TransactionLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.TransactionLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Restore preloads persisted entries, preserving their stored checksums and
// insertion order.
func (l *Ledger) Restore(entries []entity.TransactionLogEntry) {
	for _, entry := range entries {
		l.append(entry)
	}
}
