package payment

import (
	"fmt"
	"sync/atomic"
	"time"
)

// IDGenerator mints payment ids from a creation timestamp plus a
// process-wide monotonic counter, so concurrent creates in the same
// millisecond cannot collide.
type IDGenerator struct {
	seq atomic.Uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) NextPaymentID(now time.Time) string {
	return fmt.Sprintf("PAY-%d-%06d", now.UnixMilli(), g.seq.Add(1))
}
