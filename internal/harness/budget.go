package harness

import "fmt"

// TickBudget tracks the ticks a single test may still spend.
//
// Remaining starts at the configured maximum, never increases and never
// goes below zero: a charge that would overdraw the budget is rejected
// without being applied.
type TickBudget struct {
	max       int64
	remaining int64
}

// NewTickBudget creates a budget of limit ticks. Negative limits are
// treated as zero.
func NewTickBudget(limit int64) *TickBudget {
	limit = max(limit, 0)
	return &TickBudget{max: limit, remaining: limit}
}

// Charge deducts ticks reported by one stepper call.
//
// Returns a BudgetError if ticks is not in [1, Remaining()].
func (b *TickBudget) Charge(ticks int64) error {
	if ticks < 1 || ticks > b.remaining {
		return &BudgetError{Charged: ticks, Remaining: b.remaining}
	}
	b.remaining -= ticks
	return nil
}

// Remaining returns the ticks still available.
func (b *TickBudget) Remaining() int64 {
	return b.remaining
}

// Used returns the ticks charged so far.
func (b *TickBudget) Used() int64 {
	return b.max - b.remaining
}

// Max returns the initial budget.
func (b *TickBudget) Max() int64 {
	return b.max
}

// Exhausted reports whether no ticks remain.
func (b *TickBudget) Exhausted() bool {
	return b.remaining == 0
}

// BudgetError is returned when a stepper reports a tick count outside the
// range it was allowed to use.
type BudgetError struct {
	Charged   int64
	Remaining int64
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("stepper reported %d ticks with %d remaining", e.Charged, e.Remaining)
}
