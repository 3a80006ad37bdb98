package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickBudget_ChargeWithinLimit(t *testing.T) {
	b := NewTickBudget(10)

	require.NoError(t, b.Charge(3))
	require.NoError(t, b.Charge(7))

	assert.Equal(t, int64(0), b.Remaining())
	assert.Equal(t, int64(10), b.Used())
	assert.Equal(t, int64(10), b.Max())
	assert.True(t, b.Exhausted())
}

func TestTickBudget_RejectsOverdraw(t *testing.T) {
	b := NewTickBudget(5)
	require.NoError(t, b.Charge(4))

	err := b.Charge(2)
	require.Error(t, err)

	var be *BudgetError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, int64(2), be.Charged)
	assert.Equal(t, int64(1), be.Remaining)

	// Rejected charges are not applied.
	assert.Equal(t, int64(1), b.Remaining())
}

func TestTickBudget_RejectsEmptyCharge(t *testing.T) {
	b := NewTickBudget(5)
	assert.Error(t, b.Charge(0))
	assert.Error(t, b.Charge(-1))
	assert.Equal(t, int64(5), b.Remaining())
}

func TestTickBudget_NegativeLimitIsZero(t *testing.T) {
	b := NewTickBudget(-3)
	assert.Equal(t, int64(0), b.Max())
	assert.True(t, b.Exhausted())
}
