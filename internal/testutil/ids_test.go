package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDs_InOrder(t *testing.T) {
	ids := NewFixedIDs("run-1", "run-2")

	assert.Equal(t, "run-1", ids.Generate())
	assert.Equal(t, "run-2", ids.Generate())
	assert.PanicsWithValue(t, "FixedIDs: all ids exhausted", func() { ids.Generate() })
}
