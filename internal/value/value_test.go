package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsNumberZero(t *testing.T) {
	var v Value
	assert.True(t, v.IsNumber())
	assert.Equal(t, Number(0), v.Number())
	assert.Equal(t, "0", v.String())
	assert.True(t, Equal(v, Value{}))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(5), Int(5)))
	assert.False(t, Equal(Int(5), Int(6)))
	assert.True(t, Equal(NewString("ok"), NewString("ok")))
	assert.False(t, Equal(NewString("5"), Int(5)), "number never equals string")
}

func TestMatchCallsOneHandler(t *testing.T) {
	kind := func(v Value) string {
		return Match(v,
			func(Number) string { return "number" },
			func(string) string { return "string" },
		)
	}
	assert.Equal(t, "number", kind(Int(1)))
	assert.Equal(t, "string", kind(NewString("")))
}

func TestChangeSetKeyOverlaps(t *testing.T) {
	assert.True(t, ChangeSetKey(0b0110).Overlaps(0b0100))
	assert.False(t, ChangeSetKey(0b0001).Overlaps(0b0100))
}
