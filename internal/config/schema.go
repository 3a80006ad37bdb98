package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/yololtest/internal/harness"
)

// MaxLinesLimit caps max_lines. Each line is a compiled closure kept for the
// whole test, so absurd chip sizes are rejected up front.
const MaxLinesLimit = 1000

var schemaSource = fmt.Sprintf(`
max_lines:         int & >0 & <=%d
max_string_length: int & >0
max_ticks:         int & >0
`, MaxLinesLimit)

// limits is the CUE-encoded view of harness.Options.
type limits struct {
	MaxLines        int   `json:"max_lines"`
	MaxStringLength int   `json:"max_string_length"`
	MaxTicks        int64 `json:"max_ticks"`
}

// Validate checks opts against the schema.
func Validate(opts harness.Options) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("yololtest.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.Encode(limits{
		MaxLines:        opts.MaxLines,
		MaxStringLength: opts.MaxStringLength,
		MaxTicks:        opts.MaxTicks,
	})
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	return schema.Unify(v).Validate(cue.Concrete(true))
}
