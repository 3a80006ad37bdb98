package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/yololtest/internal/harness"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*harness.Options)
		wantErr string
	}{
		{name: "defaults", mutate: func(*harness.Options) {}},
		{name: "line cap", mutate: func(o *harness.Options) { o.MaxLines = MaxLinesLimit }},
		{name: "zero lines", mutate: func(o *harness.Options) { o.MaxLines = 0 }, wantErr: "max_lines"},
		{name: "too many lines", mutate: func(o *harness.Options) { o.MaxLines = MaxLinesLimit + 1 }, wantErr: "max_lines"},
		{name: "negative string length", mutate: func(o *harness.Options) { o.MaxStringLength = -1 }, wantErr: "max_string_length"},
		{name: "zero ticks", mutate: func(o *harness.Options) { o.MaxTicks = 0 }, wantErr: "max_ticks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := harness.DefaultOptions()
			tt.mutate(&opts)

			err := Validate(opts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
