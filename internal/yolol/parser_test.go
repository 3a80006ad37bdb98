package yolol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignment(t *testing.T) {
	script, err := Parse(`:output="ok"`)
	require.NoError(t, err)
	require.Len(t, script.Lines, 1)
	require.Len(t, script.Lines[0].Stmts, 1)

	assign, ok := script.Lines[0].Stmts[0].(*Assign)
	require.True(t, ok)
	assert.Equal(t, ":output", assign.Target.Name)
	assert.True(t, assign.Target.External())
	assert.Equal(t, "=", assign.Op)

	lit, ok := assign.Value.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "ok", lit.Value)
}

func TestParseSeveralStatementsOnOneLine(t *testing.T) {
	script, err := Parse(":output=5 goto 1")
	require.NoError(t, err)
	stmts := script.Lines[0].Stmts
	require.Len(t, stmts, 2)
	assert.IsType(t, &Assign{}, stmts[0])
	assert.IsType(t, &Goto{}, stmts[1])
}

func TestParseNamesAreCaseInsensitive(t *testing.T) {
	script, err := Parse(":OutPut = A")
	require.NoError(t, err)
	assign := script.Lines[0].Stmts[0].(*Assign)
	assert.Equal(t, ":output", assign.Target.Name)
	assert.Equal(t, "a", assign.Value.(*VarRef).Name)
}

func TestParseIfElse(t *testing.T) {
	script, err := Parse(`if a > 1 then b = 2 c++ else b = 3 end`)
	require.NoError(t, err)
	stmt, ok := script.Lines[0].Stmts[0].(*If)
	require.True(t, ok)
	assert.Len(t, stmt.Then, 2)
	assert.Len(t, stmt.Else, 1)
	assert.IsType(t, &Binary{}, stmt.Cond)
}

func TestParsePrecedence(t *testing.T) {
	script, err := Parse("a = 1 + 2 * 3")
	require.NoError(t, err)
	sum := script.Lines[0].Stmts[0].(*Assign).Value.(*Binary)
	assert.Equal(t, "+", sum.Op)
	assert.Equal(t, "*", sum.Right.(*Binary).Op)
}

func TestParseCompoundAndIncDec(t *testing.T) {
	script, err := Parse("a += 2 b-- ++c")
	require.NoError(t, err)
	stmts := script.Lines[0].Stmts
	require.Len(t, stmts, 3)
	assert.Equal(t, "+", stmts[0].(*Assign).Op)
	assert.False(t, stmts[1].(*IncDec).Prefix)
	assert.True(t, stmts[2].(*IncDec).Prefix)
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	script, err := Parse("// header\n\na = 1 // trailing\n")
	require.NoError(t, err)
	require.Len(t, script.Lines, 3)
	assert.Empty(t, script.Lines[0].Stmts)
	assert.Empty(t, script.Lines[1].Stmts)
	assert.Len(t, script.Lines[2].Stmts, 1)
	assert.Equal(t, 3, script.Lines[2].Number)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		line    int
		column  int
		message string
	}{
		{"unmatched paren", ":output=(1+2", 1, 13, "expected ')', found end of line"},
		{"unterminated string", `a="oops`, 1, 3, "unterminated string literal"},
		{"missing end", "if a then b=1", 1, 14, "expected 'end', found end of line"},
		{"bare expression", "a=1\n5", 2, 1, "unexpected number '5'"},
		{"bad character", "a=1 $", 1, 5, "unexpected character '$'"},
		{"number out of range", "a=9999999999999999", 1, 3, `number "9999999999999999" is out of range`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, tt.message, pe.Message)
		})
	}
}
