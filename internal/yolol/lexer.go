package yolol

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenKind classifies a lexed token.
type TokenKind uint8

const (
	TokenEOL TokenKind = iota
	TokenIdent
	TokenExternal
	TokenNumber
	TokenString
	TokenKeyword
	TokenOperator
	TokenLParen
	TokenRParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOL:
		return "end of line"
	case TokenIdent:
		return "identifier"
	case TokenExternal:
		return "external variable"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenKeyword:
		return "keyword"
	case TokenOperator:
		return "operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "unknown token"
	}
}

// Token is a single lexeme. Text is lower-cased for identifiers, externals
// and keywords since Yolol names are case-insensitive.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

func (t Token) describe() string {
	switch t.Kind {
	case TokenEOL:
		return "end of line"
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	default:
		return fmt.Sprintf("%s '%s'", t.Kind, t.Text)
	}
}

var keywords = map[string]bool{
	"if": true, "then": true, "else": true, "end": true, "goto": true,
	"and": true, "or": true, "not": true,
	"abs": true, "sqrt": true, "sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
}

// Longest operators first so that "+=" is not lexed as "+" "=".
var operators = []string{
	"++", "--", "+=", "-=", "*=", "/=", "%=", "==", "!=", "<=", ">=",
	"=", "<", ">", "+", "-", "*", "/", "%", "^", "!",
}

// lexLine tokenizes one source line. The returned slice always ends with a
// TokenEOL.
func lexLine(text string, line int) ([]Token, error) {
	runes := []rune(text)
	var tokens []Token
	i := 0
	for i < len(runes) {
		r := runes[i]
		col := i + 1
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			i = len(runes)
		case r == '"':
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			if end >= len(runes) {
				return nil, &ParseError{Line: line, Column: col, Message: "unterminated string literal"}
			}
			tokens = append(tokens, Token{Kind: TokenString, Text: string(runes[i+1 : end]), Line: line, Column: col})
			i = end + 1
		case r == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Line: line, Column: col})
			i++
		case r == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Line: line, Column: col})
			i++
		case r == ':':
			end := i + 1
			for end < len(runes) && isIdentRune(runes[end]) {
				end++
			}
			if end == i+1 {
				return nil, &ParseError{Line: line, Column: col, Message: "expected external variable name after ':'"}
			}
			tokens = append(tokens, Token{Kind: TokenExternal, Text: strings.ToLower(string(runes[i:end])), Line: line, Column: col})
			i = end
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			end := i
			seenDot := false
			for end < len(runes) && (unicode.IsDigit(runes[end]) || (runes[end] == '.' && !seenDot)) {
				if runes[end] == '.' {
					seenDot = true
				}
				end++
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: string(runes[i:end]), Line: line, Column: col})
			i = end
		case unicode.IsLetter(r) || r == '_':
			end := i
			for end < len(runes) && isIdentRune(runes[end]) {
				end++
			}
			word := strings.ToLower(string(runes[i:end]))
			kind := TokenIdent
			if keywords[word] {
				kind = TokenKeyword
			}
			tokens = append(tokens, Token{Kind: kind, Text: word, Line: line, Column: col})
			i = end
		default:
			op := matchOperator(runes[i:])
			if op == "" {
				return nil, &ParseError{Line: line, Column: col, Message: fmt.Sprintf("unexpected character %q", r)}
			}
			tokens = append(tokens, Token{Kind: TokenOperator, Text: op, Line: line, Column: col})
			i += len(op)
		}
	}
	tokens = append(tokens, Token{Kind: TokenEOL, Line: line, Column: len(runes) + 1})
	return tokens, nil
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func matchOperator(rest []rune) string {
	for _, op := range operators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			return op
		}
	}
	return ""
}
