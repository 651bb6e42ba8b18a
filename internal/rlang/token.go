// Package rlang provides a minimal tokenizer for R source code.
// It covers just enough of the language for prefix-narrowing checks and
// lexical scope scanning: identifiers, literals, operators and punctuation,
// each annotated with its byte offset in the input.
package rlang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token
type Kind int

const (
	// Identifier is a plain or backtick-quoted R identifier
	Identifier Kind = iota
	// Number is a numeric literal (including hex, exponent, L and i suffixes)
	Number
	// String is a single- or double-quoted string literal
	String
	// Operator covers assignment, arithmetic, comparison and %..% operators.
	// The colon is always emitted as a single-character Operator token, so
	// the scope-resolution operator :: appears as two consecutive tokens.
	Operator
	// Punct covers parentheses, brackets, braces, comma and semicolon
	Punct
	// Whitespace is a run of spaces, tabs or newlines
	Whitespace
	// Comment is a # comment running to end of line
	Comment
	// Unknown is any byte the tokenizer does not recognize
	Unknown
)

// Token is a single lexed unit of R source
type Token struct {
	Text string
	Kind Kind
	Pos  int
}

// multi-character operators, longest first so prefixes don't shadow them
var operators = []string{
	"<<-", "->>", "<-", "->", "<=", ">=", "==", "!=", "&&", "||",
}

const singleOperators = "+-*/^<>!&|=~?@$:"

// Tokenize lexes src into a flat token stream. Whitespace and comments are
// emitted as tokens so that callers can detect token boundaries in diffs.
func Tokenize(src string) []Token {
	var tokens []Token
	i := 0
	for i < len(src) {
		start := i
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case unicode.IsSpace(r):
			for i < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !unicode.IsSpace(r2) {
					break
				}
				i += s2
			}
			tokens = append(tokens, Token{src[start:i], Whitespace, start})

		case r == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			tokens = append(tokens, Token{src[start:i], Comment, start})

		case r == '"' || r == '\'':
			i += size
			i = scanString(src, i, byte(r))
			tokens = append(tokens, Token{src[start:i], String, start})

		case r == '`':
			i += size
			for i < len(src) && src[i] != '`' {
				i++
			}
			if i < len(src) {
				i++ // closing backtick
			}
			tokens = append(tokens, Token{src[start:i], Identifier, start})

		case isIdentStart(r) && !(r == '.' && i+size < len(src) && isDigit(rune(src[i+size]))):
			for i < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r2) {
					break
				}
				i += s2
			}
			tokens = append(tokens, Token{src[start:i], Identifier, start})

		case isDigit(r) || r == '.':
			i = scanNumber(src, i)
			tokens = append(tokens, Token{src[start:i], Number, start})

		case r == '%':
			// %% and special operators like %in%, %>%
			j := i + 1
			for j < len(src) && src[j] != '%' && src[j] != '\n' {
				j++
			}
			if j < len(src) && src[j] == '%' {
				i = j + 1
			} else {
				i++
			}
			tokens = append(tokens, Token{src[start:i], Operator, start})

		default:
			if op := matchOperator(src[i:]); op != "" {
				i += len(op)
				tokens = append(tokens, Token{op, Operator, start})
			} else if strings.ContainsRune(singleOperators, r) {
				i += size
				tokens = append(tokens, Token{src[start:i], Operator, start})
			} else if strings.ContainsRune("()[]{},;", r) {
				i += size
				tokens = append(tokens, Token{src[start:i], Punct, start})
			} else {
				i += size
				tokens = append(tokens, Token{src[start:i], Unknown, start})
			}
		}
	}
	return tokens
}

// Significant filters out whitespace and comment tokens
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != Whitespace && t.Kind != Comment {
			out = append(out, t)
		}
	}
	return out
}

func scanString(src string, i int, quote byte) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(src)
}

func scanNumber(src string, i int) int {
	if i+1 < len(src) && src[i] == '0' && (src[i+1] == 'x' || src[i+1] == 'X') {
		i += 2
		for i < len(src) && isHexDigit(src[i]) {
			i++
		}
	} else {
		for i < len(src) && (isDigit(rune(src[i])) || src[i] == '.') {
			i++
		}
		if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
			j := i + 1
			if j < len(src) && (src[j] == '+' || src[j] == '-') {
				j++
			}
			if j < len(src) && isDigit(rune(src[j])) {
				i = j
				for i < len(src) && isDigit(rune(src[i])) {
					i++
				}
			}
		}
	}
	// integer and imaginary suffixes
	if i < len(src) && (src[i] == 'L' || src[i] == 'i') {
		i++
	}
	return i
}

func matchOperator(src string) string {
	for _, op := range operators {
		if strings.HasPrefix(src, op) {
			return op
		}
	}
	return ""
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '.'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
