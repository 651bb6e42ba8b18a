// Package scope builds a lexical scope model from R source code.
// The model answers which functions and variables are visible at a cursor
// position, and locates the function call enclosing the cursor. It is a
// deliberately small scanner over the token stream, not a full parser:
// assignments via <-, <<- and top-level = are recognized, everything else
// is ignored.
package scope

import (
	"strings"

	"github.com/statlab-ide/rassist/internal/rlang"
)

// Function is a function definition found in the document
type Function struct {
	Name   string // empty for anonymous functions
	Params []string
	Start  int // byte offset of the function keyword
	End    int // byte offset just past the body
}

// Variable is a variable or function binding found in the document
type Variable struct {
	Name string
	Kind string // "variable" or "function"
	Pos  int
}

// Model is the parsed scope tree of a single document
type Model struct {
	src    string
	tokens []rlang.Token
	funcs  []Function
	vars   []Variable
	varFn  []int // index into funcs of each variable's enclosing function, -1 for top level
}

var assignOps = map[string]bool{"<-": true, "<<-": true, "=": true}

// Parse scans src and builds its scope model
func Parse(src string) *Model {
	m := &Model{
		src:    src,
		tokens: rlang.Significant(rlang.Tokenize(src)),
	}
	m.scanFunctions()
	m.scanVariables()
	return m
}

// scanFunctions records every `function(...)` expression with its parameter
// names and body extent, named when preceded by an assignment.
func (m *Model) scanFunctions() {
	toks := m.tokens
	for i := 0; i < len(toks); i++ {
		if toks[i].Kind != rlang.Identifier || toks[i].Text != "function" {
			continue
		}
		if i+1 >= len(toks) || toks[i+1].Text != "(" {
			continue
		}

		fn := Function{Start: toks[i].Pos}

		if i >= 2 && assignOps[toks[i-1].Text] && toks[i-2].Kind == rlang.Identifier {
			fn.Name = unquote(toks[i-2].Text)
		}

		close := i + 1
		fn.Params, close = parseParams(toks, i+1)
		fn.End = m.bodyEnd(close)
		m.funcs = append(m.funcs, fn)
	}
}

// parseParams collects parameter names between a balanced pair of parens
// starting at open. Returns the params and the index of the closing paren.
func parseParams(toks []rlang.Token, open int) ([]string, int) {
	var params []string
	depth := 0
	expectName := false
	for i := open; i < len(toks); i++ {
		switch toks[i].Text {
		case "(", "[":
			depth++
			if depth == 1 {
				expectName = true
			}
		case ")", "]":
			depth--
			if depth == 0 {
				return params, i
			}
		case ",":
			if depth == 1 {
				expectName = true
			}
		default:
			if depth == 1 && expectName && toks[i].Kind == rlang.Identifier {
				params = append(params, unquote(toks[i].Text))
			}
			expectName = false
		}
	}
	return params, len(toks) - 1
}

// bodyEnd finds the extent of a function body whose parameter list closes at
// token index close. A braced body runs to its matching brace; a bare
// expression body runs to the end of its line.
func (m *Model) bodyEnd(close int) int {
	toks := m.tokens
	next := close + 1
	if next < len(toks) && toks[next].Text == "{" {
		depth := 0
		for i := next; i < len(toks); i++ {
			switch toks[i].Text {
			case "{":
				depth++
			case "}":
				depth--
				if depth == 0 {
					return toks[i].Pos + 1
				}
			}
		}
		return len(m.src)
	}

	from := len(m.src)
	if close < len(toks) {
		from = toks[close].Pos
	}
	if nl := strings.IndexByte(m.src[from:], '\n'); nl >= 0 {
		return from + nl
	}
	return len(m.src)
}

// scanVariables records assignments outside of call argument lists.
func (m *Model) scanVariables() {
	toks := m.tokens
	parenDepth := 0
	for i := 0; i < len(toks); i++ {
		switch toks[i].Text {
		case "(", "[":
			parenDepth++
			continue
		case ")", "]":
			parenDepth--
			continue
		}

		// `=` only binds at expression level; inside parens it is a named argument
		if toks[i].Kind != rlang.Identifier || i+1 >= len(toks) || !assignOps[toks[i+1].Text] {
			continue
		}
		if toks[i+1].Text == "=" && parenDepth > 0 {
			continue
		}

		kind := "variable"
		if i+2 < len(toks) && toks[i+2].Text == "function" {
			kind = "function"
		}

		m.vars = append(m.vars, Variable{
			Name: unquote(toks[i].Text),
			Kind: kind,
			Pos:  toks[i].Pos,
		})
		m.varFn = append(m.varFn, m.enclosingFunction(toks[i].Pos))
	}
}

// enclosingFunction returns the index of the innermost function containing pos
func (m *Model) enclosingFunction(pos int) int {
	best := -1
	for i, fn := range m.funcs {
		if fn.Start <= pos && pos <= fn.End {
			if best == -1 || fn.Start > m.funcs[best].Start {
				best = i
			}
		}
	}
	return best
}

// FunctionsInScope returns the functions whose body encloses pos,
// outermost first.
func (m *Model) FunctionsInScope(pos int) []Function {
	var out []Function
	for _, fn := range m.funcs {
		if fn.Start <= pos && pos <= fn.End {
			out = append(out, fn)
		}
	}
	return out
}

// VariablesInScope returns the bindings visible at pos: top-level bindings
// plus those local to any function enclosing pos.
func (m *Model) VariablesInScope(pos int) []Variable {
	var out []Variable
	for i, v := range m.vars {
		fn := m.varFn[i]
		if fn == -1 || (m.funcs[fn].Start <= pos && pos <= m.funcs[fn].End) {
			out = append(out, v)
		}
	}
	return out
}

// AllFunctionScopes returns every function definition in the document
func (m *Model) AllFunctionScopes() []Function {
	return m.funcs
}

// EnclosingCall scans backward from pos for the nearest unmatched opening
// parenthesis and returns the identifier immediately preceding it. The
// second return is false when the cursor is not inside a call or the paren
// is not preceded by an identifier.
func (m *Model) EnclosingCall(pos int) (string, bool) {
	toks := m.tokens

	// last token that ends at or before the cursor
	last := -1
	for i, t := range toks {
		if t.Pos+len(t.Text) <= pos {
			last = i
		} else {
			break
		}
	}

	depth := 0
	open := -1
	for i := last; i >= 0; i-- {
		switch toks[i].Text {
		case ")":
			depth++
		case "(":
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
		if open >= 0 {
			break
		}
	}

	if open <= 0 {
		return "", false
	}
	prev := toks[open-1]
	if prev.Kind != rlang.Identifier {
		return "", false
	}
	return unquote(prev.Text), true
}

func unquote(name string) string {
	return strings.Trim(name, "`")
}
