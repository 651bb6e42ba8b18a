// Package assist implements the completion cache and narrowing engine.
//
// A Requester answers completion requests for a token prefix either by
// narrowing a previously fetched candidate list (when the new token is a
// plain identifier extension of the cached prefix) or by a full round-trip
// to the session backend, merging in completions derived from the local
// lexical scope.
package assist

import (
	"regexp"
	"sort"
	"strings"
)

// Candidate is a single completion: a name plus a free-form source
// annotation (originating package, <variable>, [enclosingFunction],
// <anonymous function>).
type Candidate struct {
	Name   string
	Source string
}

// namedArgSuffix matches named-argument completions like "file = ".
// The same pattern decides both merge placement and sort precedence.
var namedArgSuffix = regexp.MustCompile(`=\s*$`)

// IsNamedArg reports whether name is a named-argument completion
func IsNamedArg(name string) bool {
	return namedArgSuffix.MatchString(name)
}

// Compare orders candidates for presentation: named-argument completions
// before all others, then case-insensitive by name, then by source.
func Compare(a, b Candidate) int {
	aArg, bArg := IsNamedArg(a.Name), IsNamedArg(b.Name)
	if aArg != bArg {
		if aArg {
			return -1
		}
		return 1
	}

	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Source, b.Source)
}

// SortCandidates sorts candidates in presentation order
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return Compare(candidates[i], candidates[j]) < 0
	})
}

// Dedupe removes candidates whose name was already seen, keeping the first
// occurrence. Identity is the name alone; the source annotation does not
// distinguish candidates.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Display renders a candidate for plain-text listings: the name followed by
// its source annotation, brace-wrapped unless already bracketed.
func (c Candidate) Display() string {
	if c.Source == "" {
		return c.Name
	}
	switch c.Source[0] {
	case '{', '[', '(', '<':
		return c.Name + " " + c.Source
	}
	return c.Name + " {" + c.Source + "}"
}

// ParseCandidate parses the "name{package}" listing form back into a
// candidate. Text without a brace is a bare name.
func ParseCandidate(text string) Candidate {
	idx := strings.Index(text, "{")
	if idx < 0 {
		return Candidate{Name: text}
	}
	return Candidate{
		Name:   strings.TrimSpace(text[:idx]),
		Source: text[idx+1 : len(text)-1],
	}
}
