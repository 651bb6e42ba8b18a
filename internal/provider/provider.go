// Package provider defines the remote completion provider contract and its
// HTTP implementation. The provider is the R session backend that computes
// ranked completions for a token; rassist only transports the request and
// surfaces failures verbatim.
package provider

import "context"

// Query is a completion request to the session backend
type Query struct {
	Content         string   `json:"content"`
	Token           string   `json:"token"`
	AssocData       string   `json:"assoc_data,omitempty"`
	DataType        int      `json:"data_type,omitempty"`
	NumCommas       int      `json:"num_commas,omitempty"`
	ChainObjectName string   `json:"chain_object,omitempty"`
	ChainExtraArgs  []string `json:"chain_extra_args,omitempty"`
	ChainExcludeArgs []string `json:"chain_exclude_args,omitempty"`
}

// Completions is the provider's response: parallel name/package slices plus
// flags controlling how the result may be presented and reused.
type Completions struct {
	Token           string   `json:"token"`
	Names           []string `json:"completions"`
	Packages        []string `json:"packages"`
	GuessedFunction string   `json:"guessed_function,omitempty"`
	ExcludeContext  bool     `json:"exclude_context,omitempty"`
	SuggestOnAccept bool     `json:"suggest_on_accept,omitempty"`
	SuppressParens  bool     `json:"dont_insert_parens,omitempty"`
	Cacheable       bool     `json:"cacheable,omitempty"`
}

// Package returns the package annotation for the i-th completion, tolerating
// a short or absent packages slice.
func (c *Completions) Package(i int) string {
	if i < 0 || i >= len(c.Packages) {
		return ""
	}
	return c.Packages[i]
}

// Provider computes completions for a query
type Provider interface {
	Completions(ctx context.Context, q Query) (*Completions, error)
}
