package assist

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/statlab-ide/rassist/internal/chunk"
	"github.com/statlab-ide/rassist/internal/logger"
	"github.com/statlab-ide/rassist/internal/provider"
	"github.com/statlab-ide/rassist/internal/rlang"
	"github.com/statlab-ide/rassist/internal/scope"
)

// Request is a single completion request from the editor
type Request struct {
	Content          string // full document content
	Token            string // the prefix completions are computed against
	AssocData        string
	DataType         int
	NumCommas        int
	ChainObjectName  string
	ChainExtraArgs   []string
	ChainExcludeArgs []string
	Position         int  // cursor byte offset, for scope lookups
	Implicit         bool // triggered automatically rather than by the user
}

// Result is the assembled completion list for a token
type Result struct {
	Token           string
	Candidates      []Candidate
	GuessedFunction string // set when the provider inferred a call context instead of resolving the token
	SuggestOnAccept bool
	SuppressParens  bool
}

// ChunkContext resolves documentation chunk-option completion, the alternate
// request path next to code completion. A nil ChunkContext disables it.
type ChunkContext interface {
	// OptionsStart returns the offset where chunk options begin on the
	// line, or -1 when the cursor is not in a chunk options region.
	OptionsStart(line string, cursorPos int) int
	Options(ctx context.Context) (*chunk.Options, error)
	ActiveEngine() string
}

// ScopeModel supplies completions derived from the editor's lexical scope.
// A nil ScopeModel (console use) simply contributes no local completions.
type ScopeModel interface {
	FunctionsInScope(pos int) []scope.Function
	VariablesInScope(pos int) []scope.Variable
	AllFunctionScopes() []scope.Function
	EnclosingCall(pos int) (string, bool)
}

// cacheEntry is the single narrowing slot: the last cacheable result plus a
// prefix trie over its candidate names. Trie items are candidate positions,
// so a narrowed subset can be restored to the original order.
type cacheEntry struct {
	result Result
	trie   *patricia.Trie
}

// Requester coordinates completion requests against a provider, serving
// identifier extensions of the previous token from its single-slot cache.
type Requester struct {
	provider provider.Provider
	chunk    ChunkContext
	scopes   ScopeModel
	log      *logger.Logger

	mu     sync.Mutex
	gen    uint64
	prefix string
	cached *cacheEntry
}

// NewRequester creates a requester. chunkCtx and scopes may be nil.
func NewRequester(p provider.Provider, chunkCtx ChunkContext, scopes ScopeModel, log *logger.Logger) *Requester {
	if log == nil {
		log = logger.New("warn", nil)
	}
	return &Requester{
		provider: p,
		chunk:    chunkCtx,
		scopes:   scopes,
		log:      log,
	}
}

// SetScopeModel replaces the scope model, e.g. after the document was re-parsed
func (r *Requester) SetScopeModel(scopes ScopeModel) {
	r.scopes = scopes
}

// Complete resolves completions for req. When the token extends the cached
// prefix by a single identifier continuation, the cached candidates are
// narrowed without contacting the provider. Otherwise a full request is
// dispatched to the chunk-option path or the remote provider, local scope
// completions are merged in, and the result is cached when the provider
// allows it.
//
// An implicit request whose final candidate list is empty is suppressed:
// Complete returns (nil, nil) and the caller must not present anything.
func (r *Requester) Complete(ctx context.Context, req Request) (*Result, error) {
	if res := r.tryNarrow(req.Token); res != nil {
		r.log.Debug().
			Str("token", res.Token).
			Int("candidates", len(res.Candidates)).
			Msg("Narrowed completions from cache")
		return res, nil
	}

	gen := r.beginGeneration()

	resp, err := r.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	result := r.assemble(req, resp)
	r.store(gen, req.Token, resp.Cacheable, result)

	if req.Implicit && len(result.Candidates) == 0 {
		return nil, nil
	}
	return result, nil
}

// FlushCache clears the narrowing slot unconditionally. Call it whenever the
// document changed in a way that invalidates prefix assumptions.
func (r *Requester) FlushCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefix = ""
	r.cached = nil
}

// CacheInfo reports the cached prefix and candidate count, if a slot is held
func (r *Requester) CacheInfo() (string, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil {
		return "", 0, false
	}
	return r.prefix, len(r.cached.result.Candidates), true
}

// tryNarrow serves token from the cache slot when all narrowing
// preconditions hold, returning nil to request the full path.
func (r *Requester) tryNarrow(token string) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	// results from an inferred call context are never narrowable
	if r.cached == nil || r.cached.result.GuessedFunction != "" {
		return nil
	}
	if !strings.HasPrefix(token, r.prefix) {
		return nil
	}
	diff := token[len(r.prefix):]
	if diff == "" || !isIdentifierExtension(diff) {
		return nil
	}

	// the extended token builds on the cached result's token, which is the
	// prefix the candidates were computed against (it can differ from the
	// line prefix the request carried)
	base := &r.cached.result
	extended := base.Token + diff

	var positions []int
	_ = r.cached.trie.VisitSubtree(patricia.Prefix(extended), func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.(int))
		return nil
	})
	sort.Ints(positions)

	candidates := make([]Candidate, 0, len(positions))
	for _, p := range positions {
		candidates = append(candidates, base.Candidates[p])
	}

	return &Result{
		Token:           extended,
		Candidates:      candidates,
		SuggestOnAccept: base.SuggestOnAccept,
		SuppressParens:  base.SuppressParens,
	}
}

// isIdentifierExtension reports whether diff is a plain identifier
// continuation. The diff is tokenized behind a synthetic identifier
// character; trailing bare ":" tokens are ignored, except that a diff
// ending in "::" crosses a scope-resolution boundary where the candidate
// list may grow rather than shrink.
func isIdentifierExtension(diff string) bool {
	if strings.HasSuffix(diff, "::") {
		return false
	}

	tokens := rlang.Tokenize("a" + diff)
	for len(tokens) > 0 && tokens[len(tokens)-1].Text == ":" {
		tokens = tokens[:len(tokens)-1]
	}
	return len(tokens) == 1 && tokens[0].Kind == rlang.Identifier
}

func (r *Requester) beginGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return r.gen
}

// store writes the cache slot for a completed full request, unless a newer
// request has started since (its response must not be clobbered by ours).
func (r *Requester) store(gen uint64, prefix string, cacheable bool, result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen {
		r.log.Debug().Str("token", prefix).Msg("Discarding stale completion response")
		return
	}

	r.prefix = prefix
	if !cacheable {
		r.cached = nil
		return
	}

	trie := patricia.NewTrie()
	for i, c := range result.Candidates {
		trie.Insert(patricia.Prefix(c.Name), i)
	}
	r.cached = &cacheEntry{result: *result, trie: trie}
}

// fetch dispatches the full request: chunk options when the cursor sits in a
// chunk options region, the remote provider otherwise.
func (r *Requester) fetch(ctx context.Context, req Request) (*provider.Completions, error) {
	if r.chunk != nil {
		if start := r.chunk.OptionsStart(req.Token, len(req.Token)); start >= 0 {
			return r.chunkCompletions(ctx, req, start)
		}
	}

	return r.provider.Completions(ctx, provider.Query{
		Content:          req.Content,
		Token:            req.Token,
		AssocData:        req.AssocData,
		DataType:         req.DataType,
		NumCommas:        req.NumCommas,
		ChainObjectName:  req.ChainObjectName,
		ChainExtraArgs:   req.ChainExtraArgs,
		ChainExcludeArgs: req.ChainExcludeArgs,
	})
}

// chunkCompletions completes chunk options locally. Chunk responses are not
// guaranteed to narrow as the user types (TRUE/FALSE in particular), so they
// are never cacheable.
func (r *Requester) chunkCompletions(ctx context.Context, req Request, start int) (*provider.Completions, error) {
	opts, err := r.chunk.Options(ctx)
	if err != nil {
		return nil, err
	}

	res := opts.Complete(req.Token, start, len(req.Token), r.chunk.ActiveEngine())

	resp := &provider.Completions{
		Token:    res.Token,
		Names:    res.Names,
		Packages: make([]string, len(res.Names)),
	}
	if len(res.Names) > 0 && strings.HasSuffix(res.Names[0], "=") {
		resp.SuggestOnAccept = true
	}
	return resp, nil
}

// assemble merges provider and scope completions in the fixed presentation
// order, then removes duplicate names (first occurrence wins):
//  1. argument completions for the call enclosing the cursor
//  2. named-argument completions the provider inferred
//  3. unless excluded: in-scope variables, then in-scope function arguments
//  4. the provider's remaining completions
//  5. unless excluded: in-scope function names
func (r *Requester) assemble(req Request, resp *provider.Completions) *Result {
	token := resp.Token
	out := make([]Candidate, 0, len(resp.Names)+8)

	out = r.appendEnclosingCallArgs(req.Position, out)

	for i, name := range resp.Names {
		if IsNamedArg(name) {
			out = append(out, Candidate{Name: name, Source: resp.Package(i)})
		}
	}

	if !resp.ExcludeContext {
		out = r.appendScoped(token, req.Position, "variable", out)
		out = r.appendScopedArguments(token, req.Position, out)
	}

	for i, name := range resp.Names {
		if !IsNamedArg(name) {
			out = append(out, Candidate{Name: name, Source: resp.Package(i)})
		}
	}

	if !resp.ExcludeContext {
		out = r.appendScoped(token, req.Position, "function", out)
	}

	return &Result{
		Token:           resp.Token,
		Candidates:      Dedupe(out),
		GuessedFunction: resp.GuessedFunction,
		SuggestOnAccept: resp.SuggestOnAccept,
		SuppressParens:  resp.SuppressParens,
	}
}

// appendEnclosingCallArgs emits one "param = " candidate per parameter of
// the function whose call encloses the cursor, when that function is defined
// in the document. No match contributes nothing; it is not an error.
func (r *Requester) appendEnclosingCallArgs(pos int, out []Candidate) []Candidate {
	if r.scopes == nil {
		return out
	}

	name, ok := r.scopes.EnclosingCall(pos)
	if !ok {
		return out
	}

	for _, fn := range r.scopes.AllFunctionScopes() {
		if fn.Name != name {
			continue
		}
		for _, param := range fn.Params {
			out = append(out, Candidate{Name: param + " = ", Source: "[" + fn.Name + "]"})
		}
	}
	return out
}

// appendScoped adds in-scope bindings of the given kind whose name extends token
func (r *Requester) appendScoped(token string, pos int, kind string, out []Candidate) []Candidate {
	if r.scopes == nil {
		return out
	}

	for _, v := range r.scopes.VariablesInScope(pos) {
		if v.Kind == kind && strings.HasPrefix(v.Name, token) {
			out = append(out, Candidate{Name: v.Name, Source: "<" + kind + ">"})
		}
	}
	return out
}

// appendScopedArguments adds parameters of the functions enclosing the cursor
func (r *Requester) appendScopedArguments(token string, pos int, out []Candidate) []Candidate {
	if r.scopes == nil {
		return out
	}

	for _, fn := range r.scopes.FunctionsInScope(pos) {
		label := "<anonymous function>"
		if fn.Name != "" {
			label = "[" + fn.Name + "]"
		}
		for _, param := range fn.Params {
			if strings.HasPrefix(param, token) {
				out = append(out, Candidate{Name: param, Source: label})
			}
		}
	}
	return out
}
