// Package server implements msgpack IPC for completion requests.
//
// The protocol is a synchronous request/response exchange over
// stdin/stdout. Each request carries an id echoed back in the response and a
// method selecting the operation:
//
//	{"id": "req_001", "method": "complete", "token": "pri", "content": "..."}
//
// Completion responses list candidates with their source annotation plus
// timing data:
//
//	{"id": "req_001", "token": "pri", "candidates": [...], "count": 2, "time_ms": 1}
//
// Methods "flush" and "health" manage the narrowing cache and report
// liveness. Errors are reported as {"id", "error", "code"} messages; the
// connection stays open.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/statlab-ide/rassist/internal/assist"
	"github.com/statlab-ide/rassist/internal/logger"
	"github.com/statlab-ide/rassist/internal/rerrors"
)

// DefaultMaxRequestBytes bounds the document content accepted in one request
const DefaultMaxRequestBytes = 4 * 1024 * 1024

// Request is an incoming IPC message
type Request struct {
	ID       string `msgpack:"id"`
	Method   string `msgpack:"method"`
	Token    string `msgpack:"token,omitempty"`
	Content  string `msgpack:"content,omitempty"`
	Position int    `msgpack:"position,omitempty"`
	Implicit bool   `msgpack:"implicit,omitempty"`
}

// Candidate is one completion in a response
type Candidate struct {
	Name   string `msgpack:"name"`
	Source string `msgpack:"source,omitempty"`
}

// CompleteResponse answers a complete request. Suppressed marks an implicit
// request whose empty result must not be presented.
type CompleteResponse struct {
	ID              string      `msgpack:"id"`
	Token           string      `msgpack:"token"`
	Candidates      []Candidate `msgpack:"candidates"`
	Count           int         `msgpack:"count"`
	GuessedFunction string      `msgpack:"guessed_function,omitempty"`
	SuggestOnAccept bool        `msgpack:"suggest_on_accept,omitempty"`
	SuppressParens  bool        `msgpack:"suppress_parens,omitempty"`
	Suppressed      bool        `msgpack:"suppressed,omitempty"`
	TimeTaken       int64       `msgpack:"time_ms"`
}

// StatusResponse answers flush and health requests
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorResponse reports a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"error"`
	Code  string `msgpack:"code"`
}

// Completer is the subset of the requester the server drives
type Completer interface {
	Complete(ctx context.Context, req assist.Request) (*assist.Result, error)
	FlushCache()
}

// Server handles the IPC for completion requests
type Server struct {
	completer  Completer
	dec        *msgpack.Decoder
	enc        *msgpack.Encoder
	log        *logger.Logger
	maxRequest int
}

// New creates a server reading requests from in and writing responses to
// out. maxRequest bounds accepted content size; zero means
// DefaultMaxRequestBytes.
func New(completer Completer, in io.Reader, out io.Writer, maxRequest int, log *logger.Logger) *Server {
	if maxRequest <= 0 {
		maxRequest = DefaultMaxRequestBytes
	}
	if log == nil {
		log = logger.New("warn", nil)
	}
	return &Server{
		completer:  completer,
		dec:        msgpack.NewDecoder(in),
		enc:        msgpack.NewEncoder(out),
		log:        log,
		maxRequest: maxRequest,
	}
}

// Serve processes requests until the input stream closes or ctx is done
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Msg("Completion server listening on stdio")

	if err := s.enc.Encode(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info().Msg("Input stream closed, shutting down")
				return nil
			}
			return fmt.Errorf("failed to decode request: %w", err)
		}

		s.handle(ctx, req)
	}
}

func (s *Server) handle(ctx context.Context, req Request) {
	switch req.Method {
	case "complete":
		s.handleComplete(ctx, req)
	case "flush":
		s.completer.FlushCache()
		s.reply(StatusResponse{ID: req.ID, Status: "flushed"})
	case "health":
		s.reply(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.replyError(req.ID, fmt.Sprintf("unknown method: %s", req.Method), "BAD_REQUEST")
	}
}

func (s *Server) handleComplete(ctx context.Context, req Request) {
	if len(req.Content) > s.maxRequest {
		s.replyError(req.ID, fmt.Sprintf("content exceeds %d bytes", s.maxRequest), "BAD_REQUEST")
		return
	}

	start := time.Now()
	result, err := s.completer.Complete(ctx, assist.Request{
		Content:  req.Content,
		Token:    req.Token,
		Position: req.Position,
		Implicit: req.Implicit,
	})
	elapsed := time.Since(start)

	if err != nil {
		code := "INTERNAL_ERROR"
		var ae rerrors.AssistError
		if errors.As(err, &ae) {
			code = ae.Code()
		}
		s.log.Error().Err(err).Str("token", req.Token).Msg("Completion request failed")
		s.replyError(req.ID, err.Error(), code)
		return
	}

	if result == nil {
		s.reply(CompleteResponse{ID: req.ID, Token: req.Token, Suppressed: true, TimeTaken: elapsed.Milliseconds()})
		return
	}

	candidates := make([]Candidate, len(result.Candidates))
	for i, c := range result.Candidates {
		candidates[i] = Candidate{Name: c.Name, Source: c.Source}
	}

	s.log.Debug().
		Str("token", result.Token).
		Int("candidates", len(candidates)).
		Dur("elapsed", elapsed).
		Msg("Completion request served")

	s.reply(CompleteResponse{
		ID:              req.ID,
		Token:           result.Token,
		Candidates:      candidates,
		Count:           len(candidates),
		GuessedFunction: result.GuessedFunction,
		SuggestOnAccept: result.SuggestOnAccept,
		SuppressParens:  result.SuppressParens,
		TimeTaken:       elapsed.Milliseconds(),
	})
}

func (s *Server) reply(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) replyError(id, message, code string) {
	s.reply(ErrorResponse{ID: id, Error: message, Code: code})
}
