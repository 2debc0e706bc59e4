// Package boundary implements the byte-buffer contract used when the solver
// is called across a foreign-memory boundary such as a WebAssembly host.
//
// The caller allocates an input buffer through the session, writes a JSON
// request into it, calls Solve and then reads the response through
// OutputPtr/OutputLen. Input buffers belong to the caller and are released
// with Dealloc. The output buffer belongs to the session and goes stale on
// the next Solve.
package boundary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/engine"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// Status values returned by Solve.
const (
	StatusFailure int32 = 0
	StatusSuccess int32 = 1
)

// ErrEmptyPayload is returned for a zero-length or blank request.
var ErrEmptyPayload = errors.New("request payload is empty")

// Session owns the buffers of one caller. It is safe for concurrent use but
// a caller interleaving Solve calls from several goroutines will see each
// other's output.
type Session struct {
	mu      sync.Mutex
	solver  *engine.Solver
	logger  *zap.Logger
	buffers map[uintptr][]byte
	output  []byte
}

// NewSession returns a session whose solves run through an engine.Solver
// built from opts.
func NewSession(logger *zap.Logger, opts ...engine.Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return &Session{
		solver:  engine.NewSolver(opts...),
		logger:  logger,
		buffers: make(map[uintptr][]byte),
	}
}

// Alloc reserves n bytes and returns their address. The session keeps the
// buffer reachable until Dealloc. Zero or negative sizes return 0.
func (s *Session) Alloc(n int) uintptr {
	if n <= 0 {
		return 0
	}
	buf := make([]byte, n)
	ptr := uintptr(unsafe.Pointer(&buf[0]))

	s.mu.Lock()
	s.buffers[ptr] = buf
	s.mu.Unlock()
	return ptr
}

// Dealloc releases a buffer returned by Alloc. It reports false for an
// unknown pointer or a size that does not match the allocation.
func (s *Session) Dealloc(ptr uintptr, n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.buffers[ptr]
	if !ok || len(buf) != n {
		return false
	}
	delete(s.buffers, ptr)
	return true
}

// Buffer returns the caller-owned buffer at ptr so the host side can write
// into it. The returned slice aliases session memory.
func (s *Session) Buffer(ptr uintptr) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[ptr]
	return buf, ok
}

// Live returns the number of buffers allocated and not yet released.
func (s *Session) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}

// Solve reads n request bytes from the buffer at ptr and solves them. The
// range must lie inside one allocation.
func (s *Session) Solve(ctx context.Context, ptr uintptr, n int) int32 {
	s.mu.Lock()
	buf, ok := s.buffers[ptr]
	s.mu.Unlock()

	if !ok || n < 0 || n > len(buf) {
		return s.fail(fmt.Errorf("input buffer %#x of %d bytes was not allocated by this session", ptr, n))
	}
	return s.SolveJSON(ctx, buf[:n])
}

// SolveJSON decodes a JSON request, solves it and stores the JSON response
// as the session output. It never panics; a panic inside the engine is
// reported as an internal error response.
func (s *Session) SolveJSON(ctx context.Context, input []byte) (status int32) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("solve panicked", zap.Any("panic", r))
			status = s.fail(engine.Recovered(r))
		}
	}()

	req, err := DecodeRequest(input)
	if err != nil {
		return s.fail(err)
	}

	report, err := s.solver.Solve(ctx, req)
	if err != nil {
		return s.fail(err)
	}

	out, err := json.Marshal(report)
	if err != nil {
		return s.fail(fmt.Errorf("encoding response: %w", err))
	}
	s.setOutput(out)
	return StatusSuccess
}

// DecodeRequest parses a request payload. Empty and malformed payloads are
// validation errors.
func DecodeRequest(input []byte) (model.Request, error) {
	var req model.Request
	if len(bytes.TrimSpace(input)) == 0 {
		return req, &engine.ValidationError{Msg: "Request payload is empty.", Err: ErrEmptyPayload}
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return req, &engine.ValidationError{Msg: fmt.Sprintf("Invalid request JSON: %v", err), Err: err}
	}
	return req, nil
}

// fail stores an error response and returns StatusFailure.
func (s *Session) fail(err error) int32 {
	s.logger.Debug("solve failed", zap.Error(err), zap.Bool("validation", engine.IsValidation(err)))
	out, mErr := json.Marshal(model.ErrorResponse{Error: err.Error()})
	if mErr != nil {
		out = []byte(`{"error":"internal solver error"}`)
	}
	s.setOutput(out)
	return StatusFailure
}

func (s *Session) setOutput(out []byte) {
	s.mu.Lock()
	s.output = out
	s.mu.Unlock()
}

// Output returns the bytes of the most recent response. The slice is owned
// by the session and must not be retained across calls.
func (s *Session) Output() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// OutputPtr returns the address of the most recent response, or 0 if there
// is none.
func (s *Session) OutputPtr() uintptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.output) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s.output[0]))
}

// OutputLen returns the length of the most recent response.
func (s *Session) OutputLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.output)
}
