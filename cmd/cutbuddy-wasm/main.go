//go:build wasip1

// CutBuddy solver as a WebAssembly module for browser and edge hosts.
//
// Build:
//   GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o cutbuddy.wasm ./cmd/cutbuddy-wasm
//
// The host writes a JSON request into memory obtained from alloc, calls
// solve_json, then reads output_len bytes at output_ptr. solve_json returns
// 1 for a report and 0 for an {"error": ...} payload. The host supplies the
// clock through env.now_ms.

package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/boundary"
	"github.com/piwi3910/cutbuddy/internal/engine"
)

//go:wasmimport env now_ms
func nowMs() float64

var hostClock = engine.ClockFunc(func() time.Time {
	return time.UnixMicro(int64(nowMs() * 1000))
})

var session = boundary.NewSession(zap.NewNop(), engine.WithClock(hostClock))

//go:wasmexport alloc
func alloc(n int32) uint32 {
	return uint32(session.Alloc(int(n)))
}

//go:wasmexport dealloc
func dealloc(ptr uint32, n int32) {
	session.Dealloc(uintptr(ptr), int(n))
}

//go:wasmexport solve_json
func solveJSON(ptr uint32, n int32) int32 {
	return session.Solve(context.Background(), uintptr(ptr), int(n))
}

//go:wasmexport output_ptr
func outputPtr() uint32 {
	return uint32(session.OutputPtr())
}

//go:wasmexport output_len
func outputLen() int32 {
	return int32(session.OutputLen())
}

func main() {}
