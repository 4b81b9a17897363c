package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/petermattis/goid"
)

// InterceptHandler observes or substitutes a call to a user function whose
// name matches the handler's registered pattern (GLOSSARY "Interceptor").
// continueFn advances to the next matching handler, or the original
// function if none remain; a handler that never calls it short-circuits
// every downstream handler and the original call (spec.md §9 "Interceptor
// ordering": "skipping the continuation in any Hᵢ prevents all downstream
// handlers and the original from running").
type InterceptHandler func(arena *Arena, name string, args []Any, continueFn func([]Any) Any) Any

type interceptorEntry struct {
	pattern string
	handler InterceptHandler
}

// Interceptors is the process-wide interception registry (spec.md §4.H,
// grounded on runtime_intercept.c/.h). Registration is mutex-serialized;
// the hot path — no interceptors registered — is a single atomic load,
// exactly the `__rt_interceptor_count == 0` check generated call sites
// make before paying for boxing and thread-local bookkeeping.
type Interceptors struct {
	mu      sync.Mutex
	entries []interceptorEntry
	count   int32 // atomic; the Go-native __rt_interceptor_count

	depthMu sync.Mutex
	depth   map[int64]int // goroutine id -> re-entrancy depth
}

// NewInterceptors creates an empty registry.
func NewInterceptors() *Interceptors {
	return &Interceptors{depth: make(map[int64]int)}
}

// Register adds handler for names matching pattern — a glob with at most
// one `*`, at the start, middle, or end (spec.md §9: "pattern is a glob
// with at most one *"). An empty pattern matches every name, same as "*".
func (r *Interceptors) Register(pattern string, handler InterceptHandler) {
	if pattern == "" {
		pattern = "*"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, interceptorEntry{pattern: pattern, handler: handler})
	atomic.AddInt32(&r.count, 1)
}

// Active reports whether any interceptor is currently registered.
func (r *Interceptors) Active() bool {
	return atomic.LoadInt32(&r.count) > 0
}

// Depth returns the current interception re-entrancy depth for the calling
// goroutine — this package's equivalent of runtime_intercept.c's
// thread-local `__rt_intercept_depth`, keyed by goid.Get() instead of a C
// `_Thread_local` variable since Go goroutines, not OS threads, are the
// unit of concurrency here.
func (r *Interceptors) Depth() int {
	r.depthMu.Lock()
	defer r.depthMu.Unlock()
	return r.depth[goid.Get()]
}

func (r *Interceptors) enter() {
	id := goid.Get()
	r.depthMu.Lock()
	r.depth[id]++
	r.depthMu.Unlock()
}

func (r *Interceptors) leave() {
	id := goid.Get()
	r.depthMu.Lock()
	r.depth[id]--
	if r.depth[id] <= 0 {
		delete(r.depth, id)
	}
	r.depthMu.Unlock()
}

// CallIntercepted runs name's interceptor chain over args, falling through
// to original once every matching handler has called its continuation
// (rt_call_intercepted). Handlers run in registration order; mutations a
// handler makes to args are visible to the handlers and the original call
// after it, matching the generated self-mutation writeback codegen
// performs for instance methods.
func (r *Interceptors) CallIntercepted(arena *Arena, name string, args []Any, original func([]Any) Any) Any {
	r.mu.Lock()
	var matched []InterceptHandler
	for _, e := range r.entries {
		if patternMatches(e.pattern, name) {
			matched = append(matched, e.handler)
		}
	}
	r.mu.Unlock()

	if len(matched) == 0 {
		return original(args)
	}

	r.enter()
	defer r.leave()

	var chain func(i int, args []Any) Any
	chain = func(i int, args []Any) Any {
		if i >= len(matched) {
			return original(args)
		}
		return matched[i](arena, name, args, func(next []Any) Any {
			return chain(i+1, next)
		})
	}
	return chain(0, args)
}

// patternMatches implements rt_pattern_matches: a glob with at most one
// `*`, at the start, end, middle, or absent entirely (an exact match).
// doublestar.Match's single-component glob semantics are a strict
// superset that coincides exactly with these shapes for a pattern with no
// path separators, so it is used directly rather than hand-rolling the
// prefix/suffix/infix cases.
func patternMatches(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
