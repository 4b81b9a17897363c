package runtime

import (
	"golang.org/x/sync/errgroup"
)

// Thread is a handle to a spawned thread's in-flight result, returned by
// Spawn and consumed by Sync (GLOSSARY "thread spawn/sync"). It owns its
// own root arena: spec.md §6 is explicit that a spawned thread's arena is
// "not linked as a parent" to the spawning thread's, so a thread's
// allocations only reach the spawner's arena through promotion at Sync.
type Thread struct {
	arena  *Arena
	result any
	err    error
	done   chan struct{}
}

// Arena returns the thread's own root arena — the arena fn ran in, and the
// source arena Sync promotes its result out of.
func (t *Thread) Arena() *Arena { return t.arena }

// Spawn starts fn on its own goroutine with a freshly created root arena,
// returning immediately with a Thread handle (runtime_thread_promote.c's
// spawn half). fn's return value is recorded for Sync to promote; a panic
// inside fn is recovered and surfaced as Sync's error instead of crashing
// the process, since a generated program's `thread` statement has no
// construct for an unrecovered native panic.
func Spawn(fn func(arena *Arena) any) *Thread {
	t := &Thread{arena: NewArena(nil), done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = panicError{r}
			}
		}()
		t.result = fn(t.arena)
	}()
	return t
}

type panicError struct{ v any }

func (p panicError) Error() string { return "runtime: thread panicked" }

// Sync blocks until t finishes, then promotes its result into dest —
// primitives are copied by value, handle-bearing results (strings, arrays,
// structs) are deep-copied via Promote — and destroys t's arena, matching
// runtime_thread_promote.c's join-then-promote-then-free sequence.
func Sync(dest *Arena, t *Thread) (any, error) {
	<-t.done
	defer t.arena.Destroy()
	if t.err != nil {
		return nil, t.err
	}
	switch v := t.result.(type) {
	case Any:
		if v.hasHandle {
			h, err := Promote(dest, v.handle)
			if err != nil {
				return nil, err
			}
			v.handle = h
		}
		return v, nil
	case Handle:
		return Promote(dest, v)
	default:
		return v, nil
	}
}

// ThreadGroup joins a fixed set of spawned threads together. The `sync`
// statement does not use it: the interpreter and codegen both join each
// thread operand separately. It is a thin
// wrapper over errgroup.Group: every Go call is independent (no thread may
// observe another's result before the join), which is exactly what
// errgroup.Group's "run a set, wait for all, keep the first error" contract
// provides, rather than hand-rolling a WaitGroup + error slice.
type ThreadGroup struct {
	g       *errgroup.Group
	threads []*Thread
}

// NewThreadGroup creates an empty group.
func NewThreadGroup() *ThreadGroup {
	return &ThreadGroup{g: new(errgroup.Group)}
}

// Go spawns fn as a member of the group, on its own root arena.
func (tg *ThreadGroup) Go(fn func(arena *Arena) any) *Thread {
	t := Spawn(fn)
	tg.threads = append(tg.threads, t)
	tg.g.Go(func() error {
		<-t.done
		return t.err
	})
	return t
}

// Wait blocks until every thread in the group has finished, returning the
// first panic error encountered (if any). It does not itself promote
// results — callers call Sync per-thread afterward, since each thread's
// result may need to land in a different destination arena.
func (tg *ThreadGroup) Wait() error {
	return tg.g.Wait()
}
