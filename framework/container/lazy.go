package container

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// lazyValue is the producer behind a lazy descriptor. Every registry holding
// the descriptor (including copies made by Declare) shares it, so the factory
// runs at most once in total.
type lazyValue struct {
	mu    sync.Mutex
	done  bool
	value any
	f     func() any

	// goroutine currently running f, 0 when idle
	owner atomic.Uint64
}

func newLazyValue(f func() any) *lazyValue {
	return &lazyValue{f: f}
}

// get returns the produced value, running f first if needed. ran reports
// whether this call was the one that ran it.
func (l *lazyValue) get() (v any, ran bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.done {
		l.owner.Store(goroutineID())
		defer l.owner.Store(0)

		l.value = l.f()
		l.done = true
		ran = true
	}
	return l.value, ran
}

// building reports whether f is running on the calling goroutine, i.e. the
// factory is asking for its own value.
func (l *lazyValue) building() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == goroutineID()
}

// goroutineID parses the current goroutine's id from its stack header
// ("goroutine 42 [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
