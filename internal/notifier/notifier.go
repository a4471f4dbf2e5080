// Package notifier implements a way for multiple watchers to follow
// a monotonically increasing sequence number, such as the
// position at the end of a message log.
package notifier

import (
	"sync"
)

// Notifier represents a shared sequence number that can be watched
// for changes. The zero value is ready to use and holds sequence
// number zero. Methods on a Notifier may be called concurrently.
type Notifier struct {
	mu     sync.Mutex
	wait   sync.Cond
	seq    int
	closed bool
}

func (n *Notifier) init() {
	if n.wait.L == nil {
		n.wait.L = &n.mu
	}
}

// Set sets the current sequence number and wakes up all watchers.
// Sequence numbers must not decrease; Set panics if seq is less
// than the current value.
func (n *Notifier) Set(seq int) {
	n.mu.Lock()
	n.init()
	if seq < n.seq {
		n.mu.Unlock()
		panic("notifier sequence number decreased")
	}
	n.seq = seq
	n.mu.Unlock()
	n.wait.Broadcast()
}

// Seq returns the current sequence number.
func (n *Notifier) Seq() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

// Close closes the Notifier, unblocking any outstanding watchers.
// Close always returns nil.
func (n *Notifier) Close() error {
	n.mu.Lock()
	n.init()
	n.closed = true
	n.mu.Unlock()
	n.wait.Broadcast()
	return nil
}

// Closed reports whether the notifier has been closed.
func (n *Notifier) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// Watch returns a Watcher that has seen all sequence numbers
// up to and including seq.
func (n *Notifier) Watch(seq int) *Watcher {
	return &Watcher{
		notifier: n,
		seq:      seq,
	}
}

// Watcher represents a single watcher of a Notifier.
type Watcher struct {
	notifier *Notifier
	seq      int
	closed   bool
}

// Next blocks until the notifier's sequence number moves past the
// last one seen by the watcher, then records the new value, which
// can be retrieved with Seq. It returns false without waiting if
// the watcher has been closed, or if the notifier has been closed
// and the watcher has already seen its final sequence number.
func (w *Watcher) Next() bool {
	n := w.notifier
	n.mu.Lock()
	defer n.mu.Unlock()
	n.init()
	for {
		if w.closed {
			return false
		}
		if n.seq != w.seq {
			w.seq = n.seq
			return true
		}
		if n.closed {
			return false
		}
		n.wait.Wait()
	}
}

// Seq returns the most recent sequence number seen by the watcher.
func (w *Watcher) Seq() int {
	n := w.notifier
	n.mu.Lock()
	defer n.mu.Unlock()
	return w.seq
}

// Close closes the Watcher without closing the underlying
// notifier. It may be called concurrently with Next.
func (w *Watcher) Close() {
	n := w.notifier
	n.mu.Lock()
	n.init()
	w.closed = true
	n.mu.Unlock()
	n.wait.Broadcast()
}
