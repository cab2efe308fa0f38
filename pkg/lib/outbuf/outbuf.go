// Package outbuf accumulates the raw chunks drained from a child's output
// stream and replays them to any number of subscribers, each of which also
// follows live appends until the buffer is closed.
package outbuf

import "sync"

// Buffer is an append-only sequence of byte chunks. Chunk order is the
// append order, which for child output is the child's write order.
type Buffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	chunks [][]byte
	closed bool
}

// New creates an empty Buffer.
func New() *Buffer {
	b := &Buffer{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Append adds a copy of p as a new chunk and wakes followers. Appending
// nothing, or appending after Close, is a no-op.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	cp := append([]byte(nil), p...)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.chunks = append(b.chunks, cp)
	b.cond.Broadcast()
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// Close marks the buffer complete. Followers drain what is stored and then
// their channels close. Idempotent.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.cond.Broadcast()
}

// Bytes returns all stored chunks concatenated.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, c := range b.chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range b.chunks {
		out = append(out, c...)
	}
	return out
}

// String returns all stored chunks concatenated into a single string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Subscribe returns a channel that first replays every stored chunk in
// order, then follows new appends. The channel closes once the buffer is
// closed and fully drained, or once cancel is called. A subscriber that
// stops receiving early must call cancel, otherwise its forwarding goroutine
// stays blocked on the send; cancel is idempotent and safe to call after the
// channel has already closed. The delivered chunks are the stored copies;
// subscribers must not mutate them.
func (b *Buffer) Subscribe(capacity int) (<-chan []byte, func()) {
	ch := make(chan []byte, capacity)
	stop := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			// Close under the lock so a forwarder between its stop check
			// and cond.Wait cannot miss the wakeup.
			b.mu.Lock()
			close(stop)
			b.mu.Unlock()
			b.cond.Broadcast()
		})
	}

	stopped := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}

	go func() {
		defer close(ch)
		next := 0
		for {
			b.mu.Lock()
			for next >= len(b.chunks) && !b.closed && !stopped() {
				b.cond.Wait()
			}
			if stopped() || next >= len(b.chunks) {
				b.mu.Unlock()
				return
			}
			chunk := b.chunks[next]
			next++
			b.mu.Unlock()

			select {
			case ch <- chunk:
			case <-stop:
				return
			}
		}
	}()
	return ch, cancel
}
