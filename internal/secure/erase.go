// Package secure holds the erasure discipline shared by every component
// that touches seed, mnemonic, or private-key material.
//
// Nothing in this package does I/O. It exists so that the zeroing of a
// secret buffer happens in exactly one place and cannot be elided by the
// optimizer.
package secure

import "runtime"

// Zero overwrites b with zeros and fences the write with KeepAlive so the
// compiler cannot treat the store as dead because b is about to go out of
// scope.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroAll zeroes every buffer in bufs, skipping nils.
func ZeroAll(bufs ...[]byte) {
	for _, b := range bufs {
		Zero(b)
	}
}

// Buffer is an owned secret byte slice with a single release step. Callers
// acquire one, use Bytes while it is live, and must call Release on every
// exit path (success or error) before the buffer's storage can be reused
// or freed.
type Buffer struct {
	b        []byte
	released bool
}

// NewBuffer takes ownership of b. The caller must not retain other
// references to b after this call.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Bytes returns the live secret bytes. Calling it after Release returns nil.
func (s *Buffer) Bytes() []byte {
	if s == nil || s.released {
		return nil
	}
	return s.b
}

// Release zeroes the underlying storage. Safe to call more than once and
// safe to call on a nil receiver.
func (s *Buffer) Release() {
	if s == nil || s.released {
		return
	}
	Zero(s.b)
	s.released = true
}
