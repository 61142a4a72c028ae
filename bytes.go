// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"crypto/subtle"
	"encoding/binary"
	"runtime"
)

// appendUint32 appends v to dst in big-endian byte order.
func appendUint32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// readUint32 reads a big-endian uint32 from the first four bytes of b.
func readUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// clone returns a fresh copy of b so callers never share a buffer with
// internal state.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// concat joins the given byte slices into a single freshly allocated buffer.
func concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// equal reports whether a and b have the same contents without leaking
// timing information about where they differ.
func equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Wipe zeroes the provided buffer. This is best-effort: it reduces the
// chance of key material lingering in memory but cannot guard against
// copies made by the runtime or allocator.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
