// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
)

// TestUint32RoundTrip packs and unpacks a big-endian uint32.
func TestUint32RoundTrip(t *testing.T) {
	is := is.New(t)

	for _, v := range []uint32{0, 1, 44, HardenedOffset, HardenedOffset + 1110, 0xFFFFFFFF} {
		b := appendUint32(nil, v)
		is.Equal(len(b), 4)
		is.Equal(readUint32(b), v)
	}
}

// TestConcatAndClone verifies fresh-buffer semantics.
func TestConcatAndClone(t *testing.T) {
	is := is.New(t)

	a := []byte{1, 2}
	b := []byte{3}
	joined := concat(a, b, nil, []byte{4, 5})
	is.True(bytes.Equal(joined, []byte{1, 2, 3, 4, 5}))

	c := clone(a)
	c[0] = 9
	is.Equal(a[0], byte(1)) // clone must not share backing storage
}

// TestEqualAndWipe covers the constant-time comparison and the zeroing
// helper.
func TestEqualAndWipe(t *testing.T) {
	is := is.New(t)

	is.True(equal([]byte{1, 2, 3}, []byte{1, 2, 3}))
	is.True(!equal([]byte{1, 2, 3}, []byte{1, 2, 4}))
	is.True(!equal([]byte{1, 2}, []byte{1, 2, 3}))

	secret := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	Wipe(secret)
	is.True(bytes.Equal(secret, make([]byte, 4)))
}
