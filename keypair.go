// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/sign/ed448"
)

// keyOrigin records how a KeyPair was constructed. The length-based
// dispatch in NewKeyPair is resolved exactly once, here.
type keyOrigin uint8

const (
	originSeed   keyOrigin = iota + 1 // 32-byte derived seed
	originNative                      // full native-length private key
)

// KeyPair holds a private/public key pair for one of the supported curves.
// For Ed448 the expanded 57-byte private key is cached alongside the
// original seed; Wipe zeroes both.
type KeyPair struct {
	curve   Curve
	origin  keyOrigin
	seed    []byte // nil when constructed from a native key
	private []byte // 32 bytes for Ed25519, 57 for Ed448
	public  []byte
}

// NewKeyPair builds a key pair from either a 32-byte derived seed (both
// curves) or a full native-length private key (57 bytes, Ed448 only).
// Anything else is a KeyLengthError.
func NewKeyPair(curve Curve, key []byte) (*KeyPair, error) {
	if !curve.valid() {
		return nil, &UnsupportedCurveError{Curve: curve}
	}
	if len(key) == 0 {
		return nil, &MissingParameterError{Name: "key"}
	}

	kp := &KeyPair{curve: curve}
	switch {
	case len(key) == SeedKeyBytes:
		kp.origin = originSeed
		kp.seed = clone(key)
		switch curve {
		case Ed25519:
			kp.private = clone(key)
		case Ed448:
			expanded, err := ExpandEd448Seed(key)
			if err != nil {
				return nil, err
			}
			kp.private = expanded
		}
	case curve == Ed448 && len(key) == Ed448KeyBytes:
		kp.origin = originNative
		kp.private = clone(key)
	default:
		want := []int{SeedKeyBytes}
		if curve == Ed448 {
			want = append(want, Ed448KeyBytes)
		}
		return nil, &KeyLengthError{Curve: curve, Length: len(key), Want: want}
	}

	switch curve {
	case Ed25519:
		priv := ed25519.NewKeyFromSeed(kp.private)
		kp.public = clone(priv.Public().(ed25519.PublicKey))
	case Ed448:
		priv := ed448.NewKeyFromSeed(kp.private)
		kp.public = clone(priv.Public().(ed448.PublicKey))
	}
	return kp, nil
}

// GenerateKeyPair creates a fresh key pair from the operating system's
// cryptographically secure random source. A failing source is an error,
// never a fallback to weaker randomness.
func GenerateKeyPair(curve Curve) (*KeyPair, error) {
	switch curve {
	case Ed25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("could not generate ed25519 key: %w", err)
		}
		return NewKeyPair(Ed25519, priv.Seed())
	case Ed448:
		_, priv, err := ed448.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("could not generate ed448 key: %w", err)
		}
		return NewKeyPair(Ed448, priv.Seed())
	}
	return nil, &UnsupportedCurveError{Curve: curve}
}

// Curve returns the curve this key pair belongs to.
func (kp *KeyPair) Curve() Curve {
	return kp.curve
}

// PublicKey returns a copy of the public key (32 or 57 bytes).
func (kp *KeyPair) PublicKey() []byte {
	return clone(kp.public)
}

// PrivateKey returns a copy of the native private key material: the 32-byte
// seed for Ed25519, the expanded 57-byte key for Ed448.
func (kp *KeyPair) PrivateKey() []byte {
	return clone(kp.private)
}

// Seed returns a copy of the 32-byte derived seed, or nil when the pair was
// constructed from a native-length key.
func (kp *KeyPair) Seed() []byte {
	if kp.seed == nil {
		return nil
	}
	return clone(kp.seed)
}

// Sign signs message with the private key and returns the signature.
func (kp *KeyPair) Sign(message []byte) ([]byte, error) {
	switch kp.curve {
	case Ed25519:
		return ed25519.Sign(ed25519.NewKeyFromSeed(kp.private), message), nil
	case Ed448:
		return ed448.Sign(ed448.NewKeyFromSeed(kp.private), message, ""), nil
	}
	return nil, &UnsupportedCurveError{Curve: kp.curve}
}

// Verify reports whether signature is a valid signature of message by this
// key pair's public key.
func (kp *KeyPair) Verify(message, signature []byte) bool {
	switch kp.curve {
	case Ed25519:
		return ed25519.Verify(ed25519.PublicKey(kp.public), message, signature)
	case Ed448:
		return ed448.Verify(ed448.PublicKey(kp.public), message, signature, "")
	}
	return false
}

// Wipe zeroes the seed and private key material. The pair must not be used
// for signing afterwards.
func (kp *KeyPair) Wipe() {
	Wipe(kp.seed)
	Wipe(kp.private)
}
