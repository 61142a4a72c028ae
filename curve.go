// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"

	"github.com/cloudflare/circl/sign/ed448"
	"golang.org/x/crypto/sha3"
)

// Curve identifies one of the two supported EdDSA curves. The numeric value
// doubles as the version byte of the binary key package format.
type Curve uint8

const (
	// Ed25519 is the Edwards curve over the field with 2^255-19 elements.
	Ed25519 Curve = 1

	// Ed448 is the Edwards "Goldilocks" curve. Its native keys are 57 bytes,
	// so 32-byte derived seeds must be expanded before use.
	Ed448 Curve = 2
)

const (
	// SeedKeyBytes is the size of a derived private key seed as produced by
	// the derivation engine, regardless of curve.
	SeedKeyBytes = 32

	// Ed448KeyBytes is the native private and public key size of Ed448.
	Ed448KeyBytes = 57
)

// ed448ExpansionTag keys the HMAC step of the Ed448 seed expansion. The
// expansion is a fixed, bespoke construction (not an externally specified
// standard) and must be reproduced bit-for-bit for compatibility.
const ed448ExpansionTag = "ed448-expansion"

func (c Curve) String() string {
	switch c {
	case Ed25519:
		return "ed25519"
	case Ed448:
		return "ed448"
	}
	return "unknown"
}

func (c Curve) valid() bool {
	return c == Ed25519 || c == Ed448
}

// PublicKeySize returns the public key size in bytes for the curve, or 0
// for an unknown curve.
func (c Curve) PublicKeySize() int {
	switch c {
	case Ed25519:
		return ed25519.PublicKeySize
	case Ed448:
		return Ed448KeyBytes
	}
	return 0
}

// versionByte is the leading byte of a binary key package for this curve.
func (c Curve) versionByte() byte {
	return byte(c)
}

// keyTypePrefix returns the fixed two-character key type prefix used in
// public key identifiers and packages.
func (c Curve) keyTypePrefix() string {
	switch c {
	case Ed25519:
		return "ed"
	case Ed448:
		return "eg"
	}
	return ""
}

// curveForVersionByte maps a package version byte back to its curve.
func curveForVersionByte(b byte) (Curve, error) {
	c := Curve(b)
	if !c.valid() {
		return 0, &UnsupportedCurveError{Curve: c}
	}
	return c, nil
}

// ExpandEd448Seed deterministically expands a 32-byte derived seed into a
// 57-byte Ed448 private key: SHA3-256 of the seed keys an HMAC-SHA512 over
// a fixed tag, the digest is truncated to 57 bytes, and the two low bits of
// the final byte are cleared. The result is validated before use: an
// all-zero or all-0xFF key, or one with its clamped bits still set, is
// rejected with an ExpansionError.
func ExpandEd448Seed(seed []byte) ([]byte, error) {
	if len(seed) != SeedKeyBytes {
		return nil, &KeyLengthError{Curve: Ed448, Length: len(seed), Want: []int{SeedKeyBytes}}
	}

	h := sha3.Sum256(seed)
	mac := hmac.New(sha512.New, h[:])
	mac.Write([]byte(ed448ExpansionTag))
	expanded := mac.Sum(nil)[:Ed448KeyBytes]

	// Clamp as required by the Ed448 signing algorithm.
	expanded[Ed448KeyBytes-1] &= 0xFC

	allZero, allOnes := true, true
	for _, b := range expanded {
		if b != 0x00 {
			allZero = false
		}
		if b != 0xFF {
			allOnes = false
		}
	}
	switch {
	case allZero:
		return nil, &ExpansionError{Reason: "expanded key is all zero"}
	case allOnes:
		return nil, &ExpansionError{Reason: "expanded key is all 0xFF"}
	case expanded[Ed448KeyBytes-1]&0x03 != 0:
		return nil, &ExpansionError{Reason: "low bits of final byte are not clear"}
	}
	return expanded, nil
}

// publicKeyFromSeed computes the public key for a 32-byte derived seed,
// expanding the seed first when the curve requires a larger native key.
func publicKeyFromSeed(curve Curve, seed []byte) ([]byte, error) {
	if len(seed) != SeedKeyBytes {
		return nil, &KeyLengthError{Curve: curve, Length: len(seed), Want: []int{SeedKeyBytes}}
	}
	switch curve {
	case Ed25519:
		priv := ed25519.NewKeyFromSeed(seed)
		return clone(priv.Public().(ed25519.PublicKey)), nil
	case Ed448:
		expanded, err := ExpandEd448Seed(seed)
		if err != nil {
			return nil, err
		}
		defer Wipe(expanded)
		priv := ed448.NewKeyFromSeed(expanded)
		return clone(priv.Public().(ed448.PublicKey)), nil
	}
	return nil, &UnsupportedCurveError{Curve: curve}
}
