// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"encoding/hex"
	"fmt"
)

// SeedLengthError is returned when a master seed falls outside the
// accepted [MinSeedBytes, MaxSeedBytes] range.
type SeedLengthError struct {
	Length int
	Min    int
	Max    int
}

func (e *SeedLengthError) Error() string {
	return fmt.Sprintf("invalid seed length %d: must be between %d and %d bytes", e.Length, e.Min, e.Max)
}

// PathError is returned when a derivation path fails validation: malformed
// syntax, a non-hardened component, or a wrong purpose/coin type constant.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid derivation path %q: %s", e.Path, e.Reason)
}

// UnsupportedCurveError is returned when a curve tag (or a package version
// byte, which carries the same value) is not one of the supported curves.
type UnsupportedCurveError struct {
	Curve Curve
}

func (e *UnsupportedCurveError) Error() string {
	return fmt.Sprintf("unsupported curve tag %d: must be one of %s (%d) or %s (%d)",
		uint8(e.Curve), Ed25519, uint8(Ed25519), Ed448, uint8(Ed448))
}

// UnsupportedHashError is returned when a hash type tag or a two-character
// hash prefix is not part of the closed hash table.
type UnsupportedHashError struct {
	Hash   HashType
	Prefix string
}

func (e *UnsupportedHashError) Error() string {
	if e.Prefix != "" {
		return fmt.Sprintf("unsupported hash type prefix %q", e.Prefix)
	}
	return fmt.Sprintf("unsupported hash type %d", uint8(e.Hash))
}

// ExpansionError is returned when an expanded Ed448 private key fails its
// validity checks.
type ExpansionError struct {
	Reason string
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("ed448 key expansion failed: %s", e.Reason)
}

// KeyLengthError is returned when key material has a length the receiving
// operation cannot accept. Curve is zero when the operation is not tied to
// a specific curve.
type KeyLengthError struct {
	Curve  Curve
	Length int
	Want   []int
}

func (e *KeyLengthError) Error() string {
	if e.Curve != 0 {
		return fmt.Sprintf("invalid key length %d for %s: accepted lengths are %v", e.Length, e.Curve, e.Want)
	}
	return fmt.Sprintf("invalid key length %d: accepted lengths are %v", e.Length, e.Want)
}

// ChecksumError is returned when a decoded extended key carries a checksum
// that does not match the recomputed double-SHA256 digest of its payload.
type ChecksumError struct {
	Want []byte
	Got  []byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: want %s, got %s", hex.EncodeToString(e.Want), hex.EncodeToString(e.Got))
}

// VersionError is returned when a decoded extended key carries a version
// other than the expected private/public constant.
type VersionError struct {
	Want uint32
	Got  uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("version mismatch: want 0x%08x, got 0x%08x", e.Want, e.Got)
}

// PackageLengthError is returned when a decoded key package is shorter than
// the smallest well-formed package.
type PackageLengthError struct {
	Length int
	Min    int
}

func (e *PackageLengthError) Error() string {
	return fmt.Sprintf("package too short: %d bytes, need at least %d", e.Length, e.Min)
}

// MissingParameterError is returned when a required argument is nil or empty.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Name)
}
