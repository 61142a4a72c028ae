// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package edkeys derives hierarchical-deterministic key material for the
// Ed25519 and Ed448 curves and encodes the resulting keys into textual
// network identifiers.
//
// Derivation is hardened-only: every child index has its hardened bit
// forced on before it enters the HMAC, so public-key-only subtree
// compromise is impossible by construction. A master node is computed from
// a 16-64 byte seed (typically a BIP39 mnemonic seed) and walked down paths
// of the form m/44'/1110'/account'/change'/index'.
//
// Derived nodes can be serialized three ways: as checksummed extended keys
// (private or public, carrying chain code and lineage), as short Base58
// addresses produced by a caller-ordered chain of hash functions, and as
// self-describing binary key packages that embed the curve, key type, and
// hash type prefixes alongside the raw public key.
//
// All operations are pure, synchronous computations over caller-owned
// buffers; concurrent use needs no coordination. Private key and seed
// buffers should be zeroed with Wipe once they are no longer needed.
package edkeys

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// mnemonicEntropyBits maps a BIP39 word count to its entropy size in bits.
var mnemonicEntropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// NewMnemonic generates a fresh BIP39 mnemonic of the given word count
// (12, 15, 18, 21, or 24) from the secure random source.
func NewMnemonic(wordCount int) (string, error) {
	bits, ok := mnemonicEntropyBits[wordCount]
	if !ok {
		return "", fmt.Errorf("invalid word count: %d (must be 12, 15, 18, 21, or 24)", wordCount)
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("could not generate entropy: %w", err)
	}
	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("could not create a mnemonic set of words: %w", err)
	}
	return words, nil
}

// SeedFromMnemonic stretches a BIP39 mnemonic and optional passphrase into
// a 64-byte seed. The mnemonic is validated against the active word list.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	return seed, nil
}

// MasterFromMnemonic is a convenience composition of SeedFromMnemonic and
// MasterFromSeed. The intermediate seed is wiped before returning.
func MasterFromMnemonic(mnemonic, passphrase string, curve Curve) (*Node, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	node, err := MasterFromSeed(seed, curve)
	Wipe(seed)
	return node, err
}
