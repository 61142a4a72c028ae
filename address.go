// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// HashType identifies one of the hash functions that may participate in an
// address hash chain. The table is closed: every supported type has a fixed
// two-character prefix and digest size.
type HashType uint8

const (
	// HashSHA3256 is SHA3-256, prefix "s3". Also the fallback applied when
	// a caller supplies no hash steps.
	HashSHA3256 HashType = 1

	// HashSHA3512 is SHA3-512, prefix "s5".
	HashSHA3512 HashType = 2

	// HashBLAKE3 is BLAKE3 with a 256-bit digest, prefix "b3".
	HashBLAKE3 HashType = 3
)

// DefaultHash is applied when a caller supplies an empty hash step list.
const DefaultHash = HashSHA3256

const (
	keyTypePrefixBytes  = 2
	hashTypePrefixBytes = 2

	// minPackageBytes is the smallest well-formed package: version byte,
	// key type prefix, one hash type prefix, a 32-byte public key, and the
	// checksum.
	minPackageBytes = 1 + keyTypePrefixBytes + hashTypePrefixBytes + SeedKeyBytes + checksumBytes
)

func (h HashType) String() string {
	switch h {
	case HashSHA3256:
		return "sha3-256"
	case HashSHA3512:
		return "sha3-512"
	case HashBLAKE3:
		return "blake3"
	}
	return "unknown"
}

func (h HashType) valid() bool {
	return h == HashSHA3256 || h == HashSHA3512 || h == HashBLAKE3
}

// prefix returns the fixed two-character prefix for the hash type.
func (h HashType) prefix() string {
	switch h {
	case HashSHA3256:
		return "s3"
	case HashSHA3512:
		return "s5"
	case HashBLAKE3:
		return "b3"
	}
	return ""
}

func (h HashType) digest(b []byte) []byte {
	switch h {
	case HashSHA3256:
		d := sha3.Sum256(b)
		return d[:]
	case HashSHA3512:
		d := sha3.Sum512(b)
		return d[:]
	case HashBLAKE3:
		d := blake3.Sum256(b)
		return d[:]
	}
	return nil
}

func hashTypeForPrefix(p string) (HashType, bool) {
	switch p {
	case "s3":
		return HashSHA3256, true
	case "s5":
		return HashSHA3512, true
	case "b3":
		return HashBLAKE3, true
	}
	return 0, false
}

// Package holds the parsed fields of a binary key package. Valid reports
// whether the trailing checksum matched; parsing a tampered package returns
// the recovered fields with Valid set to false rather than failing, so
// tooling can inspect the damage.
type Package struct {
	Version       byte
	KeyType       Curve
	HashTypes     []HashType
	PublicKey     []byte
	Valid         bool
	DataLength    int
	PackageLength int
}

// HashChain applies the hash steps to the public key from the last element
// (innermost) to the first (outermost):
//
//	result = steps[0](steps[1](... steps[n-1](publicKey) ...))
//
// The right-to-left order mirrors how the prefixes read in identifiers and
// is part of the contract. An empty step list applies DefaultHash once.
func HashChain(publicKey []byte, steps []HashType) ([]byte, error) {
	if len(publicKey) == 0 {
		return nil, &MissingParameterError{Name: "publicKey"}
	}
	if len(steps) == 0 {
		steps = []HashType{DefaultHash}
	}
	out := clone(publicKey)
	for i := len(steps) - 1; i >= 0; i-- {
		if !steps[i].valid() {
			return nil, &UnsupportedHashError{Hash: steps[i]}
		}
		out = steps[i].digest(out)
	}
	return out, nil
}

// Address derives the short textual address for a public key: the Base58
// encoding of the hash chain digest. There is no version byte and no
// checksum; the address is the encoded digest.
func Address(publicKey []byte, keyType Curve, steps []HashType) (string, error) {
	if err := checkPublicKey(publicKey, keyType); err != nil {
		return "", err
	}
	digest, err := HashChain(publicKey, steps)
	if err != nil {
		return "", err
	}
	return base58.Encode(digest), nil
}

// PublicKeyID renders a self-describing textual identifier for a public
// key: the key type prefix, the hash type prefixes in the given (not
// reversed) order, and the Base58-encoded key, joined by underscores.
func PublicKeyID(publicKey []byte, keyType Curve, steps []HashType) (string, error) {
	if err := checkPublicKey(publicKey, keyType); err != nil {
		return "", err
	}
	if len(steps) == 0 {
		steps = []HashType{DefaultHash}
	}
	var sb strings.Builder
	sb.WriteString(keyType.keyTypePrefix())
	sb.WriteByte('_')
	for _, h := range steps {
		if !h.valid() {
			return "", &UnsupportedHashError{Hash: h}
		}
		sb.WriteString(h.prefix())
	}
	sb.WriteByte('_')
	sb.WriteString(base58.Encode(publicKey))
	return sb.String(), nil
}

// EncodePackage packs the curve version byte, the key type prefix, the hash
// type prefixes in the given order, the raw public key, and a double-SHA256
// checksum into a Base58-encoded binary package.
func EncodePackage(publicKey []byte, keyType Curve, steps []HashType) (string, error) {
	if err := checkPublicKey(publicKey, keyType); err != nil {
		return "", err
	}
	if len(steps) == 0 {
		steps = []HashType{DefaultHash}
	}
	payload := make([]byte, 0, 1+keyTypePrefixBytes+len(steps)*hashTypePrefixBytes+len(publicKey)+checksumBytes)
	payload = append(payload, keyType.versionByte())
	payload = append(payload, keyType.keyTypePrefix()...)
	for _, h := range steps {
		if !h.valid() {
			return "", &UnsupportedHashError{Hash: h}
		}
		payload = append(payload, h.prefix()...)
	}
	payload = append(payload, publicKey...)
	return base58.Encode(appendChecksum(payload)), nil
}

// ParsePackage decodes a binary key package and reconstructs its fields.
// A checksum mismatch sets Valid to false on the result instead of failing;
// structural problems (too short, unknown version byte or prefixes) are
// hard errors.
func ParsePackage(text string) (*Package, error) {
	if text == "" {
		return nil, &MissingParameterError{Name: "package"}
	}
	raw, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("could not decode package: %w", err)
	}
	if len(raw) < minPackageBytes {
		return nil, &PackageLengthError{Length: len(raw), Min: minPackageBytes}
	}

	payload, checksum := raw[:len(raw)-checksumBytes], raw[len(raw)-checksumBytes:]
	want := doubleSHA256(payload)
	valid := equal(checksum, want[:checksumBytes])

	keyType, err := curveForVersionByte(payload[0])
	if err != nil {
		return nil, err
	}
	ktPrefix := string(payload[1 : 1+keyTypePrefixBytes])
	if ktPrefix != keyType.keyTypePrefix() {
		return nil, fmt.Errorf("package key type prefix %q does not match version byte 0x%02x (%s)", ktPrefix, payload[0], keyType)
	}

	keyLen := keyType.PublicKeySize()
	rest := payload[1+keyTypePrefixBytes:]
	if len(rest) < keyLen {
		return nil, &PackageLengthError{Length: len(raw), Min: 1 + keyTypePrefixBytes + keyLen + checksumBytes}
	}
	prefixes := rest[:len(rest)-keyLen]
	if len(prefixes)%hashTypePrefixBytes != 0 {
		return nil, &UnsupportedHashError{Prefix: string(prefixes)}
	}

	hashTypes := make([]HashType, 0, len(prefixes)/hashTypePrefixBytes)
	for i := 0; i < len(prefixes); i += hashTypePrefixBytes {
		p := string(prefixes[i : i+hashTypePrefixBytes])
		h, ok := hashTypeForPrefix(p)
		if !ok {
			return nil, &UnsupportedHashError{Prefix: p}
		}
		hashTypes = append(hashTypes, h)
	}

	return &Package{
		Version:       payload[0],
		KeyType:       keyType,
		HashTypes:     hashTypes,
		PublicKey:     clone(rest[len(rest)-keyLen:]),
		Valid:         valid,
		DataLength:    len(payload),
		PackageLength: len(raw),
	}, nil
}

// checkPublicKey validates the curve tag and that the key has the curve's
// native public key size.
func checkPublicKey(publicKey []byte, keyType Curve) error {
	if !keyType.valid() {
		return &UnsupportedCurveError{Curve: keyType}
	}
	if len(publicKey) == 0 {
		return &MissingParameterError{Name: "publicKey"}
	}
	if len(publicKey) != keyType.PublicKeySize() {
		return &KeyLengthError{Curve: keyType, Length: len(publicKey), Want: []int{keyType.PublicKeySize()}}
	}
	return nil
}
