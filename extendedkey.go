// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// Extended key serialization layout (all integers big-endian):
//
//	version:4 | depth:1 | parentFingerprint:4 | index:4 | chainCode:32 | key | checksum:4
//
// where key is 0x00 plus the 32-byte private key for private records, or
// the curve-native public key (32 or 57 bytes) for public records, and the
// checksum is the first four bytes of SHA256(SHA256(payload)).
const (
	// VersionExtendedPrivate and VersionExtendedPublic distinguish the two
	// serialized forms.
	VersionExtendedPrivate uint32 = 0x0488ADE4
	VersionExtendedPublic  uint32 = 0x0488B21E

	extendedHeaderBytes  = 4 + 1 + 4 + 4 + chainCodeBytes // version through chain code
	extendedPrivateBytes = extendedHeaderBytes + 1 + SeedKeyBytes + checksumBytes
	extendedPublicMin    = extendedHeaderBytes + SeedKeyBytes + checksumBytes
	extendedPublicMax    = extendedHeaderBytes + Ed448KeyBytes + checksumBytes
	checksumBytes        = 4
)

// ExtendedKey is the decoded form of a serialized extended key. For public
// records Curve is inferred from the key length; private records do not
// carry a curve tag, so Curve is zero there.
type ExtendedKey struct {
	Version           uint32
	Depth             uint8
	ParentFingerprint uint32
	Index             uint32
	ChainCode         []byte
	Key               []byte
	Curve             Curve
}

// EncodePrivate serializes the node's private key, chain code, and lineage
// metadata into a checksummed, Base58-encoded extended private key.
func EncodePrivate(n *Node) (string, error) {
	if n == nil {
		return "", &MissingParameterError{Name: "node"}
	}
	payload := make([]byte, 0, extendedPrivateBytes)
	payload = appendExtendedHeader(payload, VersionExtendedPrivate, n)
	payload = append(payload, 0x00)
	payload = append(payload, n.privateKey...)
	return base58.Encode(appendChecksum(payload)), nil
}

// EncodePublic serializes the public projection of the node: same header as
// the private form, with the curve-native public key in place of the padded
// private key.
func EncodePublic(n *Node) (string, error) {
	if n == nil {
		return "", &MissingParameterError{Name: "node"}
	}
	pub, err := n.PublicKey()
	if err != nil {
		return "", err
	}
	payload := make([]byte, 0, extendedHeaderBytes+len(pub)+checksumBytes)
	payload = appendExtendedHeader(payload, VersionExtendedPublic, n)
	payload = append(payload, pub...)
	return base58.Encode(appendChecksum(payload)), nil
}

func appendExtendedHeader(payload []byte, version uint32, n *Node) []byte {
	payload = appendUint32(payload, version)
	payload = append(payload, n.depth)
	payload = appendUint32(payload, n.parentFingerprint)
	payload = appendUint32(payload, n.index)
	payload = append(payload, n.chainCode...)
	return payload
}

// DecodePrivate decodes an extended private key. The checksum is verified
// before anything else; extended keys carry private material, so a mismatch
// is a hard ChecksumError rather than a soft flag.
func DecodePrivate(text string) (*ExtendedKey, error) {
	payload, err := decodeChecked(text, extendedPrivateBytes, extendedPrivateBytes)
	if err != nil {
		return nil, err
	}
	if version := readUint32(payload[:4]); version != VersionExtendedPrivate {
		return nil, &VersionError{Want: VersionExtendedPrivate, Got: version}
	}
	if payload[extendedHeaderBytes] != 0x00 {
		return nil, fmt.Errorf("invalid extended private key: missing zero padding byte")
	}
	rec := parseExtendedHeader(payload)
	rec.Key = clone(payload[extendedHeaderBytes+1:])
	return rec, nil
}

// DecodePublic decodes an extended public key. The curve is recovered from
// the public key length.
func DecodePublic(text string) (*ExtendedKey, error) {
	payload, err := decodeChecked(text, extendedPublicMin, extendedPublicMax)
	if err != nil {
		return nil, err
	}
	if version := readUint32(payload[:4]); version != VersionExtendedPublic {
		return nil, &VersionError{Want: VersionExtendedPublic, Got: version}
	}
	rec := parseExtendedHeader(payload)
	rec.Key = clone(payload[extendedHeaderBytes:])
	switch len(rec.Key) {
	case Ed25519.PublicKeySize():
		rec.Curve = Ed25519
	case Ed448.PublicKeySize():
		rec.Curve = Ed448
	default:
		return nil, &KeyLengthError{Length: len(rec.Key), Want: []int{Ed25519.PublicKeySize(), Ed448.PublicKeySize()}}
	}
	return rec, nil
}

// decodeChecked Base58-decodes text, bounds-checks the raw length, verifies
// the trailing checksum, and returns the payload without it.
func decodeChecked(text string, minBytes, maxBytes int) ([]byte, error) {
	if text == "" {
		return nil, &MissingParameterError{Name: "extendedKey"}
	}
	raw, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("could not decode extended key: %w", err)
	}
	if len(raw) < minBytes || len(raw) > maxBytes {
		return nil, &KeyLengthError{Length: len(raw), Want: []int{minBytes, maxBytes}}
	}
	payload, checksum := raw[:len(raw)-checksumBytes], raw[len(raw)-checksumBytes:]
	want := doubleSHA256(payload)
	if !equal(checksum, want[:checksumBytes]) {
		return nil, &ChecksumError{Want: want[:checksumBytes], Got: checksum}
	}
	return payload, nil
}

func parseExtendedHeader(payload []byte) *ExtendedKey {
	return &ExtendedKey{
		Version:           readUint32(payload[:4]),
		Depth:             payload[4],
		ParentFingerprint: readUint32(payload[5:9]),
		Index:             readUint32(payload[9:13]),
		ChainCode:         clone(payload[13 : 13+chainCodeBytes]),
	}
}

func doubleSHA256(b []byte) [sha256.Size]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

func appendChecksum(payload []byte) []byte {
	sum := doubleSHA256(payload)
	return concat(payload, sum[:checksumBytes])
}
