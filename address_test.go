// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// fortyTwoKey is the 32-byte public key used by the pinned codec vectors.
var fortyTwoKey = bytes.Repeat([]byte{0x42}, 32)

// TestHashChain_Order verifies the right-to-left application contract: for
// steps [X, Y] the result is X(Y(publicKey)), never Y(X(publicKey)).
func TestHashChain_Order(t *testing.T) {
	is := is.New(t)

	pub := make([]byte, 32)
	_, err := rand.Read(pub)
	is.NoErr(err)

	inner := sha3.Sum256(pub)
	outer := sha3.Sum512(inner[:])
	got, err := HashChain(pub, []HashType{HashSHA3512, HashSHA3256})
	is.NoErr(err)
	is.True(bytes.Equal(got, outer[:]))

	// The reversed order must give a different digest.
	swapped, err := HashChain(pub, []HashType{HashSHA3256, HashSHA3512})
	is.NoErr(err)
	is.True(!bytes.Equal(swapped, got))

	b3Inner := blake3.Sum256(pub)
	b3Outer := sha3.Sum256(b3Inner[:])
	got, err = HashChain(pub, []HashType{HashSHA3256, HashBLAKE3})
	is.NoErr(err)
	is.True(bytes.Equal(got, b3Outer[:]))
}

// TestHashChain_Default applies the fallback hash when no steps are given.
func TestHashChain_Default(t *testing.T) {
	is := is.New(t)

	want := sha3.Sum256(fortyTwoKey)
	got, err := HashChain(fortyTwoKey, nil)
	is.NoErr(err)
	is.True(bytes.Equal(got, want[:]))

	_, err = HashChain(nil, []HashType{HashSHA3256})
	var missingErr *MissingParameterError
	is.True(errors.As(err, &missingErr))

	_, err = HashChain(fortyTwoKey, []HashType{HashType(9)})
	var hashErr *UnsupportedHashError
	is.True(errors.As(err, &hashErr))
}

// TestAddress_PinnedVectors pins addresses for the 0x42 key: a single
// SHA3-256 step and a chained [SHA3-512, SHA3-256] pair.
func TestAddress_PinnedVectors(t *testing.T) {
	is := is.New(t)

	addr, err := Address(fortyTwoKey, Ed25519, []HashType{HashSHA3256})
	is.NoErr(err)
	is.Equal(addr, "GXZpqxHZ1qY3SEg3xhV5VkNcD3rYQWgtn7eiMzNnBETH")

	addr, err = Address(fortyTwoKey, Ed25519, []HashType{HashSHA3512, HashSHA3256})
	is.NoErr(err)
	is.Equal(addr, "2K56gDpR1rLSPHkmCySWCABcNg1DqYuu5HxKykwz75WrQTAAQKeJgG5QiLJBkUQGYyYBdjeQos4ZwhPpHte4vsn8")
}

// TestAddress_Validation rejects bad curve tags and key lengths.
func TestAddress_Validation(t *testing.T) {
	is := is.New(t)

	_, err := Address(fortyTwoKey, Curve(7), nil)
	var curveErr *UnsupportedCurveError
	is.True(errors.As(err, &curveErr))

	_, err = Address(fortyTwoKey, Ed448, nil) // 32-byte key on a 57-byte curve
	var lenErr *KeyLengthError
	is.True(errors.As(err, &lenErr))
	is.Equal(lenErr.Length, 32)

	_, err = Address(nil, Ed25519, nil)
	var missingErr *MissingParameterError
	is.True(errors.As(err, &missingErr))
}

// TestPublicKeyID verifies the identifier layout: key type prefix, hash
// prefixes in the given (not reversed) order, Base58 key, underscores.
func TestPublicKeyID(t *testing.T) {
	is := is.New(t)

	id, err := PublicKeyID(fortyTwoKey, Ed25519, []HashType{HashBLAKE3})
	is.NoErr(err)
	is.Equal(id, "ed_b3_5TeWSsjg2gbxCyWVniXeCmwM7UtHTCK7svzJr5xYJzHf")

	id, err = PublicKeyID(fortyTwoKey, Ed25519, []HashType{HashSHA3256, HashBLAKE3})
	is.NoErr(err)
	is.Equal(id, "ed_s3b3_"+base58.Encode(fortyTwoKey))

	// Default hash applies when no steps are given.
	id, err = PublicKeyID(fortyTwoKey, Ed25519, nil)
	is.NoErr(err)
	is.Equal(id, "ed_s3_"+base58.Encode(fortyTwoKey))

	kp, err := GenerateKeyPair(Ed448)
	is.NoErr(err)
	id, err = PublicKeyID(kp.PublicKey(), Ed448, []HashType{HashSHA3512})
	is.NoErr(err)
	is.Equal(id, "eg_s5_"+base58.Encode(kp.PublicKey()))
}

// TestEncodePackage_PinnedVector pins the package for the 0x42 key with a
// single BLAKE3 step: 37 payload bytes plus a 4-byte checksum.
func TestEncodePackage_PinnedVector(t *testing.T) {
	is := is.New(t)

	pkg, err := EncodePackage(fortyTwoKey, Ed25519, []HashType{HashBLAKE3})
	is.NoErr(err)
	is.Equal(pkg, "JkxdJUtr2MdgnsfHVPRP324zXgkS7W4foEGfowDmtaWcpTWVFN7WipE")

	parsed, err := ParsePackage(pkg)
	is.NoErr(err)
	is.Equal(parsed.DataLength, 37)
	is.Equal(parsed.PackageLength, 41)
	is.Equal(parsed.Version, byte(0x01))
	is.Equal(parsed.KeyType, Ed25519)
	is.Equal(parsed.HashTypes, []HashType{HashBLAKE3})
	is.True(bytes.Equal(parsed.PublicKey, fortyTwoKey))
	is.True(parsed.Valid)
}

// TestPackageRoundTrip covers both curves and all hash types, single and
// chained, and checks every field survives the round trip.
func TestPackageRoundTrip(t *testing.T) {
	is := is.New(t)

	stepLists := [][]HashType{
		{HashSHA3256},
		{HashSHA3512},
		{HashBLAKE3},
		{HashBLAKE3, HashSHA3256},
		{HashSHA3512, HashBLAKE3, HashSHA3256},
	}

	for _, curve := range []Curve{Ed25519, Ed448} {
		kp, err := GenerateKeyPair(curve)
		is.NoErr(err)
		pub := kp.PublicKey()

		for _, steps := range stepLists {
			pkg, err := EncodePackage(pub, curve, steps)
			is.NoErr(err)

			parsed, err := ParsePackage(pkg)
			is.NoErr(err)
			is.True(parsed.Valid)
			is.Equal(parsed.KeyType, curve)
			is.Equal(parsed.Version, curve.versionByte())
			is.Equal(parsed.HashTypes, steps)
			is.True(bytes.Equal(parsed.PublicKey, pub))
			is.Equal(parsed.DataLength, 3+2*len(steps)+len(pub))
			is.Equal(parsed.PackageLength, parsed.DataLength+4)
		}
	}
}

// TestParsePackage_Tampered verifies that a checksum mismatch is reported
// through the Valid flag rather than an error, so tooling can inspect the
// damaged package.
func TestParsePackage_Tampered(t *testing.T) {
	is := is.New(t)

	pkg, err := EncodePackage(fortyTwoKey, Ed25519, []HashType{HashBLAKE3})
	is.NoErr(err)

	tampered := pkg[:len(pkg)-1] + "F" // pinned vector ends in 'E'
	parsed, err := ParsePackage(tampered)
	is.NoErr(err)
	is.True(!parsed.Valid)
	is.Equal(parsed.KeyType, Ed25519) // fields still recovered
	is.True(bytes.Equal(parsed.PublicKey, fortyTwoKey))
}

// TestParsePackage_Structural rejects packages that are too short or carry
// unknown version bytes and prefixes.
func TestParsePackage_Structural(t *testing.T) {
	is := is.New(t)

	_, err := ParsePackage("")
	var missingErr *MissingParameterError
	is.True(errors.As(err, &missingErr))

	_, err = ParsePackage(base58.Encode(make([]byte, 10)))
	var lenErr *PackageLengthError
	is.True(errors.As(err, &lenErr))
	is.Equal(lenErr.Min, 41)

	// Unknown version byte, correct checksum.
	payload := append([]byte{0x07}, []byte("ed")...)
	payload = append(payload, []byte("b3")...)
	payload = append(payload, fortyTwoKey...)
	_, err = ParsePackage(base58.Encode(appendChecksum(payload)))
	var curveErr *UnsupportedCurveError
	is.True(errors.As(err, &curveErr))

	// Unknown hash type prefix.
	payload = append([]byte{0x01}, []byte("ed")...)
	payload = append(payload, []byte("zz")...)
	payload = append(payload, fortyTwoKey...)
	_, err = ParsePackage(base58.Encode(appendChecksum(payload)))
	var hashErr *UnsupportedHashError
	is.True(errors.As(err, &hashErr))
	is.Equal(hashErr.Prefix, "zz")
}

// TestAddressAndPackage_FromDerivedNode exercises the full pipeline: seed
// to node to key pair to address, identifier, and package.
func TestAddressAndPackage_FromDerivedNode(t *testing.T) {
	is := is.New(t)

	master, err := MasterFromSeed(zeroSeed, Ed448)
	is.NoErr(err)
	node, err := master.DerivePath("m/44'/1110'/0'/0'/0'")
	is.NoErr(err)

	pub, err := node.PublicKey()
	is.NoErr(err)

	addr, err := Address(pub, Ed448, []HashType{HashBLAKE3})
	is.NoErr(err)
	want := blake3.Sum256(pub)
	is.Equal(addr, base58.Encode(want[:]))

	pkg, err := EncodePackage(pub, Ed448, []HashType{HashSHA3256, HashBLAKE3})
	is.NoErr(err)
	parsed, err := ParsePackage(pkg)
	is.NoErr(err)
	is.True(parsed.Valid)
	is.Equal(parsed.KeyType, Ed448)
	is.True(bytes.Equal(parsed.PublicKey, pub))
	is.Equal(parsed.HashTypes, []HashType{HashSHA3256, HashBLAKE3})
}
