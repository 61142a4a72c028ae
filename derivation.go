// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package edkeys

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // fingerprint format requires RIPEMD-160
)

const (
	// seedModifier keys the HMAC that turns a seed into the master node.
	seedModifier = "edkeys seed"

	// MinSeedBytes and MaxSeedBytes bound the accepted master seed length.
	MinSeedBytes = 16
	MaxSeedBytes = 64

	// HardenedOffset is added to a raw index to set its hardened bit. The
	// derivation engine is hardened-only and forces this bit on every index.
	HardenedOffset uint32 = 0x80000000

	// PurposeBIP44 is the required first path component.
	PurposeBIP44 uint32 = 44

	// CoinType is the network's registered coin type, the required second
	// path component.
	CoinType uint32 = 1110

	chainCodeBytes = 32
	maxDepth       = 255
)

// pathPattern matches well-formed hardened derivation paths, e.g.
// m/44'/1110'/0'/0'/0'.
var pathPattern = regexp.MustCompile(`^m(/\d+')+$`)

// Node is a single point in the hardened derivation tree: a private key
// seed, its chain code, and the lineage metadata needed to serialize it as
// an extended key. Nodes are immutable; Derive returns a new Node and never
// mutates its parent. Callers own the key material and should call Wipe
// once it is no longer needed.
type Node struct {
	privateKey        []byte
	chainCode         []byte
	depth             uint8
	index             uint32
	parentFingerprint uint32
	curve             Curve
	path              string
}

// MasterFromSeed computes the master node for a seed: the HMAC-SHA512 of
// the seed under the fixed network key, split into private key and chain
// code. Seeds must be between MinSeedBytes and MaxSeedBytes long.
func MasterFromSeed(seed []byte, curve Curve) (*Node, error) {
	if !curve.valid() {
		return nil, &UnsupportedCurveError{Curve: curve}
	}
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, &SeedLengthError{Length: len(seed), Min: MinSeedBytes, Max: MaxSeedBytes}
	}

	mac := hmac.New(sha512.New, []byte(seedModifier))
	mac.Write(seed)
	sum := mac.Sum(nil)

	return &Node{
		privateKey: sum[:SeedKeyBytes],
		chainCode:  sum[SeedKeyBytes:],
		curve:      curve,
		path:       "m",
	}, nil
}

// Derive computes the hardened child of n at the given index. Indexes below
// HardenedOffset have the hardened bit forced on before entering the HMAC,
// so passing a raw index and passing the same index with the bit pre-set
// yield identical children. The child's path component always shows the
// caller-supplied index with a trailing hardening marker.
func (n *Node) Derive(index uint32) (*Node, error) {
	if n.depth >= maxDepth {
		return nil, &PathError{Path: n.path, Reason: "maximum derivation depth (255) exceeded"}
	}

	hardened := index
	if hardened < HardenedOffset {
		hardened += HardenedOffset
	}

	parentFP, err := n.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("could not fingerprint parent: %w", err)
	}

	data := make([]byte, 0, 1+SeedKeyBytes+4)
	data = append(data, 0x00)
	data = append(data, n.privateKey...)
	data = appendUint32(data, hardened)

	mac := hmac.New(sha512.New, n.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	Wipe(data)

	return &Node{
		privateKey:        sum[:SeedKeyBytes],
		chainCode:         sum[SeedKeyBytes:],
		depth:             n.depth + 1,
		index:             hardened,
		parentFingerprint: parentFP,
		curve:             n.curve,
		path:              fmt.Sprintf("%s/%d'", n.path, index),
	}, nil
}

// DerivePath walks a full hardened path from n. The path must match
// m/i'/j'/..., every component must carry the hardening marker, the first
// component must be the BIP44 purpose (44) and the second the network coin
// type (1110).
func (n *Node) DerivePath(path string) (*Node, error) {
	if !pathPattern.MatchString(path) {
		return nil, &PathError{Path: path, Reason: "must match m/i'/j'/... with every component hardened"}
	}

	node := n
	components := strings.Split(path, "/")[1:]
	for i, component := range components {
		raw, err := strconv.ParseUint(strings.TrimSuffix(component, "'"), 10, 32)
		if err != nil {
			return nil, &PathError{Path: path, Reason: fmt.Sprintf("component %q is not a 32-bit index", component)}
		}
		if i == 0 && uint32(raw) != PurposeBIP44 {
			return nil, &PathError{Path: path, Reason: fmt.Sprintf("purpose must be %d', got %d'", PurposeBIP44, raw)}
		}
		if i == 1 && uint32(raw) != CoinType {
			return nil, &PathError{Path: path, Reason: fmt.Sprintf("coin type must be %d', got %d'", CoinType, raw)}
		}
		node, err = node.Derive(uint32(raw))
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// PublicKey computes the curve public key for this node's private key.
func (n *Node) PublicKey() ([]byte, error) {
	return publicKeyFromSeed(n.curve, n.privateKey)
}

// Fingerprint returns the first four bytes of RIPEMD160(SHA256(publicKey)),
// read big-endian. Children reference their parent by this value.
func (n *Node) Fingerprint() (uint32, error) {
	pub, err := n.PublicKey()
	if err != nil {
		return 0, err
	}
	return fingerprint(pub), nil
}

func fingerprint(publicKey []byte) uint32 {
	sha := sha256.Sum256(publicKey)
	rip := ripemd160.New()
	rip.Write(sha[:])
	return readUint32(rip.Sum(nil)[:4])
}

// KeyPair builds a signing key pair from this node's private key seed.
func (n *Node) KeyPair() (*KeyPair, error) {
	return NewKeyPair(n.curve, n.privateKey)
}

// PrivateKey returns a copy of the node's 32-byte private key seed.
func (n *Node) PrivateKey() []byte {
	return clone(n.privateKey)
}

// ChainCode returns a copy of the node's 32-byte chain code.
func (n *Node) ChainCode() []byte {
	return clone(n.chainCode)
}

// Depth returns how many derivation steps separate this node from the
// master node.
func (n *Node) Depth() uint8 {
	return n.depth
}

// Index returns the node's child index with the hardened bit set, or 0 for
// the master node.
func (n *Node) Index() uint32 {
	return n.index
}

// ParentFingerprint returns the fingerprint of the node's parent, or 0 for
// the master node.
func (n *Node) ParentFingerprint() uint32 {
	return n.parentFingerprint
}

// Curve returns the curve tag the node was derived for.
func (n *Node) Curve() Curve {
	return n.curve
}

// Path returns the derivation path of the node, e.g. m/44'/1110'/0'/0'/0'.
func (n *Node) Path() string {
	return n.path
}

// Wipe zeroes the node's private key and chain code. The node must not be
// used for derivation or encoding afterwards.
func (n *Node) Wipe() {
	Wipe(n.privateKey)
	Wipe(n.chainCode)
}
