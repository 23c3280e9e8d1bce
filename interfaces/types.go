package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NameSuffix is the two-label domain every resolvable name must end with.
const NameSuffix = "rwa-id.eth"

// ContractAddress represents an Ethereum contract address.
type ContractAddress [20]byte

// NewContractAddressFromBytes creates a new contract address from a 20-byte slice.
func NewContractAddressFromBytes(addr []byte) (ContractAddress, error) {
	if len(addr) != 20 {
		return ContractAddress{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res ContractAddress
	copy(res[:], addr)
	return res, nil
}

// NewContractAddressFromHex parses a 40-character hex address with or without the 0x prefix.
func NewContractAddressFromHex(addr string) (ContractAddress, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(addr), "0x"), "0X")
	if len(clean) != 40 {
		return ContractAddress{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContractAddress{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewContractAddressFromBytes(addrBytes)
}

// String returns the hex string representation of the contract address.
func (addr ContractAddress) String() string {
	return hex.EncodeToString(addr[:])
}

// Address returns the address as a go-ethereum common.Address.
func (addr ContractAddress) Address() common.Address {
	return common.Address(addr)
}

// ParsedName is a validated, lower-cased `label.slug.rwa-id.eth` name.
type ParsedName struct {
	Label  string
	Slug   string
	Suffix string
}

// String returns the canonical dotted form of the name.
func (n ParsedName) String() string {
	return n.Label + "." + n.Slug + "." + n.Suffix
}

// ProjectID is the registry's numeric project identifier. Zero means "not found".
type ProjectID struct {
	*big.Int
}

// NewProjectID wraps v, treating nil as the zero sentinel.
func NewProjectID(v *big.Int) ProjectID {
	if v == nil {
		v = new(big.Int)
	}
	return ProjectID{Int: v}
}

// IsZero reports whether the id is the "not found" sentinel.
func (p ProjectID) IsZero() bool {
	return p.Int == nil || p.Int.Sign() == 0
}

// String returns the decimal representation of the id.
func (p ProjectID) String() string {
	if p.Int == nil {
		return "0"
	}
	return p.Int.String()
}

// Node is the opaque 32-byte key the registry derives from (ProjectID, LabelHash).
type Node [32]byte

// Hex returns the 0x-prefixed hex encoding of the node.
func (n Node) Hex() string {
	return hexutil.Encode(n[:])
}

// SignatureLength is the size of a serialized r || s || v signature.
const SignatureLength = 65

// Signature is a 65-byte secp256k1 signature: 32 bytes r, 32 bytes s, 1 byte recovery indicator.
type Signature [SignatureLength]byte

// Hex returns the 0x-prefixed hex encoding of the signature.
func (s Signature) Hex() string {
	return hexutil.Encode(s[:])
}

// Bytes returns a copy of the signature as a byte slice.
func (s Signature) Bytes() []byte {
	return append([]byte(nil), s[:]...)
}

// Attestation binds the gateway's signing key to a (registry, node, address) triple.
type Attestation struct {
	MessageHash common.Hash
	Signature   Signature
}
