package cryptoutils

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/rwa-id-gateway/interfaces"
)

var (
	// ErrInvalidSignature is returned when a signature does not recover to the expected signer.
	ErrInvalidSignature = errors.New("invalid attestation signature")

	// ErrMessageHashMismatch is returned when an attestation's hash does not match the triple it claims to cover.
	ErrMessageHashMismatch = errors.New("attestation message hash mismatch")
)

// SignatureFormat selects the recovery indicator convention of serialized signatures.
type SignatureFormat struct {
	StringID string
	VOffset  byte
}

var (
	// EthereumSignature serializes v as 27 or 28, the form ecrecover expects.
	EthereumSignature = SignatureFormat{StringID: "eth", VOffset: 27}

	// RawSignature serializes v as 0 or 1.
	RawSignature = SignatureFormat{StringID: "raw", VOffset: 0}
)

// SignatureFormatFromString returns the format registered under str.
func SignatureFormatFromString(str string) (SignatureFormat, error) {
	switch str {
	case EthereumSignature.StringID:
		return EthereumSignature, nil
	case RawSignature.StringID:
		return RawSignature, nil
	default:
		return SignatureFormat{}, fmt.Errorf("unsupported signature format %q", str)
	}
}

// AttestationMessageHash returns keccak256(registry || node || resolved) over the
// packed, unpadded 20 + 32 + 20 bytes. On-chain verifiers recompute exactly this digest.
func AttestationMessageHash(registry common.Address, node interfaces.Node, resolved common.Address) common.Hash {
	return crypto.Keccak256Hash(registry.Bytes(), node[:], resolved.Bytes())
}

// AttestationSigner signs attestation digests with a secp256k1 key held in memory.
// It is immutable after construction and safe for concurrent use.
type AttestationSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	format  SignatureFormat
}

// NewAttestationSigner creates a signer for key serializing signatures in format.
func NewAttestationSigner(key *ecdsa.PrivateKey, format SignatureFormat) (*AttestationSigner, error) {
	if key == nil {
		return nil, errors.New("signing key is required")
	}

	return &AttestationSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		format:  format,
	}, nil
}

// NewAttestationSignerFromHex parses a hex private key, with or without the 0x prefix.
// The returned error never includes the key material.
func NewAttestationSignerFromHex(hexKey string, format SignatureFormat) (*AttestationSigner, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"), "0X")
	key, err := crypto.HexToECDSA(clean)
	if err != nil {
		return nil, errors.New("could not parse signer private key")
	}
	return NewAttestationSigner(key, format)
}

// Address returns the Ethereum address of the signing key.
func (s *AttestationSigner) Address() common.Address {
	return s.address
}

// Format returns the signature serialization in use.
func (s *AttestationSigner) Format() SignatureFormat {
	return s.format
}

// Sign computes the attestation message hash for the triple and signs it
// deterministically (RFC 6979). The digest is signed as-is, without the
// personal_sign prefix.
func (s *AttestationSigner) Sign(registry common.Address, node interfaces.Node, resolved common.Address) (interfaces.Attestation, error) {
	messageHash := AttestationMessageHash(registry, node, resolved)

	sig, err := crypto.Sign(messageHash[:], s.key)
	if err != nil {
		return interfaces.Attestation{}, fmt.Errorf("could not sign attestation: %w", err)
	}

	var signature interfaces.Signature
	copy(signature[:], sig)
	signature[64] += s.format.VOffset

	return interfaces.Attestation{MessageHash: messageHash, Signature: signature}, nil
}

// RecoverSigner returns the address that produced signature over messageHash.
// Both recovery indicator conventions are accepted.
func RecoverSigner(messageHash common.Hash, signature interfaces.Signature) (common.Address, error) {
	sig := signature.Bytes()
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery indicator %d", ErrInvalidSignature, signature[64])
	}

	pubkey, err := crypto.SigToPub(messageHash[:], sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}

// VerifyAttestation checks that att covers (registry, node, resolved) and was signed by signer.
func VerifyAttestation(att interfaces.Attestation, registry common.Address, node interfaces.Node, resolved common.Address, signer common.Address) error {
	if expected := AttestationMessageHash(registry, node, resolved); expected != att.MessageHash {
		return fmt.Errorf("%w: got %s, expected %s", ErrMessageHashMismatch, att.MessageHash.Hex(), expected.Hex())
	}

	recovered, err := RecoverSigner(att.MessageHash, att.Signature)
	if err != nil {
		return err
	}
	if recovered != signer {
		return fmt.Errorf("%w: recovered %s, expected %s", ErrInvalidSignature, recovered.Hex(), signer.Hex())
	}
	return nil
}
