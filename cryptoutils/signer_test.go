package cryptoutils

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var (
	testRegistry = common.HexToAddress("0xD0B565C7134bDB16Fc3b8A9Cb5fdA003C37930c2")
	testNode     = interfaces.Node(common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"))
	testResolved = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
)

func TestAttestationMessageHash_Packed(t *testing.T) {
	packed := make([]byte, 0, 72)
	packed = append(packed, testRegistry.Bytes()...)
	packed = append(packed, testNode[:]...)
	packed = append(packed, testResolved.Bytes()...)
	require.Len(t, packed, 72)

	assert.Equal(t, crypto.Keccak256Hash(packed), AttestationMessageHash(testRegistry, testNode, testResolved))

	// Field order is significant.
	assert.NotEqual(t,
		AttestationMessageHash(testRegistry, testNode, testResolved),
		AttestationMessageHash(testResolved, testNode, testRegistry))
}

func TestNewAttestationSignerFromHex(t *testing.T) {
	signer, err := NewAttestationSignerFromHex(testKeyHex, EthereumSignature)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"), signer.Address())

	unprefixed, err := NewAttestationSignerFromHex(testKeyHex[2:]+"\n", EthereumSignature)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), unprefixed.Address())

	_, err = NewAttestationSignerFromHex("0xnotakey", EthereumSignature)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "notakey")

	_, err = NewAttestationSigner(nil, EthereumSignature)
	require.Error(t, err)
}

func TestAttestationSigner_Deterministic(t *testing.T) {
	signer, err := NewAttestationSignerFromHex(testKeyHex, EthereumSignature)
	require.NoError(t, err)

	first, err := signer.Sign(testRegistry, testNode, testResolved)
	require.NoError(t, err)
	second, err := signer.Sign(testRegistry, testNode, testResolved)
	require.NoError(t, err)

	assert.Equal(t, first.MessageHash, second.MessageHash)
	assert.Equal(t, first.Signature, second.Signature)
	assert.Equal(t, AttestationMessageHash(testRegistry, testNode, testResolved), first.MessageHash)
}

func TestAttestationSigner_Formats(t *testing.T) {
	ethSigner, err := NewAttestationSignerFromHex(testKeyHex, EthereumSignature)
	require.NoError(t, err)
	rawSigner, err := NewAttestationSignerFromHex(testKeyHex, RawSignature)
	require.NoError(t, err)

	ethAtt, err := ethSigner.Sign(testRegistry, testNode, testResolved)
	require.NoError(t, err)
	rawAtt, err := rawSigner.Sign(testRegistry, testNode, testResolved)
	require.NoError(t, err)

	assert.Contains(t, []byte{27, 28}, ethAtt.Signature[64])
	assert.Contains(t, []byte{0, 1}, rawAtt.Signature[64])
	assert.Equal(t, ethAtt.Signature[:64], rawAtt.Signature[:64])
	assert.Equal(t, ethAtt.Signature[64]-27, rawAtt.Signature[64])

	for _, att := range []interfaces.Attestation{ethAtt, rawAtt} {
		recovered, err := RecoverSigner(att.MessageHash, att.Signature)
		require.NoError(t, err)
		assert.Equal(t, ethSigner.Address(), recovered)
	}
}

func TestSignatureFormatFromString(t *testing.T) {
	format, err := SignatureFormatFromString("eth")
	require.NoError(t, err)
	assert.Equal(t, EthereumSignature, format)

	format, err = SignatureFormatFromString("raw")
	require.NoError(t, err)
	assert.Equal(t, RawSignature, format)

	_, err = SignatureFormatFromString("der")
	require.Error(t, err)
}

func TestVerifyAttestation(t *testing.T) {
	signer, err := NewAttestationSignerFromHex(testKeyHex, EthereumSignature)
	require.NoError(t, err)

	att, err := signer.Sign(testRegistry, testNode, testResolved)
	require.NoError(t, err)

	require.NoError(t, VerifyAttestation(att, testRegistry, testNode, testResolved, signer.Address()))

	err = VerifyAttestation(att, testRegistry, testNode, common.Address{}, signer.Address())
	assert.ErrorIs(t, err, ErrMessageHashMismatch)

	err = VerifyAttestation(att, testRegistry, testNode, testResolved, testResolved)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	tampered := att
	tampered.Signature[64] = 5
	err = VerifyAttestation(tampered, testRegistry, testNode, testResolved, signer.Address())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
