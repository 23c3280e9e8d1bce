package ccip

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDNSName = []byte("\x05alice\x04acme\x06rwa-id\x03eth\x00")

// addr(bytes32) calldata as sent by resolvers.
var testExtraData = hexutil.MustDecode("0x3b3b57de1111111111111111111111111111111111111111111111111111111111111111")

func TestNormalizeHex(t *testing.T) {
	assert.Equal(t, "0xabcd", NormalizeHex("abcd"))
	assert.Equal(t, "0xabcd", NormalizeHex("0xabcd"))
	assert.Equal(t, "0xabcd", NormalizeHex("0Xabcd"))
	assert.Equal(t, "0xabcd", NormalizeHex("  abcd\n"))
	assert.Equal(t, "0x", NormalizeHex(""))
}

func TestDecodeRequest_WithAndWithoutPrefix(t *testing.T) {
	encoded, err := EncodeRequest(testDNSName, testExtraData)
	require.NoError(t, err)

	for _, payload := range []string{
		hexutil.Encode(encoded),
		hex.EncodeToString(encoded),
	} {
		req, err := DecodeRequest(payload)
		require.NoError(t, err)
		assert.Equal(t, testDNSName, req.DNSName)
		assert.Equal(t, testExtraData, req.ExtraData)
	}
}

func TestDecodeRequest_Malformed(t *testing.T) {
	for _, payload := range []string{
		"",
		"0x",
		"zz",
		"0xabc",
		"0x00000000000000000000000000000000000000000000000000000000000000ff",
	} {
		_, err := DecodeRequest(payload)
		assert.ErrorIs(t, err, interfaces.ErrMalformedPayload, payload)
	}
}

func TestEncodeResponse_FieldOrder(t *testing.T) {
	node := interfaces.Node(common.HexToHash("0x0102030405060708091011121314151617181920212223242526272829303132"))
	resolved := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	messageHash := common.HexToHash("0xfeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface")
	signature := make([]byte, interfaces.SignatureLength)
	for i := range signature {
		signature[i] = byte(i)
	}

	encoded, err := EncodeResponse(node, resolved, messageHash, signature)
	require.NoError(t, err)

	// Head layout: node, address (left padded), messageHash, offset of signature.
	assert.Equal(t, node[:], encoded[0:32])
	assert.Equal(t, common.LeftPadBytes(resolved.Bytes(), 32), encoded[32:64])
	assert.Equal(t, messageHash.Bytes(), encoded[64:96])

	decoded, err := DecodeResponse(encoded)
	require.NoError(t, err)
	assert.Equal(t, node, decoded.Node)
	assert.Equal(t, resolved, decoded.Resolved)
	assert.Equal(t, messageHash, decoded.MessageHash)
	assert.Equal(t, signature, decoded.Signature)
}

func TestEncodeResponse_MatchesGenericABIDecoding(t *testing.T) {
	node := interfaces.Node{0x42}
	resolved := common.Address{}
	messageHash := common.Hash{0x99}
	signature := make([]byte, interfaces.SignatureLength)

	encoded, err := EncodeResponse(node, resolved, messageHash, signature)
	require.NoError(t, err)

	parsed, err := abi.JSON(strings.NewReader(`[{"type":"function","name":"resolveWithProof","inputs":[{"name":"response","type":"bytes"}],"outputs":[{"name":"node","type":"bytes32"},{"name":"resolved","type":"address"},{"name":"messageHash","type":"bytes32"},{"name":"signature","type":"bytes"}]}]`))
	require.NoError(t, err)

	values, err := parsed.Methods["resolveWithProof"].Outputs.Unpack(encoded)
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, [32]byte(node), values[0])
	assert.Equal(t, resolved, values[1])
	assert.Equal(t, [32]byte(messageHash), values[2])
	assert.Equal(t, signature, values[3])
}

func TestDecodeResponse_Malformed(t *testing.T) {
	_, err := DecodeResponse([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, interfaces.ErrMalformedPayload)
}
