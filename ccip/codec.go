// Package ccip encodes and decodes the EIP-3668 (CCIP-Read) payloads exchanged
// between the resolver contract and the gateway.
//
// Requests carry abi.encode(bytes dnsName, bytes extraData). Responses carry
// abi.encode(bytes32 node, address resolved, bytes32 messageHash, bytes signature),
// the order the on-chain callback decodes them in.
package ccip

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/rwa-id-gateway/interfaces"
)

var (
	bytesTy   = mustNewType("bytes")
	bytes32Ty = mustNewType("bytes32")
	addressTy = mustNewType("address")

	requestArguments = abi.Arguments{
		{Name: "name", Type: bytesTy},
		{Name: "data", Type: bytesTy},
	}

	responseArguments = abi.Arguments{
		{Name: "node", Type: bytes32Ty},
		{Name: "resolved", Type: addressTy},
		{Name: "messageHash", Type: bytes32Ty},
		{Name: "signature", Type: bytesTy},
	}
)

func mustNewType(t string) abi.Type {
	ty, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return ty
}

// Request is a decoded CCIP-Read lookup.
type Request struct {
	// DNSName is the DNS-wire encoded name being resolved.
	DNSName []byte

	// ExtraData is the resolver calldata forwarded by the contract (e.g. addr(bytes32)).
	ExtraData []byte
}

// Response is a decoded gateway answer.
type Response struct {
	Node        interfaces.Node
	Resolved    common.Address
	MessageHash common.Hash
	Signature   []byte
}

// NormalizeHex returns s with surrounding whitespace removed and exactly one 0x prefix.
// EIP-3668 clients send {data} without the prefix; other callers include it.
func NormalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	return "0x" + s
}

// DecodeRequest decodes a hex payload, with or without the 0x prefix, into a Request.
func DecodeRequest(hexPayload string) (*Request, error) {
	raw, err := hexutil.Decode(NormalizeHex(hexPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedPayload, err)
	}

	values, err := requestArguments.Unpack(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedPayload, err)
	}
	if len(values) != len(requestArguments) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", interfaces.ErrMalformedPayload, len(requestArguments), len(values))
	}

	return &Request{
		DNSName:   *abi.ConvertType(values[0], new([]byte)).(*[]byte),
		ExtraData: *abi.ConvertType(values[1], new([]byte)).(*[]byte),
	}, nil
}

// EncodeRequest ABI-encodes (dnsName, extraData) as a resolver contract would.
func EncodeRequest(dnsName []byte, extraData []byte) ([]byte, error) {
	if dnsName == nil {
		dnsName = []byte{}
	}
	if extraData == nil {
		extraData = []byte{}
	}
	return requestArguments.Pack(dnsName, extraData)
}

// EncodeResponse ABI-encodes (node, resolved, messageHash, signature) in that fixed order.
func EncodeResponse(node interfaces.Node, resolved common.Address, messageHash common.Hash, signature []byte) ([]byte, error) {
	if signature == nil {
		signature = []byte{}
	}
	return responseArguments.Pack([32]byte(node), resolved, [32]byte(messageHash), signature)
}

// DecodeResponse decodes a gateway answer produced by EncodeResponse.
func DecodeResponse(data []byte) (*Response, error) {
	values, err := responseArguments.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedPayload, err)
	}
	if len(values) != len(responseArguments) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", interfaces.ErrMalformedPayload, len(responseArguments), len(values))
	}

	return &Response{
		Node:        interfaces.Node(*abi.ConvertType(values[0], new([32]byte)).(*[32]byte)),
		Resolved:    *abi.ConvertType(values[1], new(common.Address)).(*common.Address),
		MessageHash: common.Hash(*abi.ConvertType(values[2], new([32]byte)).(*[32]byte)),
		Signature:   *abi.ConvertType(values[3], new([]byte)).(*[]byte),
	}, nil
}
