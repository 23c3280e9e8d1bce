package api

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/rwa-id-gateway/ccip"
	"github.com/ruteri/rwa-id-gateway/cryptoutils"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/ruteri/rwa-id-gateway/resolver"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "rwaid-gateway"

// ResolutionProvider defines the gateway operations available to clients.
type ResolutionProvider interface {
	// Signer returns the gateway's signing address.
	Signer(ctx context.Context) (*SignerResponse, error)

	// Resolve resolves a dotted name and returns the signed resolution.
	Resolve(ctx context.Context, name string) (*ResolveResponse, error)

	// CCIPRead performs the EIP-3668 callback for a dotted name on behalf of sender.
	CCIPRead(ctx context.Context, sender string, name string) (*CCIPReadResult, error)
}

// ResolveResponse is the body of a successful direct resolution.
type ResolveResponse struct {
	// Name is the canonical lower-cased name that was resolved
	Name string `json:"name"`

	// ProjectID is the decimal registry project id
	ProjectID string `json:"projectId"`

	// NameHash is keccak256 of the label
	NameHash string `json:"nameHash"`

	// Node is the registry node for (projectId, nameHash)
	Node string `json:"node"`

	// Address is the resolved address, possibly the zero address
	Address string `json:"address"`

	// MessageHash is keccak256(registry || node || address), packed
	MessageHash string `json:"messageHash"`

	// Signature is the 65-byte r || s || v signature over MessageHash
	Signature string `json:"signature"`
}

// NewResolveResponse renders a resolution for the wire.
func NewResolveResponse(res *resolver.Resolution) *ResolveResponse {
	return &ResolveResponse{
		Name:        res.Name.String(),
		ProjectID:   res.ProjectID.String(),
		NameHash:    res.LabelHash.Hex(),
		Node:        res.Node.Hex(),
		Address:     res.Address.Hex(),
		MessageHash: res.Attestation.MessageHash.Hex(),
		Signature:   res.Attestation.Signature.Hex(),
	}
}

// CCIPRequest is the EIP-3668 POST body.
type CCIPRequest struct {
	Sender string `json:"sender"`
	Data   string `json:"data"`
}

// CCIPResponse is the EIP-3668 response body. Data is the 0x-prefixed
// abi.encode(bytes32 node, address resolved, bytes32 messageHash, bytes signature).
type CCIPResponse struct {
	Data string `json:"data"`
}

// NewCCIPResponse hex-encodes an ABI-encoded answer.
func NewCCIPResponse(encoded []byte) *CCIPResponse {
	return &CCIPResponse{Data: hexutil.Encode(encoded)}
}

// CCIPReadResult is a decoded CCIP-Read answer as seen by a client.
type CCIPReadResult struct {
	// Request is the ABI-encoded (dnsName, extraData) payload that was sent
	Request []byte

	// Response is the decoded (node, resolved, messageHash, signature) tuple
	Response *ccip.Response
}

// Verify checks that the answer is bound to registry and signed by signer.
// The message hash is recomputed rather than trusted.
func (r *CCIPReadResult) Verify(registry common.Address, signer common.Address) error {
	if len(r.Response.Signature) != interfaces.SignatureLength {
		return fmt.Errorf("%w: signature is %d bytes", cryptoutils.ErrInvalidSignature, len(r.Response.Signature))
	}

	var sig interfaces.Signature
	copy(sig[:], r.Response.Signature)

	att := interfaces.Attestation{MessageHash: r.Response.MessageHash, Signature: sig}
	return cryptoutils.VerifyAttestation(att, registry, r.Response.Node, r.Response.Resolved, signer)
}

// SignerResponse reports the gateway's signing address.
type SignerResponse struct {
	SignerAddress string `json:"signerAddress"`
}

// HealthResponse is the body of the health endpoint. It is always served with 200.
type HealthResponse struct {
	OK       bool   `json:"ok"`
	Service  string `json:"service"`
	ChainID  string `json:"chainId,omitempty"`
	Registry string `json:"registry"`
	Signer   string `json:"signer"`
	Error    string `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx response. Message mirrors Error on
// the CCIP-Read endpoints, where EIP-3668 clients look for it.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
