// Package resolver orchestrates name parsing, registry lookups and attestation
// signing into the gateway's two operations: direct resolution and the
// CCIP-Read callback.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/rwa-id-gateway/ccip"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/ruteri/rwa-id-gateway/names"
)

// Resolution is the outcome of a successful lookup.
type Resolution struct {
	Name        interfaces.ParsedName
	ProjectID   interfaces.ProjectID
	LabelHash   common.Hash
	SlugHash    common.Hash
	Node        interfaces.Node
	Address     common.Address
	Attestation interfaces.Attestation
}

// Service resolves names against a registry and signs the results.
// It is constructed once at startup and is safe for concurrent use.
type Service struct {
	registry        interfaces.NameRegistry
	registryAddress common.Address
	signer          interfaces.Signer
	log             *slog.Logger
}

// NewService creates a resolution service.
//
// Parameters:
//   - registry: read-only registry view
//   - registryAddress: address of the registry contract, bound into every attestation
//   - signer: attestation signer holding the gateway key
//   - log: structured logger
func NewService(registry interfaces.NameRegistry, registryAddress common.Address, signer interfaces.Signer, log *slog.Logger) *Service {
	return &Service{
		registry:        registry,
		registryAddress: registryAddress,
		signer:          signer,
		log:             log,
	}
}

// RegistryAddress returns the registry contract address attestations are bound to.
func (s *Service) RegistryAddress() common.Address {
	return s.registryAddress
}

// SignerAddress returns the address of the gateway signing key.
func (s *Service) SignerAddress() common.Address {
	return s.signer.Address()
}

// Resolve parses a dotted name and resolves it.
func (s *Service) Resolve(ctx context.Context, name string) (*Resolution, error) {
	parsed, err := names.ParseDotted(name)
	if err != nil {
		return nil, err
	}
	return s.ResolveParsed(ctx, parsed)
}

// ResolveParsed runs the registry lookups for an already validated name and
// signs the result. The three queries are sequential: each needs the previous
// answer. A zero project id stops the lookup with ErrProjectNotFound.
func (s *Service) ResolveParsed(ctx context.Context, name interfaces.ParsedName) (*Resolution, error) {
	slugHash := names.LabelHash(name.Slug)
	labelHash := names.LabelHash(name.Label)

	projectID, err := s.registry.ProjectIDBySlugHash(ctx, slugHash)
	if err != nil {
		return nil, err
	}
	if projectID.IsZero() {
		return nil, fmt.Errorf("%w: slug %q", interfaces.ErrProjectNotFound, name.Slug)
	}

	node, err := s.registry.NameNodeFromHash(ctx, projectID, labelHash)
	if err != nil {
		return nil, err
	}

	addr, err := s.registry.ResolveAddr(ctx, node)
	if err != nil {
		return nil, err
	}

	attestation, err := s.signer.Sign(s.registryAddress, node, addr)
	if err != nil {
		return nil, err
	}

	s.log.Debug("Resolved name",
		"name", name.String(),
		"projectId", projectID.String(),
		"node", node.Hex(),
		"address", addr.Hex())

	return &Resolution{
		Name:        name,
		ProjectID:   projectID,
		LabelHash:   labelHash,
		SlugHash:    slugHash,
		Node:        node,
		Address:     addr,
		Attestation: attestation,
	}, nil
}

// ResolveCCIP answers a CCIP-Read callback. hexData is the ABI-encoded
// (bytes dnsName, bytes extraData) request with or without the 0x prefix; the
// result is the ABI-encoded (node, address, messageHash, signature) tuple.
//
// sender is accepted but not used to scope or authorize the lookup.
func (s *Service) ResolveCCIP(ctx context.Context, sender string, hexData string) ([]byte, *Resolution, error) {
	req, err := ccip.DecodeRequest(hexData)
	if err != nil {
		return nil, nil, err
	}

	parsed, err := names.ParseDNSWire(req.DNSName)
	if err != nil {
		return nil, nil, err
	}

	s.log.Debug("CCIP-Read lookup", "sender", sender, "name", parsed.String(), "extraDataLen", len(req.ExtraData))

	resolution, err := s.ResolveParsed(ctx, parsed)
	if err != nil {
		return nil, nil, err
	}

	encoded, err := ccip.EncodeResponse(
		resolution.Node,
		resolution.Address,
		resolution.Attestation.MessageHash,
		resolution.Attestation.Signature.Bytes(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not encode response: %w", err)
	}

	return encoded, resolution, nil
}
