package interfaces

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// NameRegistry is the read-only view of the on-chain RWA-ID registry.
// Implementations must be safe for concurrent use and must wrap every
// transport failure in ErrRegistryUnavailable.
type NameRegistry interface {
	// ProjectIDBySlugHash returns the project owning slugHash, or the zero id if none does.
	ProjectIDBySlugHash(ctx context.Context, slugHash common.Hash) (ProjectID, error)

	// NameNodeFromHash returns the node for a label within a project.
	// Callers must not invoke it with the zero project id.
	NameNodeFromHash(ctx context.Context, projectID ProjectID, labelHash common.Hash) (Node, error)

	// ResolveAddr returns the address bound to node. The zero address is a valid result.
	ResolveAddr(ctx context.Context, node Node) (common.Address, error)
}

// Signer produces attestations over (registry, node, address) triples.
type Signer interface {
	// Address returns the Ethereum address of the signing key.
	Address() common.Address

	// Sign builds the attestation message hash and signs it.
	Sign(registry common.Address, node Node, resolved common.Address) (Attestation, error)
}

// RegistryObserver receives timing information about registry calls.
type RegistryObserver interface {
	ObserveRegistryCall(method string, duration time.Duration, err error)
}
