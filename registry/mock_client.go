package registry

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/ruteri/rwa-id-gateway/names"
)

type nodeKey struct {
	projectID string
	labelHash common.Hash
}

// MemoryNameRegistry provides a simple in-memory implementation of the
// NameRegistry interface for testing purposes without requiring a blockchain
// connection.
type MemoryNameRegistry struct {
	mutex    sync.RWMutex
	projects map[common.Hash]*big.Int
	nodes    map[nodeKey]interfaces.Node
	addrs    map[interfaces.Node]common.Address
}

// NewMemoryNameRegistry creates an empty in-memory registry.
func NewMemoryNameRegistry() *MemoryNameRegistry {
	return &MemoryNameRegistry{
		projects: make(map[common.Hash]*big.Int),
		nodes:    make(map[nodeKey]interfaces.Node),
		addrs:    make(map[interfaces.Node]common.Address),
	}
}

// MemoryNode derives the node the in-memory registry assigns to a label:
// keccak256(uint256(projectID) || labelHash).
func MemoryNode(projectID *big.Int, labelHash common.Hash) interfaces.Node {
	return interfaces.Node(crypto.Keccak256Hash(common.LeftPadBytes(projectID.Bytes(), 32), labelHash[:]))
}

// RegisterProject assigns projectID to slug.
func (m *MemoryNameRegistry) RegisterProject(slug string, projectID *big.Int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.projects[names.LabelHash(slug)] = new(big.Int).Set(projectID)
}

// RegisterName binds label within projectID to addr and returns the node it was stored under.
func (m *MemoryNameRegistry) RegisterName(projectID *big.Int, label string, addr common.Address) interfaces.Node {
	labelHash := names.LabelHash(label)
	node := MemoryNode(projectID, labelHash)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.nodes[nodeKey{projectID: projectID.String(), labelHash: labelHash}] = node
	m.addrs[node] = addr
	return node
}

// ProjectIDBySlugHash returns the registered project id or zero.
func (m *MemoryNameRegistry) ProjectIDBySlugHash(ctx context.Context, slugHash common.Hash) (interfaces.ProjectID, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	id, ok := m.projects[slugHash]
	if !ok {
		return interfaces.NewProjectID(nil), nil
	}
	return interfaces.NewProjectID(new(big.Int).Set(id)), nil
}

// NameNodeFromHash returns the node for labelHash, deriving it for unregistered labels
// the same way RegisterName does.
func (m *MemoryNameRegistry) NameNodeFromHash(ctx context.Context, projectID interfaces.ProjectID, labelHash common.Hash) (interfaces.Node, error) {
	if projectID.IsZero() {
		return interfaces.Node{}, interfaces.ErrProjectNotFound
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if node, ok := m.nodes[nodeKey{projectID: projectID.String(), labelHash: labelHash}]; ok {
		return node, nil
	}
	return MemoryNode(projectID.Int, labelHash), nil
}

// ResolveAddr returns the bound address, or the zero address for unbound nodes.
func (m *MemoryNameRegistry) ResolveAddr(ctx context.Context, node interfaces.Node) (common.Address, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.addrs[node], nil
}
