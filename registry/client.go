package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/rwa-id-gateway/interfaces"
)

// RegistryABI describes the registry's read methods. Deployments expose the
// address lookup either as resolveAddr or as nodeAddr; both share a signature.
const RegistryABI = `[
	{"type":"function","name":"projectIdBySlugHash","stateMutability":"view","inputs":[{"name":"slugHash","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"nameNodeFromHash","stateMutability":"view","inputs":[{"name":"projectId","type":"uint256"},{"name":"labelHash","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"resolveAddr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"nodeAddr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

const (
	methodProjectIDBySlugHash = "projectIdBySlugHash"
	methodNameNodeFromHash    = "nameNodeFromHash"
)

// AddrMethod names the registry method used to resolve a node to an address.
type AddrMethod string

const (
	ResolveAddrMethod AddrMethod = "resolveAddr"
	NodeAddrMethod    AddrMethod = "nodeAddr"
)

// AddrMethodFromString validates a configured address method name.
func AddrMethodFromString(s string) (AddrMethod, error) {
	switch AddrMethod(s) {
	case ResolveAddrMethod, NodeAddrMethod:
		return AddrMethod(s), nil
	default:
		return "", fmt.Errorf("unsupported registry address method %q", s)
	}
}

// DefaultQueryTimeout bounds every registry call when no timeout is configured.
const DefaultQueryTimeout = 10 * time.Second

// OnchainNameRegistry implements interfaces.NameRegistry against a deployed
// registry contract. It holds no mutable state and is safe for concurrent use.
type OnchainNameRegistry struct {
	contract     *bind.BoundContract
	address      common.Address
	addrMethod   AddrMethod
	queryTimeout time.Duration
}

// NewOnchainNameRegistry binds the registry contract at address using caller
// for reads. Each query is bounded by queryTimeout; zero selects DefaultQueryTimeout.
func NewOnchainNameRegistry(caller bind.ContractCaller, address common.Address, addrMethod AddrMethod, queryTimeout time.Duration) (*OnchainNameRegistry, error) {
	parsed, err := abi.JSON(strings.NewReader(RegistryABI))
	if err != nil {
		return nil, err
	}
	if _, err := AddrMethodFromString(string(addrMethod)); err != nil {
		return nil, err
	}
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	return &OnchainNameRegistry{
		contract:     bind.NewBoundContract(address, parsed, caller, nil, nil),
		address:      address,
		addrMethod:   addrMethod,
		queryTimeout: queryTimeout,
	}, nil
}

// Address returns the registry contract address.
func (c *OnchainNameRegistry) Address() common.Address {
	return c.address
}

// call performs a single bounded read returning exactly one value.
func (c *OnchainNameRegistry) call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", interfaces.ErrRegistryUnavailable, method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: %s returned %d values", interfaces.ErrRegistryUnavailable, method, len(out))
	}
	return out[0], nil
}

// ProjectIDBySlugHash returns the project id for slugHash, zero if the slug is unknown.
func (c *OnchainNameRegistry) ProjectIDBySlugHash(ctx context.Context, slugHash common.Hash) (interfaces.ProjectID, error) {
	out, err := c.call(ctx, methodProjectIDBySlugHash, [32]byte(slugHash))
	if err != nil {
		return interfaces.ProjectID{}, err
	}
	return interfaces.NewProjectID(*abi.ConvertType(out, new(*big.Int)).(**big.Int)), nil
}

// NameNodeFromHash returns the node for labelHash within projectID.
func (c *OnchainNameRegistry) NameNodeFromHash(ctx context.Context, projectID interfaces.ProjectID, labelHash common.Hash) (interfaces.Node, error) {
	if projectID.IsZero() {
		return interfaces.Node{}, fmt.Errorf("%w: node lookup for zero project id", interfaces.ErrProjectNotFound)
	}

	out, err := c.call(ctx, methodNameNodeFromHash, projectID.Int, [32]byte(labelHash))
	if err != nil {
		return interfaces.Node{}, err
	}
	return interfaces.Node(*abi.ConvertType(out, new([32]byte)).(*[32]byte)), nil
}

// ResolveAddr returns the address bound to node using the configured method.
func (c *OnchainNameRegistry) ResolveAddr(ctx context.Context, node interfaces.Node) (common.Address, error) {
	out, err := c.call(ctx, string(c.addrMethod), [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out, new(common.Address)).(*common.Address), nil
}
