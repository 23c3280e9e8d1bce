package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/ruteri/rwa-id-gateway/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRegistryAddr = common.HexToAddress("0xD0B565C7134bDB16Fc3b8A9Cb5fdA003C37930c2")

// fakeContractCaller answers eth_call requests by dispatching on the method
// selector and ABI-encoding whatever the handler returns.
type fakeContractCaller struct {
	t        *testing.T
	abi      abi.ABI
	handlers map[string]func(args []interface{}) ([]interface{}, error)
	block    bool

	mu    sync.Mutex
	calls []string
}

func newFakeContractCaller(t *testing.T) *fakeContractCaller {
	parsed, err := abi.JSON(strings.NewReader(RegistryABI))
	require.NoError(t, err)
	return &fakeContractCaller{
		t:        t,
		abi:      parsed,
		handlers: make(map[string]func(args []interface{}) ([]interface{}, error)),
	}
}

func (f *fakeContractCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (f *fakeContractCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	require.Equal(f.t, testRegistryAddr, *call.To)
	method, err := f.abi.MethodById(call.Data[:4])
	require.NoError(f.t, err)

	f.mu.Lock()
	f.calls = append(f.calls, method.Name)
	f.mu.Unlock()

	args, err := method.Inputs.Unpack(call.Data[4:])
	require.NoError(f.t, err)

	handler, ok := f.handlers[method.Name]
	if !ok {
		return nil, fmt.Errorf("execution reverted: no handler for %s", method.Name)
	}
	outputs, err := handler(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(outputs...)
}

func TestOnchainNameRegistry_Lookups(t *testing.T) {
	caller := newFakeContractCaller(t)
	slugHash := names.LabelHash("acme")
	labelHash := names.LabelHash("alice")
	node := [32]byte{0x0a, 0x0b}
	resolved := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

	caller.handlers["projectIdBySlugHash"] = func(args []interface{}) ([]interface{}, error) {
		if common.Hash(args[0].([32]byte)) == slugHash {
			return []interface{}{big.NewInt(42)}, nil
		}
		return []interface{}{big.NewInt(0)}, nil
	}
	caller.handlers["nameNodeFromHash"] = func(args []interface{}) ([]interface{}, error) {
		assert.Equal(t, big.NewInt(42), args[0])
		assert.Equal(t, [32]byte(labelHash), args[1])
		return []interface{}{node}, nil
	}
	caller.handlers["resolveAddr"] = func(args []interface{}) ([]interface{}, error) {
		assert.Equal(t, node, args[0])
		return []interface{}{resolved}, nil
	}

	reg, err := NewOnchainNameRegistry(caller, testRegistryAddr, ResolveAddrMethod, time.Second)
	require.NoError(t, err)
	assert.Equal(t, testRegistryAddr, reg.Address())

	ctx := context.Background()
	projectID, err := reg.ProjectIDBySlugHash(ctx, slugHash)
	require.NoError(t, err)
	assert.Equal(t, "42", projectID.String())

	unknown, err := reg.ProjectIDBySlugHash(ctx, names.LabelHash("unknown-slug"))
	require.NoError(t, err)
	assert.True(t, unknown.IsZero())

	gotNode, err := reg.NameNodeFromHash(ctx, projectID, labelHash)
	require.NoError(t, err)
	assert.Equal(t, interfaces.Node(node), gotNode)

	gotAddr, err := reg.ResolveAddr(ctx, gotNode)
	require.NoError(t, err)
	assert.Equal(t, resolved, gotAddr)

	assert.Equal(t, []string{"projectIdBySlugHash", "projectIdBySlugHash", "nameNodeFromHash", "resolveAddr"}, caller.calls)
}

func TestOnchainNameRegistry_NodeAddrMethod(t *testing.T) {
	caller := newFakeContractCaller(t)
	caller.handlers["nodeAddr"] = func(args []interface{}) ([]interface{}, error) {
		return []interface{}{common.Address{}}, nil
	}

	reg, err := NewOnchainNameRegistry(caller, testRegistryAddr, NodeAddrMethod, time.Second)
	require.NoError(t, err)

	addr, err := reg.ResolveAddr(context.Background(), interfaces.Node{0x01})
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, addr)
	assert.Equal(t, []string{"nodeAddr"}, caller.calls)
}

func TestOnchainNameRegistry_ZeroProjectShortCircuits(t *testing.T) {
	caller := newFakeContractCaller(t)
	reg, err := NewOnchainNameRegistry(caller, testRegistryAddr, ResolveAddrMethod, time.Second)
	require.NoError(t, err)

	_, err = reg.NameNodeFromHash(context.Background(), interfaces.NewProjectID(nil), names.LabelHash("alice"))
	assert.ErrorIs(t, err, interfaces.ErrProjectNotFound)
	assert.Empty(t, caller.calls)
}

func TestOnchainNameRegistry_Failures(t *testing.T) {
	caller := newFakeContractCaller(t)
	caller.handlers["projectIdBySlugHash"] = func(args []interface{}) ([]interface{}, error) {
		return nil, errors.New("connection refused")
	}

	reg, err := NewOnchainNameRegistry(caller, testRegistryAddr, ResolveAddrMethod, time.Second)
	require.NoError(t, err)

	_, err = reg.ProjectIDBySlugHash(context.Background(), names.LabelHash("acme"))
	assert.ErrorIs(t, err, interfaces.ErrRegistryUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	// Unhandled method reverts.
	_, err = reg.ResolveAddr(context.Background(), interfaces.Node{})
	assert.ErrorIs(t, err, interfaces.ErrRegistryUnavailable)
}

func TestOnchainNameRegistry_Timeout(t *testing.T) {
	caller := newFakeContractCaller(t)
	caller.block = true

	reg, err := NewOnchainNameRegistry(caller, testRegistryAddr, ResolveAddrMethod, 20*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	_, err = reg.ProjectIDBySlugHash(context.Background(), names.LabelHash("acme"))
	assert.ErrorIs(t, err, interfaces.ErrRegistryUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewOnchainNameRegistry_InvalidMethod(t *testing.T) {
	_, err := NewOnchainNameRegistry(newFakeContractCaller(t), testRegistryAddr, AddrMethod("addr"), 0)
	require.Error(t, err)

	method, err := AddrMethodFromString("nodeAddr")
	require.NoError(t, err)
	assert.Equal(t, NodeAddrMethod, method)
}

type recordingObserver struct {
	methods []string
	errs    []error
}

func (o *recordingObserver) ObserveRegistryCall(method string, duration time.Duration, err error) {
	o.methods = append(o.methods, method)
	o.errs = append(o.errs, err)
}

func TestInstrumentedNameRegistry(t *testing.T) {
	mem := NewMemoryNameRegistry()
	mem.RegisterProject("acme", big.NewInt(7))
	node := mem.RegisterName(big.NewInt(7), "alice", common.HexToAddress("0x01"))

	observer := &recordingObserver{}
	reg := NewInstrumentedNameRegistry(mem, observer)

	ctx := context.Background()
	projectID, err := reg.ProjectIDBySlugHash(ctx, names.LabelHash("acme"))
	require.NoError(t, err)
	gotNode, err := reg.NameNodeFromHash(ctx, projectID, names.LabelHash("alice"))
	require.NoError(t, err)
	assert.Equal(t, node, gotNode)
	_, err = reg.ResolveAddr(ctx, gotNode)
	require.NoError(t, err)

	_, err = reg.NameNodeFromHash(ctx, interfaces.NewProjectID(nil), names.LabelHash("alice"))
	require.Error(t, err)

	assert.Equal(t, []string{"projectIdBySlugHash", "nameNodeFromHash", "resolveAddr", "nameNodeFromHash"}, observer.methods)
	assert.Nil(t, observer.errs[0])
	assert.ErrorIs(t, observer.errs[3], interfaces.ErrProjectNotFound)
}

func TestMemoryNameRegistry(t *testing.T) {
	mem := NewMemoryNameRegistry()
	mem.RegisterProject("ACME", big.NewInt(42))
	resolved := common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	node := mem.RegisterName(big.NewInt(42), "alice", resolved)

	ctx := context.Background()
	projectID, err := mem.ProjectIDBySlugHash(ctx, names.LabelHash("acme"))
	require.NoError(t, err)
	assert.Equal(t, "42", projectID.String())

	gotNode, err := mem.NameNodeFromHash(ctx, projectID, names.LabelHash("alice"))
	require.NoError(t, err)
	assert.Equal(t, node, gotNode)

	addr, err := mem.ResolveAddr(ctx, node)
	require.NoError(t, err)
	assert.Equal(t, resolved, addr)

	// Unbound labels still have a node, resolving to the zero address.
	bobNode, err := mem.NameNodeFromHash(ctx, projectID, names.LabelHash("bob"))
	require.NoError(t, err)
	addr, err = mem.ResolveAddr(ctx, bobNode)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, addr)

	missing, err := mem.ProjectIDBySlugHash(ctx, names.LabelHash("unknown"))
	require.NoError(t, err)
	assert.True(t, missing.IsZero())
}
