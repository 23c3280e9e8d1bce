/*
Package registry provides read-only access to the RWA-ID registry contract.

# Registry Methods

The gateway needs three view methods of the registry:

	projectIdBySlugHash(bytes32 slugHash) returns (uint256)
	nameNodeFromHash(uint256 projectId, bytes32 labelHash) returns (bytes32)
	resolveAddr(bytes32 node) returns (address)

Some deployments name the last method nodeAddr; AddrMethod selects which one
is called. A zero project id means the slug is unknown, and nameNodeFromHash
is never called for it. A zero address from resolveAddr is a valid answer.

# Implementations

  - OnchainNameRegistry binds the contract through go-ethereum's
    bind.BoundContract. Every call runs under its own timeout and any failure
    is wrapped in interfaces.ErrRegistryUnavailable.
  - InstrumentedNameRegistry decorates any NameRegistry with call timing.
  - MemoryNameRegistry and MockNameRegistry serve tests and local development.

# Example Usage

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
	    return err
	}
	reg, err := registry.NewOnchainNameRegistry(client, registryAddr, registry.ResolveAddrMethod, 10*time.Second)
	if err != nil {
	    return err
	}
	projectID, err := reg.ProjectIDBySlugHash(ctx, names.LabelHash("acme"))
*/
package registry
