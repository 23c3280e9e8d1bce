// Package main (cmd/gateway) runs the RWA-ID resolution gateway.
//
// The gateway reads the RWA-ID registry contract through an Ethereum RPC
// endpoint, signs every answer with the configured key, and serves direct
// lookups as well as EIP-3668 CCIP-Read callbacks.
//
// The RPC URL, registry address and signer key are required. They can be
// passed as flags or through ETH_RPC_URL (or LINEA_RPC_URL), RWA_ID_REGISTRY
// and GATEWAY_SIGNER_PRIVATE_KEY. The process exits before binding any listener
// when one of them is missing or malformed.
//
// Example usage:
//
//	export ETH_RPC_URL=https://rpc.linea.build
//	export RWA_ID_REGISTRY=0xD0B565C7134bDB16Fc3b8A9Cb5fdA003C37930c2
//	export GATEWAY_SIGNER_PRIVATE_KEY=0x...
//	rwaid-gateway --listen-addr 0.0.0.0:8080 --log-json
package main
