// Package main (cmd/gateway-client) is a command line client for the RWA-ID gateway.
//
// Every answer is verified before it is printed: the message hash must
// recompute from (registry, node, address) and the signature must recover to
// the gateway signer. Both addresses are taken from the gateway's /health
// report unless pinned with --trusted-registry and --trusted-signer.
//
// Example usage:
//
//	gateway-client --gateway-addr http://127.0.0.1:8080 resolve --name alice.acme.rwa-id.eth
//	gateway-client ccip --name alice.acme.rwa-id.eth --sender 0x... --post
package main
