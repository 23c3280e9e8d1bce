/*
Package clients provides a Go client for the RWA-ID gateway HTTP API.

GatewayClient covers the signer, health, direct resolution and CCIP-Read
endpoints. CCIPRead builds the request the way an EIP-3668 resolver contract
would: the dotted name is DNS-wire encoded and ABI-encoded with empty extra
data, then sent either as GET /{sender}/{data}.json or POST /ccip.

Answers are returned decoded; callers check them with api.CCIPReadResult.Verify
against the registry and signer addresses they trust.

MockResolutionProvider is a testify mock for code that consumes
api.ResolutionProvider.
*/
package clients
