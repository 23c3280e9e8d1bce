/*
Package api defines the wire types of the RWA-ID gateway's HTTP surface,
shared by the server (package httpserver) and the client (package clients).

# Endpoints

	GET  /health                 HealthResponse, always 200
	GET  /signer                 SignerResponse
	GET  /resolve?name=<dotted>  ResolveResponse | ErrorResponse (400, 404, 500)
	GET  /{sender}/{data}.json   CCIPResponse | ErrorResponse (EIP-3668 GET form)
	POST /ccip                   CCIPRequest -> CCIPResponse (EIP-3668 POST form)

All JSON responses are served with caching disabled: every answer is derived
from live chain state and carries a signature over a specific message hash.

# Encoding

Hashes, nodes, addresses and signatures are 0x-prefixed hex. ProjectID is a
decimal string. CCIPResponse.Data is the 0x-prefixed ABI encoding of
(bytes32 node, address resolved, bytes32 messageHash, bytes signature).
*/
package api
