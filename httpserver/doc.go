/*
Package httpserver implements the HTTP surface of the RWA-ID gateway.

Every response carries Cache-Control: no-store and a JSON body. Errors map
onto status codes as follows:

  - invalid name, malformed DNS wire name, malformed payload: 400
  - unknown project: 404
  - registry unavailable and any unexpected failure: 500, without internal detail

# Endpoints

  - GET /health - Registry, signer and chain id; always 200
  - GET /signer - Gateway signing address
  - GET /resolve?name=label.slug.rwa-id.eth - Direct signed resolution
  - GET /{sender}/{data}.json - EIP-3668 CCIP-Read callback
  - POST /ccip - EIP-3668 CCIP-Read callback with a JSON body
  - GET /livez - Liveness check
  - GET /readyz - Readiness check
  - GET /drain - Gracefully mark server as not ready
  - GET /undrain - Mark server as ready
*/
package httpserver
