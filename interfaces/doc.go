/*
Package interfaces defines core interfaces and types for the RWA-ID resolution
gateway, separating interface definitions from implementations.

# Value Types

ParsedName, ProjectID, Node, Signature and Attestation are immutable values
created per request. ProjectID zero is the registry's "not found" sentinel and
is never signed or returned.

# Collaborators

NameRegistry is the read-only registry view (three queries, sequential and
data dependent). Signer produces attestations over the packed
(registry, node, address) triple. RegistryObserver receives call timings.

# Errors

The Err* sentinels form the error taxonomy shared by every layer. Lower layers
wrap them with fmt.Errorf so the HTTP layer maps them with errors.Is.
*/
package interfaces
