/*
Package cryptoutils signs and verifies the gateway's resolution attestations.

An attestation covers keccak256(registry || node || resolved), the packed
20 + 32 + 20 byte concatenation an on-chain verifier recomputes. Signing uses
go-ethereum's deterministic secp256k1 signer, so the same key and triple always
yield the same 65-byte r || s || v signature.

The recovery indicator is serialized according to a SignatureFormat:
EthereumSignature (v = 27 or 28, what ecrecover expects) or RawSignature
(v = 0 or 1). RecoverSigner accepts either form.
*/
package cryptoutils
