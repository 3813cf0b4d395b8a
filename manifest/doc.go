// Package manifest builds and checks the integrity record that binds an
// application binary and its metadata to digests, a public key and a
// signature.
//
// # Layout
//
// A Manifest encodes to exactly Size (204) bytes, little-endian, no padding:
//
//	offset  size  field
//	0       2     version (always 1)
//	2       2     flags (caller-defined)
//	4       4     app_len
//	8       64    app_csum
//	72      4     meta_len
//	76      64    meta_csum
//	140     32    key (ed25519 public key)
//	172     32    sig
//
// # Digests
//
// Every digest is 64 bytes. SHA-512 is the default; BLAKE2b-512 and BLAKE3
// (64-byte extended output) are available through WithAlgorithm. The record
// does not carry the algorithm, so verifiers must be told which one was
// used.
//
// # Signatures
//
// Building never signs. The sig field stays zero, Signed reports false and
// CheckSignature returns ErrUnsigned. A non-zero sig is reported as
// ErrSignatureUnsupported until a scheme is defined for it.
package manifest
