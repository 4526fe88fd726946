// Package crypto implements the vault's encryption-at-rest primitives:
// AES-256-GCM authenticated encryption with a packed ciphertext layout,
// and one-way digests for credential comparison.
//
// Ciphertexts are packed as magic | tag | iv | ctext. The additional
// authenticated data is bound to the owning record's identity, so a
// ciphertext copied between rows fails authentication on read.
package crypto
