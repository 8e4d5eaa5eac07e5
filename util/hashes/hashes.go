// Package hashes provides the digest functions shared by the virtual
// machine's hash opcodes and the key and hash operations.
package hashes

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
)

// HashBlake2b calculates the hash blake2b(b).
func HashBlake2b(buf []byte) []byte {
	hashedBuf := blake2b.Sum256(buf)
	return hashedBuf[:]
}

// HashRipemd160 calculates the hash ripemd160(b).
func HashRipemd160(buf []byte) []byte {
	h := ripemd160.New()
	h.Write(buf)
	return h.Sum(nil)
}

// Hash160 calculates the hash ripemd160(sha256(b)).
func Hash160(buf []byte) []byte {
	hashedBuf := sha256.Sum256(buf)
	return HashRipemd160(hashedBuf[:])
}

// DoubleSha256 calculates the hash sha256(sha256(b)).
func DoubleSha256(buf []byte) []byte {
	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	return second[:]
}
