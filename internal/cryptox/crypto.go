// Package cryptox implements the symmetric codec every persisted text field
// passes through, plus password-to-key derivation.
//
// Ciphertext layout: base64(nonce || AES-256-GCM(plaintext)). The nonce is
// embedded, so encryption is never deterministic and decryption needs only
// the ciphertext and the key. GCM authentication makes a wrong-key attempt
// detectable instead of yielding garbage plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// keyDigest maps an arbitrary key string onto a valid AES-256 key.
func keyDigest(key string) []byte {
	d := sha256.Sum256([]byte(key))
	return d[:]
}

func newGCM(key string) cipher.AEAD {
	block, err := aes.NewCipher(keyDigest(key))
	if err != nil {
		// 32-byte digest is always a valid AES key length
		panic(err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return aesgcm
}

// Encrypt encrypts plaintext under key and returns an opaque string that is
// safe to store in a text column. It never fails for valid inputs.
func Encrypt(plaintext, key string) string {
	aesgcm := newGCM(key)
	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	ct := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ct)
}

// Decrypt reverses Encrypt. It returns an error wrapping common.ErrorDecrypt
// when the ciphertext is malformed or was not produced under key.
func Decrypt(ciphertext, key string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: not base64: %v", common.ErrorDecrypt, err)
	}

	aesgcm := newGCM(key)
	if len(raw) < aesgcm.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrorDecrypt)
	}

	nonce, ct := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorDecrypt, err)
	}
	return string(plaintext), nil
}

// DeriveKey derives the user's symmetric encryption key from a password and
// a per-user salt using argon2id. The key is hex-encoded so it can be held
// and compared as a string; it is never persisted.
func DeriveKey(password string, salt []byte) string {
	return hex.EncodeToString(argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32))
}

// verifierDomain separates the stored login verifier from keyDigest. Without
// it the verifier would equal the AES key, and anyone reading the users
// table could decrypt every row.
const verifierDomain = "journalkeeper.verifier:"

// MakeVerifier returns the value stored server-side to check a login key
// against. Storing a domain-separated digest of the key, not the key itself,
// keeps the encryption key unrecoverable from the database.
func MakeVerifier(key string) []byte {
	hash := sha256.Sum256([]byte(verifierDomain + key))
	return hash[:]
}
