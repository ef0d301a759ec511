package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	for _, plaintext := range []string{"", "a", "hello world", "日記を書く", "line\nbreaks\tand \x00 bytes"} {
		ct := Encrypt(plaintext, "key-1")
		pt, err := Decrypt(ct, "key-1")
		require.NoError(t, err)
		assert.Equal(t, plaintext, pt)
	}
}

func TestEncrypt_NotDeterministic(t *testing.T) {
	a := Encrypt("same plaintext", "k")
	b := Encrypt("same plaintext", "k")
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKey(t *testing.T) {
	ct := Encrypt("secret", "key-1")
	_, err := Decrypt(ct, "key-2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorDecrypt))
}

func TestDecrypt_Malformed(t *testing.T) {
	for _, ct := range []string{"", "not base64!!!", "YWJj"} { // "YWJj" = "abc", shorter than a nonce
		_, err := Decrypt(ct, "key")
		assert.ErrorIs(t, err, common.ErrorDecrypt, "ciphertext %q", ct)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("fixed-salt")
	k1 := DeriveKey("secret-password", salt)
	k2 := DeriveKey("secret-password", salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64) // hex of 32 bytes
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	assert.NotEqual(t, DeriveKey("pw", []byte("salt-1")), DeriveKey("pw", []byte("salt-2")))
	assert.NotEqual(t, DeriveKey("pw-1", []byte("salt")), DeriveKey("pw-2", []byte("salt")))
}

func TestMakeVerifier(t *testing.T) {
	v1 := MakeVerifier("key")
	v2 := MakeVerifier("key")
	assert.Equal(t, v1, v2)
	assert.Len(t, v1, 32)
	assert.NotEqual(t, v1, MakeVerifier("other"))
}

// The verifier is persisted in the users table, so it must never double as
// the cipher key: a database copy alone must not decrypt anything.
func TestMakeVerifier_CannotOpenCiphertext(t *testing.T) {
	key := DeriveKey("secret-password", []byte("per-user-salt"))
	verifier := MakeVerifier(key)
	require.NotEqual(t, verifier, keyDigest(key))

	ct := Encrypt("my secret diary entry", key)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)

	block, err := aes.NewCipher(verifier)
	require.NoError(t, err)
	aesgcm, err := cipher.NewGCM(block)
	require.NoError(t, err)
	require.Greater(t, len(raw), aesgcm.NonceSize())

	nonce, sealed := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	_, err = aesgcm.Open(nil, nonce, sealed, nil)
	require.Error(t, err)
}
