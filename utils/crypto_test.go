package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := EncryptString("sk-some-api-key", "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-some-api-key", enc)

	dec, err := DecryptString(enc, "passphrase")
	require.NoError(t, err)
	assert.Equal(t, "sk-some-api-key", dec)
}

func TestEncryptUniqueNonce(t *testing.T) {
	a, err := EncryptString("same input", "key")
	require.NoError(t, err)
	b, err := EncryptString("same input", "key")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptWrongKey(t *testing.T) {
	enc, err := EncryptString("secret", "right-key")
	require.NoError(t, err)

	_, err = DecryptString(enc, "wrong-key")
	assert.Error(t, err)
}

func TestEncryptEmptyPassphrase(t *testing.T) {
	_, err := EncryptString("secret", "")
	assert.Error(t, err)
	_, err = DecryptString("whatever", "")
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := DecryptString("not base64 at all!!!", "key")
	assert.Error(t, err)

	_, err = DecryptString("c2hvcnQ=", "key")
	assert.Error(t, err)
}
