package fixtureserver

import (
	"bytes"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmoredPublicKeyParsesBack(t *testing.T) {
	key, err := GenerateKeyPair()
	require.NoError(t, err)

	pub, err := key.ArmoredPublicKey()
	require.NoError(t, err)

	block, err := armor.Decode(bytes.NewReader(pub))
	require.NoError(t, err)
	assert.Equal(t, openpgp.PublicKeyType, block.Type)
}

func TestDetachedSignVerifiesAgainstOwnKey(t *testing.T) {
	key, err := GenerateKeyPair()
	require.NoError(t, err)

	body := []byte("Suite: stable\nCodename: stable\n")
	sig, err := key.DetachedSign(body)
	require.NoError(t, err)

	pub, err := key.ArmoredPublicKey()
	require.NoError(t, err)
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	require.NoError(t, err)

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(body), bytes.NewReader(sig), nil)
	assert.NoError(t, err)
}

func TestClearSignRoundTrips(t *testing.T) {
	key, err := GenerateKeyPair()
	require.NoError(t, err)

	body := []byte("Suite: stable\nCodename: stable\n")
	signed, err := key.ClearSign(body)
	require.NoError(t, err)

	block, rest := clearsign.Decode(signed)
	require.NotNil(t, block)
	assert.Empty(t, bytes.TrimSpace(rest))
	assert.Equal(t, string(body), string(block.Plaintext))

	pub, err := key.ArmoredPublicKey()
	require.NoError(t, err)
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	require.NoError(t, err)

	_, err = openpgp.CheckDetachedSignature(keyring, bytes.NewReader(block.Bytes), block.ArmoredSignature.Body, nil)
	assert.NoError(t, err)
}
