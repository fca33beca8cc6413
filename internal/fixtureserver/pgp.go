package fixtureserver

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// KeyPair is a throwaway OpenPGP identity for signing fixture Release
// files in tests, and for handing the public half to sigverify.
type KeyPair struct {
	entity *openpgp.Entity
}

// GenerateKeyPair creates a fresh RSA keypair under a test identity. This
// never needs to be fast or re-derivable; tests that need stable golden
// output should sign once and store the fixture bytes, not regenerate the
// key per run.
func GenerateKeyPair() (*KeyPair, error) {
	cfg := &packet.Config{
		Time: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
	entity, err := openpgp.NewEntity("Fixture Signer", "", "fixture@example.test", cfg)
	if err != nil {
		return nil, fmt.Errorf("generating fixture keypair: %w", err)
	}
	return &KeyPair{entity: entity}, nil
}

// ArmoredPublicKey returns the ASCII-armored public key, suitable for
// passing straight to sigverify.VerifyAll as the trusted key.
func (k *KeyPair) ArmoredPublicKey() ([]byte, error) {
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}
	if err := k.entity.Serialize(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetachedSign produces an armored detached signature over body, the shape
// expected in a Release.gpg fixture file.
func (k *KeyPair) DetachedSign(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, k.entity, bytes.NewReader(body), nil); err != nil {
		return nil, fmt.Errorf("signing detached: %w", err)
	}
	return buf.Bytes(), nil
}

// ClearSign produces a clearsigned document over body, the shape expected
// in an InRelease fixture file.
func (k *KeyPair) ClearSign(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := clearsign.Encode(&buf, k.entity.PrivateKey, nil)
	if err != nil {
		return nil, fmt.Errorf("opening clearsign writer: %w", err)
	}
	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("writing clearsign body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing clearsign writer: %w", err)
	}
	return buf.Bytes(), nil
}
