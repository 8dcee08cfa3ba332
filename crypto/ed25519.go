/*
Package crypto holds the ed25519 keys used to sign transactions. A public key
maps onto a quorum.Condition, so that a verified signature can be presented to
the handlers as an authenticated identity.
*/
package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used as the extension part of every key condition.
const ExtensionName = "sigs"

// PublicKey is a raw ed25519 public key.
type PublicKey []byte

// Validate returns an error if the key is not of ed25519 size.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p))
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if p.Validate() != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into a quorum permission
func (p PublicKey) Condition() quorum.Condition {
	return quorum.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address of the key condition.
func (p PublicKey) Address() quorum.Address {
	return p.Condition().Address()
}

// PrivateKey is a raw ed25519 private key.
type PrivateKey []byte

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key length %d", len(p))
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKey {
	return PrivateKey(ed25519.NewKeyFromSeed(seed))
}

// ParsePrivateKey decodes a hex encoded private key, as stored in a key
// file. Surrounding white space is ignored.
func ParsePrivateKey(raw []byte) (PrivateKey, error) {
	bin, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "key is not hex encoded")
	}
	if len(bin) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key length %d", len(bin))
	}
	return PrivateKey(bin), nil
}
