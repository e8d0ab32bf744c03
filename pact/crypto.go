package pact

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/TEENet-io/kbridge-go/common"
	"golang.org/x/crypto/blake2b"
)

const (
	PublicKeyHexLen = 64
	SecretKeyHexLen = 64
	SignatureHexLen = 128
)

// KeyPair holds hex encoded ed25519 keys. Secret is the 32 byte seed.
type KeyPair struct {
	Public string
	Secret string
}

type SignResult struct {
	Hash   string // base64url, no padding
	Sig    string // hex
	PubKey string // hex
}

// HashBytes is the blake2b-256 digest used for command hashes.
func HashBytes(msg []byte) []byte {
	h := blake2b.Sum256(msg)
	return h[:]
}

// HashBase64 returns the unpadded base64url blake2b-256 hash of msg.
func HashBase64(msg string) string {
	return base64.RawURLEncoding.EncodeToString(HashBytes([]byte(msg)))
}

func GenKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{
		Public: hex.EncodeToString(pub),
		Secret: hex.EncodeToString(priv.Seed()),
	}, nil
}

// RestoreKeyPair derives the public key from a hex secret.
func RestoreKeyPair(secret string) (KeyPair, error) {
	priv, err := privateKey(secret)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{
		Public: hex.EncodeToString(priv.Public().(ed25519.PublicKey)),
		Secret: strings.ToLower(secret),
	}, nil
}

func privateKey(secret string) (ed25519.PrivateKey, error) {
	if !common.IsHexOfLen(secret, SecretKeyHexLen) {
		return nil, ErrInvalidSecretKey
	}
	seed, _ := hex.DecodeString(secret)
	return ed25519.NewKeyFromSeed(seed), nil
}

// Sign signs the blake2b-256 hash of msg. If kp.Public is set it must match
// the key derived from kp.Secret.
func Sign(msg string, kp KeyPair) (*SignResult, error) {
	priv, err := privateKey(kp.Secret)
	if err != nil {
		return nil, err
	}
	pub := hex.EncodeToString(priv.Public().(ed25519.PublicKey))
	if kp.Public != "" && !common.IsHexOfLen(kp.Public, PublicKeyHexLen) {
		return nil, ErrInvalidPublicKey
	}
	if kp.Public != "" && !strings.EqualFold(kp.Public, pub) {
		return nil, ErrKeyPairMismatch
	}

	hash := HashBytes([]byte(msg))
	sig := ed25519.Sign(priv, hash)
	return &SignResult{
		Hash:   base64.RawURLEncoding.EncodeToString(hash),
		Sig:    hex.EncodeToString(sig),
		PubKey: pub,
	}, nil
}

// Verify checks a hex signature over the hash of msg.
func Verify(msg string, pubKey string, sig string) bool {
	if !common.IsHexOfLen(pubKey, PublicKeyHexLen) || !common.IsHexOfLen(sig, SignatureHexLen) {
		return false
	}
	pk, _ := hex.DecodeString(pubKey)
	s, _ := hex.DecodeString(sig)
	return ed25519.Verify(ed25519.PublicKey(pk), HashBytes([]byte(msg)), s)
}
