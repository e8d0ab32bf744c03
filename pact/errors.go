package pact

import "errors"

var (
	ErrInvalidSecretKey  = errors.New("secret key must be 64 hex characters")
	ErrInvalidPublicKey  = errors.New("public key must be 64 hex characters")
	ErrKeyPairMismatch   = errors.New("secret key does not match public key")
	ErrInvalidSignature  = errors.New("signature must be 128 hex characters")
	ErrEmptyCode         = errors.New("command has no code")
	ErrBadSignature      = errors.New("signature does not verify")
	ErrHashMismatch      = errors.New("command hash does not match payload")
	ErrSignatureMismatch = errors.New("signature count does not match signer count")
)
