package pact

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/TEENet-io/kbridge-go/common"
)

// MkMeta builds command metadata. creationTime is in unix seconds.
func MkMeta(sender, chainId string, gasPrice float64, gasLimit int64, creationTime int64, ttl int64) Meta {
	return Meta{
		CreationTime: creationTime,
		TTL:          ttl,
		GasLimit:     gasLimit,
		ChainId:      chainId,
		GasPrice:     gasPrice,
		Sender:       sender,
	}
}

// MkSigners makes one signer entry per public key, with no capabilities.
func MkSigners(pubKeys []string) []Signer {
	signers := make([]Signer, 0, len(pubKeys))
	for _, pk := range pubKeys {
		signers = append(signers, Signer{PubKey: pk})
	}
	return signers
}

// Nonce formats t the way the bridge contracts expect nonces (ISO-8601, UTC, ms).
func Nonce(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// CreateExecCommand builds an unsigned exec command. An empty networkId is
// serialized as null.
func CreateExecCommand(signers []Signer, nonce string, code string, data interface{}, meta Meta, networkId string) (*SendRequest, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	if signers == nil {
		signers = []Signer{}
	}

	payload := CmdPayload{
		Payload: Payload{Exec: &ExecPayload{Data: data, Code: code}},
		Signers: signers,
		Meta:    meta,
		Nonce:   nonce,
	}
	if networkId != "" {
		payload.NetworkId = &networkId
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	cmd := string(b)

	return &SendRequest{
		Cmds: []Command{{
			Hash: HashBase64(cmd),
			Sigs: []Sig{},
			Cmd:  cmd,
		}},
	}, nil
}

// Decode parses the serialized payload of c.
func (c *Command) Decode() (*CmdPayload, error) {
	var p CmdPayload
	if err := json.Unmarshal([]byte(c.Cmd), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Verify checks the hash and that every signer has a valid signature in order.
func (c *Command) Verify() error {
	if HashBase64(c.Cmd) != c.Hash {
		return ErrHashMismatch
	}
	p, err := c.Decode()
	if err != nil {
		return err
	}
	if len(p.Signers) != len(c.Sigs) {
		return ErrSignatureMismatch
	}
	for i, s := range p.Signers {
		switch {
		case !common.IsHexOfLen(s.PubKey, PublicKeyHexLen):
			return ErrInvalidPublicKey
		case !common.IsHexOfLen(c.Sigs[i].Sig, SignatureHexLen):
			return ErrInvalidSignature
		case !Verify(c.Cmd, s.PubKey, c.Sigs[i].Sig):
			return ErrBadSignature
		}
	}
	return nil
}

// Quote renders s as a Pact string literal.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
