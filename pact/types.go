package pact

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Cap is a capability a signer scopes its signature to.
type Cap struct {
	Name string        `json:"name"`
	Args []interface{} `json:"args"`
}

type Signer struct {
	PubKey string `json:"pubKey"`
	Clist  []Cap  `json:"clist,omitempty"`
}

// Meta is the public (gas, ttl, chain) part of a command.
type Meta struct {
	CreationTime int64   `json:"creationTime"`
	TTL          int64   `json:"ttl"`
	GasLimit     int64   `json:"gasLimit"`
	ChainId      string  `json:"chainId"`
	GasPrice     float64 `json:"gasPrice"`
	Sender       string  `json:"sender"`
}

type ExecPayload struct {
	Data interface{} `json:"data"`
	Code string      `json:"code"`
}

type Payload struct {
	Exec *ExecPayload `json:"exec"`
}

// CmdPayload is what gets serialized, hashed and signed.
type CmdPayload struct {
	NetworkId *string  `json:"networkId"`
	Payload   Payload  `json:"payload"`
	Signers   []Signer `json:"signers"`
	Meta      Meta     `json:"meta"`
	Nonce     string   `json:"nonce"`
}

type Sig struct {
	Sig string `json:"sig"`
}

// Command is the wire form: hash and signatures over the serialized payload.
type Command struct {
	Hash string `json:"hash"`
	Sigs []Sig  `json:"sigs"`
	Cmd  string `json:"cmd"`
}

type SendRequest struct {
	Cmds []Command `json:"cmds"`
}

type SendResponse struct {
	RequestKeys []string `json:"requestKeys"`
}

type ListenRequest struct {
	Listen string `json:"listen"`
}

type ResultError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type Result struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  *ResultError    `json:"error,omitempty"`
}

type CommandResult struct {
	ReqKey string          `json:"reqKey,omitempty"`
	Result Result          `json:"result"`
	TxId   *int64          `json:"txId,omitempty"`
	Gas    int64           `json:"gas,omitempty"`
	Meta   json.RawMessage `json:"metaData,omitempty"`
}

func (r *CommandResult) IsSuccess() bool {
	return r != nil && r.Result.Status == StatusSuccess
}

// ErrorMessage returns the node supplied message, or "" when the result
// carries no structured error.
func (r *CommandResult) ErrorMessage() string {
	if r == nil || r.Result.Error == nil {
		return ""
	}
	return r.Result.Error.Message
}

// DataField returns one field of an object result as text. String values
// are unquoted; anything else is returned as raw JSON.
func (r *CommandResult) DataField(name string) (string, bool) {
	if r == nil || len(r.Result.Data) == 0 {
		return "", false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Result.Data, &obj); err != nil {
		return "", false
	}
	v, ok := obj[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	return decimalText(v), true
}

// Pact encodes decimals either as bare numbers or as {"decimal": "1.5"}.
func decimalText(v json.RawMessage) string {
	var d struct {
		Decimal *string `json:"decimal"`
		Int     *string `json:"int"`
	}
	if err := json.Unmarshal(v, &d); err == nil {
		if d.Decimal != nil {
			return *d.Decimal
		}
		if d.Int != nil {
			return *d.Int
		}
	}
	text := strings.TrimSpace(string(v))
	// small numbers may come in exponent form
	if strings.ContainsAny(text, "eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return text
}
