// Package keyset converts between the free-form "account / keyset" text field
// and its structured form.
//
// Two forms are accepted:
//
//	fce0a17ac6a9ad592d344da74a84d3516330f4580689797189a89b881f904d51
//	{"account":"alice","keyset":{"pred":"keys-all","keys":["fce0..."]}}
//
// The first one is shorthand for an account named after its only key.
package keyset

import (
	"encoding/json"

	"github.com/TEENet-io/kbridge-go/common"
)

const (
	PredKeysAll = "keys-all"
	PredKeysAny = "keys-any"
	PredKeys2   = "keys-2"

	PublicKeyHexLen = 64
)

type Keyset struct {
	Pred string   `json:"pred"`
	Keys []string `json:"keys"`
}

type KeysetSpec struct {
	Account string `json:"account"`
	Keyset  Keyset `json:"keyset"`
}

// raw mirrors KeysetSpec with pointers so missing fields can be told apart
// from empty ones.
type raw struct {
	Account *string `json:"account"`
	Keyset  *struct {
		Pred *string   `json:"pred"`
		Keys *[]string `json:"keys"`
	} `json:"keyset"`
}

// Parse returns nil when text is neither a keyset JSON object nor a single
// 64 hex character public key.
func Parse(text string) *KeysetSpec {
	if spec, ok := parseJSON(text); ok {
		return spec
	}
	if common.IsHexOfLen(text, PublicKeyHexLen) {
		return Single(text)
	}
	return nil
}

func parseJSON(text string) (*KeysetSpec, bool) {
	var r raw
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, false
	}
	if r.Account == nil || r.Keyset == nil || r.Keyset.Pred == nil || r.Keyset.Keys == nil {
		return nil, false
	}
	if len(*r.Keyset.Keys) == 0 || !IsKnownPred(*r.Keyset.Pred) {
		return nil, false
	}
	return &KeysetSpec{
		Account: *r.Account,
		Keyset: Keyset{
			Pred: *r.Keyset.Pred,
			Keys: *r.Keyset.Keys,
		},
	}, true
}

// IsKnownPred reports whether pred is one of the built-in keyset predicates.
func IsKnownPred(pred string) bool {
	switch pred {
	case PredKeysAll, PredKeysAny, PredKeys2:
		return true
	}
	return false
}

// Single builds the shorthand spec for one public key.
func Single(pubKey string) *KeysetSpec {
	return &KeysetSpec{
		Account: pubKey,
		Keyset:  Keyset{Pred: PredKeysAll, Keys: []string{pubKey}},
	}
}

// IsShorthand reports whether spec can be written as its bare key.
func (s *KeysetSpec) IsShorthand() bool {
	return s.Keyset.Pred == PredKeysAll &&
		len(s.Keyset.Keys) == 1 &&
		s.Keyset.Keys[0] == s.Account
}

// Format is the inverse of Parse. JSON whitespace and key order of the
// original input are not preserved.
func Format(spec *KeysetSpec) string {
	if spec == nil {
		return ""
	}
	if spec.IsShorthand() {
		return spec.Account
	}
	b, err := json.Marshal(spec)
	if err != nil {
		return ""
	}
	return string(b)
}

// IsFieldError flags a field only after something was typed into it.
func IsFieldError(text string, parsed *KeysetSpec) bool {
	return parsed == nil && text != ""
}
