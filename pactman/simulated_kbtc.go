package pactman

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/TEENet-io/kbridge-go/pact"
)

var (
	reDetails   = regexp.MustCompile(`^\(kbtc\.details ("(?:[^"\\]|\\.)*")\)$`)
	reSupply    = regexp.MustCompile(`^\(kbtc\.get-supply\)$`)
	reSellToken = regexp.MustCompile(`^\(kbtc\.sell-token ("(?:[^"\\]|\\.)*") ("(?:[^"\\]|\\.)*") ("(?:[^"\\]|\\.)*") ([0-9]+\.[0-9]+)\)$`)
	reBuyToken  = regexp.MustCompile(`^\(kbtc\.buy-token ("(?:[^"\\]|\\.)*") \(read-keyset "ks"\) ("(?:[^"\\]|\\.)*")\)$`)
)

// SimKbtc is a toy kbtc module for the simulated node: accounts with
// balances, a total supply, and sell/buy requests that hand out ids.
// Balances are fixed at construction; requests never move funds.
type SimKbtc struct {
	mu       sync.Mutex
	balances map[string]float64
	nextId   int
}

func NewSimKbtc(balances map[string]float64) *SimKbtc {
	b := make(map[string]float64, len(balances))
	for k, v := range balances {
		b[k] = v
	}
	return &SimKbtc{balances: b, nextId: 1}
}

func (k *SimKbtc) Balance(account string) (float64, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.balances[account]
	return v, ok
}

// Exec is an ExecFunc. Sell requests are checked against balances but not
// applied, so a /local dry-run followed by /send sees the same state.
func (k *SimKbtc) Exec(p *pact.CmdPayload) pact.Result {
	k.mu.Lock()
	defer k.mu.Unlock()

	code := p.Payload.Exec.Code
	switch {
	case reDetails.MatchString(code):
		account := unquote(reDetails.FindStringSubmatch(code)[1])
		bal, ok := k.balances[account]
		if !ok {
			return Failure(fmt.Sprintf("with-read: row not found: %s", account))
		}
		return Success(map[string]interface{}{"account": account, "balance": bal})

	case reSupply.MatchString(code):
		var supply float64
		for _, v := range k.balances {
			supply += v
		}
		return Success(map[string]interface{}{"supply": supply})

	case reSellToken.MatchString(code):
		m := reSellToken.FindStringSubmatch(code)
		account := unquote(m[3])
		amount, _ := strconv.ParseFloat(m[4], 64)
		bal, ok := k.balances[account]
		if !ok {
			return Failure(fmt.Sprintf("with-read: row not found: %s", account))
		}
		if amount > bal {
			return Failure("Insufficient funds")
		}
		return Success(map[string]interface{}{"request-id": k.requestId()})

	case reBuyToken.MatchString(code):
		data, _ := p.Payload.Exec.Data.(map[string]interface{})
		if _, ok := data["ks"]; !ok {
			return Failure("No such key in message: ks")
		}
		return Success(map[string]interface{}{"request-id": k.requestId()})
	}
	return Failure("Cannot resolve " + code)
}

func (k *SimKbtc) requestId() string {
	id := fmt.Sprintf("R%06d", k.nextId)
	k.nextId++
	return id
}

func unquote(s string) string {
	v, err := strconv.Unquote(s)
	if err != nil {
		return s
	}
	return v
}
