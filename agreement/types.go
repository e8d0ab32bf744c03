// Global agreement on types shared by the mint, redeem and proof-of-assets sides.

package agreement

import "fmt"

const AddressNotImplemented = "not implemented yet"

// Token is one bridgeable asset.
type Token struct {
	Symbol  string
	Fee     float64 // fraction of the amount, 0.002 = 0.2%
	Min     float64 // minimum deposit, in token units
	Address string  // bridge controlled deposit address
}

func (t Token) FeePercent() float64 {
	return t.Fee * 100.0
}

func (t Token) Enabled() bool {
	return t.Address != AddressNotImplemented && t.Address != ""
}

func (t Token) String() string {
	return fmt.Sprintf("%s (fee %.2f%%, min %v)", t.Symbol, t.FeePercent(), t.Min)
}

const (
	TokenBTC = "BTC"
	TokenETH = "ETH"
	TokenDAI = "DAI"

	// Bridge controlled BTC address.
	BtcVaultAddress = "35hK24tcLEWcgNA4JxpvbkNkoAcDGqQPsP"
)

// AllTokens returns a fresh copy of the supported token table.
func AllTokens() map[string]Token {
	return map[string]Token{
		TokenBTC: {Symbol: TokenBTC, Fee: 0.002, Min: 0.01, Address: BtcVaultAddress},
		TokenETH: {Symbol: TokenETH, Fee: 0.002, Min: 0.3, Address: AddressNotImplemented},
		TokenDAI: {Symbol: TokenDAI, Fee: 0.002, Min: 100, Address: AddressNotImplemented},
	}
}

// Status of a node interaction as shown to the user.
type Status string

const (
	StatusNone    Status = ""
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)
