package common

import (
	"regexp"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Legacy (P2PKH / P2SH) mainnet address shape accepted by the redeem form.
var btcAddressShape = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)

// IsBtcAddressShape only checks the characters and length, not the checksum.
func IsBtcAddressShape(address string) bool {
	return btcAddressShape.MatchString(address)
}

func IsValidBtcAddress(address string, cfg *chaincfg.Params) bool {
	if _, err := btcutil.DecodeAddress(address, cfg); err != nil {
		return false
	}

	return true
}

func MainNetParams() *chaincfg.Params {
	return &chaincfg.MainNetParams
}

// NetParams maps "mainnet", "testnet" or "regtest" to chain params.
// Unknown names default to mainnet.
func NetParams(name string) *chaincfg.Params {
	switch name {
	case "testnet":
		return &chaincfg.TestNet3Params
	case "regtest":
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// SatoshiToBtc converts an integer satoshi amount to BTC.
func SatoshiToBtc(sats int64) float64 {
	return btcutil.Amount(sats).ToBTC()
}
