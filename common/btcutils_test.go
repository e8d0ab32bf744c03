package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBtcAddressShape(t *testing.T) {
	assert.True(t, IsBtcAddressShape("35hK24tcLEWcgNA4JxpvbkNkoAcDGqQPsP"))
	assert.True(t, IsBtcAddressShape("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"))
	// bech32 is not accepted by the redeem form
	assert.False(t, IsBtcAddressShape("bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"))
	// 0, O, I and l are not base58
	assert.False(t, IsBtcAddressShape("35hK24tcLEWcgNA4JxpvbkNkoAcDGqQP0O"))
	assert.False(t, IsBtcAddressShape(""))
}

func TestIsValidBtcAddress(t *testing.T) {
	assert.True(t, IsValidBtcAddress("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", MainNetParams()))
	assert.False(t, IsValidBtcAddress("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN3", MainNetParams()))
	assert.Equal(t, MainNetParams(), NetParams("whatever"))
	assert.Equal(t, "regtest", NetParams("regtest").Name)
}

func TestSatoshiToBtc(t *testing.T) {
	assert.Equal(t, 1.0, SatoshiToBtc(100_000_000))
	assert.Equal(t, 0.0015, SatoshiToBtc(150_000))
}

func TestIsHexOfLen(t *testing.T) {
	assert.True(t, IsHexOfLen(RandHex(32), 64))
	assert.False(t, IsHexOfLen(RandHex(32), 128))
	assert.False(t, IsHexOfLen("zz", 2))
	assert.Equal(t, "abcd...wxyz", Shorten("abcdefghijklmnopqrstuvwxyz", 4))
}
