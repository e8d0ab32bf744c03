package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllTokens(t *testing.T) {
	tokens := AllTokens()
	assert.Len(t, tokens, 3)

	btc := tokens[TokenBTC]
	assert.True(t, btc.Enabled())
	assert.Equal(t, BtcVaultAddress, btc.Address)
	assert.InDelta(t, 0.2, btc.FeePercent(), 1e-9)
	assert.Equal(t, 0.01, btc.Min)

	assert.False(t, tokens[TokenETH].Enabled())
	assert.False(t, tokens[TokenDAI].Enabled())

	// copies are independent
	tokens[TokenBTC] = Token{}
	assert.True(t, AllTokens()[TokenBTC].Enabled())
}
