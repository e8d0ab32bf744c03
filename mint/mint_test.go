package mint

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/TEENet-io/kbridge-go/pactman"
	"github.com/stretchr/testify/assert"
)

const testKey = "fce0a17ac6a9ad592d344da74a84d3516330f4580689797189a89b881f904d51"

var testTime = time.Date(2020, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) (*pactman.SimNode, *pactman.SimKbtc, *Controller, func()) {
	kbtc := pactman.NewSimKbtc(map[string]float64{})
	node := pactman.NewSimNode(kbtc.Exec)
	pm := pactman.NewPactman(&pactman.PactmanConfig{URL: node.URL()})
	ctrl := NewController(nil, pm)
	ctrl.SetClock(func() time.Time { return testTime })
	return node, kbtc, ctrl, node.Close
}

func TestTokenTable(t *testing.T) {
	ctrl := NewController(nil, nil)
	assert.Equal(t, agreement.BtcVaultAddress, ctrl.SendToAddress())
	assert.InDelta(t, 0.2, ctrl.TxFeePercent(), 1e-9)
	assert.Equal(t, 0.01, ctrl.TxMin())

	assert.NoError(t, ctrl.SetTokenType(agreement.TokenDAI))
	assert.Equal(t, agreement.AddressNotImplemented, ctrl.SendToAddress())
	assert.Equal(t, float64(100), ctrl.TxMin())
	assert.Error(t, ctrl.SetTokenType("DOGE"))
}

func TestBuyTokenCode(t *testing.T) {
	assert.Equal(t,
		`(kbtc.buy-token "alice" (read-keyset "ks") "2020-07-01T10:00:00.000Z")`,
		BuyTokenCode("alice", pact.Nonce(testTime)))
}

func TestKeysetField(t *testing.T) {
	ctrl := NewController(nil, nil)
	assert.False(t, ctrl.KeysetError())

	assert.Equal(t, ErrInvalidKeyset, ctrl.SetKeyset("not a key"))
	assert.True(t, ctrl.KeysetError())
	assert.Equal(t, "not a key", ctrl.KeysetText())

	assert.NoError(t, ctrl.SetKeyset(testKey))
	assert.False(t, ctrl.KeysetError())
	assert.Equal(t, testKey, ctrl.Keyset().Account)
	assert.Equal(t, testKey, ctrl.KeysetText())
}

func TestPrepareAndSend(t *testing.T) {
	node, _, ctrl, close := newTestEnv(t)
	defer close()
	ctx := context.Background()

	assert.Equal(t, ErrInvalidKeyset, ctrl.Prepare(ctx))

	assert.NoError(t, ctrl.SetKeyset(`{"account":"bob","keyset":{"pred":"keys-any","keys":["`+testKey+`"]}}`))
	assert.NoError(t, ctrl.Prepare(ctx))
	assert.Equal(t, StagePrepared, ctrl.Stage())
	assert.Equal(t, "R000001", ctrl.RequestId())
	assert.Equal(t, 1, node.LocalCalls())
	assert.Empty(t, node.Sent())

	payload, err := ctrl.Command().Cmds[0].Decode()
	assert.NoError(t, err)
	assert.Equal(t, `(kbtc.buy-token "bob" (read-keyset "ks") "2020-07-01T10:00:00.000Z")`, payload.Payload.Exec.Code)
	assert.Empty(t, payload.Signers)
	ks := payload.Payload.Exec.Data.(map[string]interface{})["ks"].(map[string]interface{})
	assert.Equal(t, "keys-any", ks["pred"])

	assert.Error(t, ctrl.SetKeyset(testKey))

	assert.NoError(t, ctrl.Send(ctx))
	assert.Equal(t, StageSent, ctrl.Stage())
	assert.Len(t, node.Sent(), 1)
	assert.Equal(t, ctrl.Command().Cmds[0].Hash, ctrl.RequestKey())

	ctrl.Back()
	assert.Equal(t, StagePrepared, ctrl.Stage())
}

func TestPrepareUnsupportedToken(t *testing.T) {
	_, _, ctrl, close := newTestEnv(t)
	defer close()

	assert.NoError(t, ctrl.SetKeyset(testKey))
	assert.NoError(t, ctrl.SetTokenType(agreement.TokenETH))
	assert.Equal(t, ErrTokenNotSupported, ctrl.Prepare(context.Background()))
	assert.Equal(t, StageInput, ctrl.Stage())
}

func TestPrepareNodeDown(t *testing.T) {
	node, _, ctrl, close := newTestEnv(t)
	close()
	_ = node

	assert.NoError(t, ctrl.SetKeyset(testKey))
	assert.Error(t, ctrl.Prepare(context.Background()))
	assert.Equal(t, StageInput, ctrl.Stage())
	assert.Contains(t, ctrl.ErrMsg(), "Error contacting node (")
	assert.Equal(t, "", ctrl.RequestId())

	ctrl.Back()
	assert.Equal(t, "", ctrl.ErrMsg())
}

// stubbedSend answers Send with fixed keys and error.
type stubbedSend struct {
	*pactman.Pactman
	keys []string
	err  error
}

func (s stubbedSend) Send(ctx context.Context, req *pact.SendRequest) ([]string, error) {
	return s.keys, s.err
}

func TestSendErrorDoesNotAdvance(t *testing.T) {
	kbtc := pactman.NewSimKbtc(nil)
	node := pactman.NewSimNode(kbtc.Exec)
	defer node.Close()
	pm := pactman.NewPactman(&pactman.PactmanConfig{URL: node.URL()})

	ctrl := NewController(nil, stubbedSend{Pactman: pm, err: errors.New("timeout")})
	assert.NoError(t, ctrl.SetKeyset(testKey))
	assert.NoError(t, ctrl.Prepare(context.Background()))
	assert.Error(t, ctrl.Send(context.Background()))
	assert.Equal(t, StagePrepared, ctrl.Stage())
	assert.Equal(t, "Error contacting node (timeout)", ctrl.ErrMsg())

	// accepted but no request key
	ctrl = NewController(nil, stubbedSend{Pactman: pm, keys: []string{}})
	assert.NoError(t, ctrl.SetKeyset(testKey))
	assert.NoError(t, ctrl.Prepare(context.Background()))
	assert.ErrorIs(t, ctrl.Send(context.Background()), pactman.ErrNoRequestKeys)
	assert.Equal(t, StagePrepared, ctrl.Stage())
	assert.Equal(t, "", ctrl.RequestKey())
	assert.Contains(t, ctrl.ErrMsg(), "Error contacting node (")
}
