package redeem

import (
	"context"
	"strings"
	"testing"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/TEENet-io/kbridge-go/pactman"
	"github.com/stretchr/testify/assert"
)

func TestRedeemOnSimNode(t *testing.T) {
	kbtc := pactman.NewSimKbtc(map[string]float64{testAccount: 2.5})
	node := pactman.NewSimNode(kbtc.Exec)
	defer node.Close()
	pm := pactman.NewPactman(&pactman.PactmanConfig{URL: node.URL(), NetworkId: "testnet"})

	kp, err := pact.GenKeyPair()
	assert.NoError(t, err)
	journal := newFakeJournal()
	ctrl := NewController(nil, pm, journal)
	ctx := context.Background()

	assert.NoError(t, ctrl.SetSendingAccount(testAccount))
	assert.NoError(t, ctrl.SetReceivingAddress(testAddress))
	assert.NoError(t, ctrl.SelectKeys(kp.Public))
	assert.NoError(t, ctrl.LookupAccount(ctx))
	assert.Equal(t, "2.5", ctrl.AccountDetails().Balance)
	assert.NoError(t, ctrl.SetAmount("1.5"))

	assert.NoError(t, ctrl.Prepare())
	assert.Contains(t, ctrl.Code(), testAddress)
	assert.True(t, strings.HasSuffix(ctrl.Code(), " 1.5)"))

	assert.NoError(t, ctrl.SetSignature(0, kp.Secret))
	assert.NoError(t, ctrl.Simulate(ctx))
	assert.Equal(t, agreement.StatusSuccess, ctrl.LocalStatus())

	assert.NoError(t, ctrl.Broadcast(ctx))
	assert.Equal(t, agreement.StatusSuccess, ctrl.SendStatus())
	assert.Equal(t, StageListen, ctrl.Stage())
	assert.NotEmpty(t, ctrl.RequestKey())
	assert.NotEmpty(t, ctrl.RequestId())
	assert.Len(t, node.Sent(), 1)

	rec := journal.records[ctrl.RequestKey()]
	assert.NotNil(t, rec)
	assert.Equal(t, agreement.StatusSuccess, rec.status)
	assert.Equal(t, ctrl.RequestId(), rec.requestId)
}

func TestRedeemOnSimNodeInsufficientFunds(t *testing.T) {
	kbtc := pactman.NewSimKbtc(map[string]float64{testAccount: 1})
	node := pactman.NewSimNode(kbtc.Exec)
	defer node.Close()
	pm := pactman.NewPactman(&pactman.PactmanConfig{URL: node.URL()})

	kp, _ := pact.GenKeyPair()
	ctrl := NewController(nil, pm, nil)
	ctx := context.Background()

	assert.NoError(t, ctrl.SetSendingAccount(testAccount))
	assert.NoError(t, ctrl.SetReceivingAddress(testAddress))
	assert.NoError(t, ctrl.SelectKeys(kp.Public))
	assert.NoError(t, ctrl.SetAmount("3"))
	assert.NoError(t, ctrl.Prepare())
	assert.NoError(t, ctrl.SetSignature(0, kp.Secret))

	assert.Error(t, ctrl.Simulate(ctx))
	assert.Equal(t, agreement.StatusFailure, ctrl.LocalStatus())
	assert.Equal(t, "Insufficient funds", ctrl.ErrMsg())
	assert.Empty(t, node.Sent())

	// unknown account
	ctrl = NewController(nil, pm, nil)
	assert.NoError(t, ctrl.SetSendingAccount("bob"))
	assert.ErrorIs(t, ctrl.LookupAccount(ctx), ErrAccountNotExist)
	assert.Equal(t, ErrMsgAccountNotExist, ctrl.ErrMsg())
}

func TestRedeemOnSimNodeRejectedSignature(t *testing.T) {
	kbtc := pactman.NewSimKbtc(map[string]float64{testAccount: 2.5})
	node := pactman.NewSimNode(kbtc.Exec)
	defer node.Close()
	pm := pactman.NewPactman(&pactman.PactmanConfig{URL: node.URL()})

	kp, _ := pact.GenKeyPair()
	other, _ := pact.GenKeyPair()
	ctrl := NewController(nil, pm, nil)
	ctx := context.Background()

	assert.NoError(t, ctrl.SetSendingAccount(testAccount))
	assert.NoError(t, ctrl.SetReceivingAddress(testAddress))
	assert.NoError(t, ctrl.SelectKeys(kp.Public))
	assert.NoError(t, ctrl.SetAmount("1"))
	assert.NoError(t, ctrl.Prepare())

	// detached signature made with the wrong key
	sig, err := pact.Sign(ctrl.State().(*Prepared).Cmd.Cmd, other)
	assert.NoError(t, err)
	assert.NoError(t, ctrl.SetSignature(0, sig.Sig))

	assert.Error(t, ctrl.Simulate(ctx))
	assert.Equal(t, agreement.StatusFailure, ctrl.LocalStatus())
	assert.Equal(t, "Validation failed: "+pact.ErrBadSignature.Error(), ctrl.ErrMsg())
	assert.Equal(t, StageLocalReady, ctrl.Stage())
}
