package pactman

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

type testEnv struct {
	ctx  context.Context
	kbtc *SimKbtc
	node *SimNode
	pm   *Pactman
	kp   pact.KeyPair
}

func newTestEnv(t *testing.T) (*testEnv, func()) {
	kbtc := NewSimKbtc(map[string]float64{"alice": 2.5})
	node := NewSimNode(kbtc.Exec)
	pm := NewPactman(&PactmanConfig{URL: node.URL() + "/", NetworkId: "testnet"})
	kp, err := pact.GenKeyPair()
	assert.NoError(t, err)

	return &testEnv{
		ctx:  context.Background(),
		kbtc: kbtc,
		node: node,
		pm:   pm,
		kp:   kp,
	}, node.Close
}

func (env *testEnv) signedCommand(t *testing.T, code string) *pact.Command {
	meta := pact.MkMeta("alice", "0", 0.00001, 600, time.Now().Unix(), 28800)
	req, err := env.pm.BuildCommand(pact.MkSigners([]string{env.kp.Public}), pact.Nonce(time.Now()), code, nil, meta)
	assert.NoError(t, err)
	cmd := req.Cmds[0]
	sig, err := env.pm.Sign(cmd.Cmd, env.kp)
	assert.NoError(t, err)
	cmd.Sigs = []pact.Sig{{Sig: sig.Sig}}
	return &cmd
}

func TestDefaults(t *testing.T) {
	pm := NewPactman(&PactmanConfig{})
	assert.Equal(t, DefaultNodeURL, pm.URL())
	assert.Equal(t, DefaultChainId, pm.ChainId())
	assert.Equal(t, "", pm.NetworkId())
	assert.Equal(t, gobreaker.StateClosed, pm.BreakerState())
}

func TestQuery(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	res, err := env.pm.Query(env.ctx, `(kbtc.details "alice")`, nil)
	assert.NoError(t, err)
	assert.True(t, res.IsSuccess())
	bal, ok := res.DataField("balance")
	assert.True(t, ok)
	assert.Equal(t, "2.5", bal)

	res, err = env.pm.Query(env.ctx, `(kbtc.details "bob")`, nil)
	assert.NoError(t, err)
	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.ErrorMessage(), "row not found")

	res, err = env.pm.Query(env.ctx, `(kbtc.get-supply)`, nil)
	assert.NoError(t, err)
	supply, _ := res.DataField("supply")
	assert.Equal(t, "2.5", supply)

	req, err := env.pm.MkQuery("(kbtc.get-supply)", map[string]interface{}{"a": 1})
	assert.NoError(t, err)
	p, err := req.Cmds[0].Decode()
	assert.NoError(t, err)
	assert.Equal(t, "testnet", *p.NetworkId)
	assert.Empty(t, p.Signers)
}

func TestLocalSendListen(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	cmd := env.signedCommand(t, `(kbtc.sell-token "35hK24tcLEWcgNA4JxpvbkNkoAcDGqQPsP" "n" "alice" 1.5)`)

	res, err := env.pm.Simulate(env.ctx, cmd)
	assert.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, 1, env.node.LocalCalls())

	keys, err := env.pm.Send(env.ctx, &pact.SendRequest{Cmds: []pact.Command{*cmd}})
	assert.NoError(t, err)
	assert.Equal(t, []string{cmd.Hash}, keys)
	assert.Len(t, env.node.Sent(), 1)

	res, err = env.pm.Listen(env.ctx, keys[0])
	assert.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, cmd.Hash, res.ReqKey)
	id, ok := res.DataField("request-id")
	assert.True(t, ok)
	assert.NotEmpty(t, id)

	// neither the dry run nor the send moves funds
	bal, _ := env.kbtc.Balance("alice")
	assert.Equal(t, 2.5, bal)
}

func TestBadSignatureIsRejected(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	cmd := env.signedCommand(t, `(kbtc.get-supply)`)
	other, _ := pact.GenKeyPair()
	sig, _ := pact.Sign(cmd.Cmd, other)
	cmd.Sigs = []pact.Sig{{Sig: sig.Sig}}

	_, err := env.pm.Local(env.ctx, cmd)
	assert.Error(t, err)
	httpErr, ok := err.(*HttpError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "Validation failed")
	assert.Contains(t, httpErr.Body, pact.ErrBadSignature.Error())

	_, err = env.pm.Send(env.ctx, &pact.SendRequest{})
	assert.Equal(t, ErrNoCommands, err)
}

func TestListenUnknownKey(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	_, err := env.pm.Listen(env.ctx, "nope")
	assert.Error(t, err)

	env.node.SetResult("nope", Failure("reverted"))
	res, err := env.pm.Listen(env.ctx, "nope")
	assert.NoError(t, err)
	assert.False(t, res.IsSuccess())
	assert.Equal(t, "reverted", res.ErrorMessage())
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	pm := NewPactman(&PactmanConfig{URL: srv.URL, MaxFailures: 2, BreakerTimeout: time.Minute})
	for i := 0; i < 2; i++ {
		_, err := pm.Query(context.Background(), "(kbtc.get-supply)", nil)
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, pm.BreakerState())

	_, err := pm.Query(context.Background(), "(kbtc.get-supply)", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestSendNoRequestKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"requestKeys":[]}`))
	}))
	defer srv.Close()

	pm := NewPactman(&PactmanConfig{URL: srv.URL})
	req, _ := pm.MkQuery("(f)", nil)
	_, err := pm.Send(context.Background(), req)
	assert.Equal(t, ErrNoRequestKeys, err)
}
