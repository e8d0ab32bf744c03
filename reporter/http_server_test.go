package reporter

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/journal"
	"github.com/TEENet-io/kbridge-go/pactman"
	"github.com/TEENet-io/kbridge-go/poa"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type testEnv struct {
	reader  *HttpReader
	journal *journal.Journal
	oracle  *poa.SimOracle
}

func newTestEnv(t *testing.T) (*testEnv, func()) {
	gin.SetMode(gin.TestMode)

	kbtc := pactman.NewSimKbtc(map[string]float64{"alice": 0.5})
	node := pactman.NewSimNode(kbtc.Exec)
	pm := pactman.NewPactman(&pactman.PactmanConfig{URL: node.URL()})
	oracle := poa.NewSimOracle(map[string]int64{agreement.BtcVaultAddress: 50000000})

	j, err := journal.NewJournal(":memory:")
	assert.NoError(t, err)

	h := NewHttpReporter("", "", poa.NewReporter(&poa.Config{}, oracle, pm), j)
	srv := httptest.NewServer(h.SetupRouter())
	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	assert.NoError(t, err)

	close := func() {
		srv.Close()
		node.Close()
		j.Close()
	}
	return &testEnv{reader: NewHttpReader(host, port), journal: j, oracle: oracle}, close
}

func TestHello(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	body, err := env.reader.GetHello()
	assert.NoError(t, err)
	assert.JSONEq(t, `{"message":"world"}`, body)
}

func TestPoa(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	code, body, err := env.reader.GetPoa()
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	var res struct {
		Data poa.Snapshot `json:"data"`
	}
	assert.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, "0.5", res.Data.BtcAmount)
	assert.Equal(t, "0.5", res.Data.KbtcAmount)
	assert.True(t, res.Data.BtcOk)
	assert.True(t, res.Data.KbtcOk)
}

func TestTokens(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	code, body, err := env.reader.GetTokens()
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	var res struct {
		Data []tokenView `json:"data"`
	}
	assert.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Len(t, res.Data, 3)
	assert.Equal(t, "BTC", res.Data[0].Symbol)
	assert.True(t, res.Data[0].Enabled)
	assert.Equal(t, agreement.BtcVaultAddress, res.Data[0].Address)
	assert.Equal(t, "DAI", res.Data[1].Symbol)
	assert.False(t, res.Data[1].Enabled)
}

func TestRedemption(t *testing.T) {
	env, close := newTestEnv(t)
	defer close()

	assert.NoError(t, env.journal.RecordBroadcast("key-1", "alice", agreement.BtcVaultAddress, "0.25"))
	assert.NoError(t, env.journal.RecordOutcome("key-1", agreement.StatusSuccess, "R000001"))

	code, body, err := env.reader.GetRedemptionByRequestKey("key-1")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	var res struct {
		Data []journal.Entry `json:"data"`
	}
	assert.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Len(t, res.Data, 1)
	assert.Equal(t, "R000001", res.Data[0].RequestId)
	assert.Equal(t, agreement.StatusSuccess, res.Data[0].Status)

	code, _, err = env.reader.GetRedemptionByAccount("alice")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	code, _, err = env.reader.GetRedemptionByAccount("bob")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, code)

	code, _, err = env.reader.get(ROUTE_REDEMPTION, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
}
