package cmd

import (
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/journal"
	"github.com/TEENet-io/kbridge-go/mint"
	"github.com/TEENet-io/kbridge-go/pactman"
	"github.com/TEENet-io/kbridge-go/poa"
	"github.com/TEENet-io/kbridge-go/redeem"
)

// Balances of the simulated node and oracle.
var (
	SimKbtcBalances = map[string]float64{
		"alice": 2.5,
		"bob":   0.75,
	}
	SimVaultSatoshi int64 = 325000000
)

// Session wires the node client, the journal and the proof of assets view
// from one configuration.
type Session struct {
	Cfg     *KbridgeConfig
	Pactman *pactman.Pactman
	Journal *journal.Journal // nil without DB_FILE_PATH
	Poa     *poa.Reporter

	simNode   *pactman.SimNode
	rpcOracle *poa.RpcOracle
}

func NewSession(cfg *KbridgeConfig) (*Session, error) {
	s := &Session{Cfg: cfg}

	nodeURL := cfg.NodeURL
	var oracle poa.BalanceOracle
	if cfg.SimulateNode() {
		kbtc := pactman.NewSimKbtc(SimKbtcBalances)
		s.simNode = pactman.NewSimNode(kbtc.Exec)
		nodeURL = s.simNode.URL()
		oracle = poa.NewSimOracle(map[string]int64{cfg.BtcVaultAddr: SimVaultSatoshi})
		logger.WithField("url", nodeURL).Info("started simulated node")
	} else if cfg.BtcRpcServer != "" {
		r, err := SetupBtcRpcOracle(cfg)
		if err != nil {
			return nil, err
		}
		s.rpcOracle = r
		oracle = r
	} else {
		oracle = poa.NewHttpOracle(&poa.HttpOracleConfig{URL: cfg.BtcOracleURL})
	}

	s.Pactman = pactman.NewPactman(&pactman.PactmanConfig{
		URL:       nodeURL,
		NetworkId: cfg.NetworkId,
		ChainId:   cfg.ChainId,
	})

	s.Poa = poa.NewReporter(&poa.Config{
		BtcAddress: cfg.BtcVaultAddr,
		ChainId:    cfg.ChainId,
		Network:    cfg.NetworkId,
	}, oracle, s.Pactman)

	if cfg.DbFilePath != "" {
		j, err := journal.NewJournal(cfg.DbFilePath)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Journal = j
	}
	return s, nil
}

// NewRedeem starts a redemption session on the configured chain.
func (s *Session) NewRedeem() *redeem.Controller {
	cfg := redeem.DefaultConfig()
	cfg.ChainId = s.Cfg.ChainId

	var j agreement.Journal
	if s.Journal != nil {
		j = s.Journal
	}
	return redeem.NewController(cfg, s.Pactman, j)
}

func (s *Session) NewMint() *mint.Controller {
	cfg := mint.DefaultConfig()
	cfg.ChainId = s.Cfg.ChainId
	return mint.NewController(cfg, s.Pactman)
}

func (s *Session) Close() {
	if s.Journal != nil {
		s.Journal.Close()
	}
	if s.rpcOracle != nil {
		s.rpcOracle.Close()
	}
	if s.simNode != nil {
		s.simNode.Close()
	}
}
