// Package poa is the proof of assets view: BTC held by the bridge address
// next to the KBTC supply on chain.
package poa

import (
	"context"
	"fmt"
	"strconv"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/common"
	logger "github.com/sirupsen/logrus"
)

const (
	DefaultKbtcModule = "kbtc"
	btcExplorer       = "https://blockstream.info/address/"
	chainExplorer     = "https://explorer.chainweb.com/"
)

type Config struct {
	BtcAddress string
	KbtcModule string
	Network    string // chainweb network name for explorer links
	ChainId    string
}

type Snapshot struct {
	BtcAddress string `json:"btc_address"`
	BtcAmount  string `json:"btc_amount"` // BTC, or the error text
	BtcOk      bool   `json:"btc_ok"`
	BtcLink    string `json:"btc_link"`

	KbtcModule string `json:"kbtc_module"`
	KbtcAmount string `json:"kbtc_amount"` // supply, or the error text
	KbtcOk     bool   `json:"kbtc_ok"`
	KbtcLink   string `json:"kbtc_link"`
}

type Reporter struct {
	cfg     *Config
	oracle  BalanceOracle
	querier agreement.Querier
}

func NewReporter(cfg *Config, oracle BalanceOracle, querier agreement.Querier) *Reporter {
	c := *cfg
	if c.BtcAddress == "" {
		c.BtcAddress = agreement.BtcVaultAddress
	}
	if c.KbtcModule == "" {
		c.KbtcModule = DefaultKbtcModule
	}
	if c.Network == "" {
		c.Network = "mainnet"
	}
	if c.ChainId == "" {
		c.ChainId = "0"
	}
	return &Reporter{cfg: &c, oracle: oracle, querier: querier}
}

func (r *Reporter) BtcLink() string {
	return btcExplorer + r.cfg.BtcAddress
}

func (r *Reporter) KbtcLink() string {
	return fmt.Sprintf("%s%s/chain/%s", chainExplorer, r.cfg.Network, r.cfg.ChainId)
}

// Snapshot fetches both sides. A failing side carries its error text in
// place of the amount; the other side is still filled.
func (r *Reporter) Snapshot(ctx context.Context) *Snapshot {
	s := &Snapshot{
		BtcAddress: r.cfg.BtcAddress,
		BtcLink:    r.BtcLink(),
		KbtcModule: r.cfg.KbtcModule,
		KbtcLink:   r.KbtcLink(),
	}

	sats, err := r.oracle.Balance(ctx, r.cfg.BtcAddress)
	if err != nil {
		logger.WithField("address", r.cfg.BtcAddress).Errorf("failed to get btc balance: %v", err)
		s.BtcAmount = fmt.Sprintf("Error contacting node (%v)", err)
	} else {
		s.BtcAmount = strconv.FormatFloat(common.SatoshiToBtc(sats), 'f', -1, 64)
		s.BtcOk = true
	}

	supply, err := r.kbtcSupply(ctx)
	if err != nil {
		logger.Errorf("failed to get kbtc supply: %v", err)
		s.KbtcAmount = fmt.Sprintf("Error contacting node (%v)", err)
	} else {
		s.KbtcAmount = supply
		s.KbtcOk = true
	}
	return s
}

func (r *Reporter) kbtcSupply(ctx context.Context) (string, error) {
	res, err := r.querier.Query(ctx, "("+r.cfg.KbtcModule+".get-supply)", nil)
	if err != nil {
		return "", err
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("%s", res.ErrorMessage())
	}
	supply, ok := res.DataField("supply")
	if !ok {
		return "", fmt.Errorf("no supply in result")
	}
	return supply, nil
}
