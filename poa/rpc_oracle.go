package poa

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
)

const (
	CONFIRM_SAFE = 6 // confirmations before a UTXO counts as held
	MAX_CONFIRM  = 9999999
)

type RpcOracleConfig struct {
	ServerAddr string // ip address of bitcoind
	Port       string
	Username   string
	Pwd        string

	// Minimum confirmations of a counted UTXO.
	MinConf int
	Params  *chaincfg.Params
}

// RpcOracle sums the UTXOs a bitcoind node tracks for an address. The
// address must be imported (watch-only) into the node's wallet.
type RpcOracle struct {
	minConf int
	params  *chaincfg.Params
	client  *rpcclient.Client
}

func NewRpcOracle(cfg *RpcOracleConfig) (*RpcOracle, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.ServerAddr + ":" + cfg.Port,
		User:         cfg.Username,
		Pass:         cfg.Pwd,
		HTTPPostMode: true, // bitcoind only supports HTTP POST mode
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, err
	}

	params := cfg.Params
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &RpcOracle{minConf: cfg.MinConf, params: params, client: client}, nil
}

func (r *RpcOracle) Close() {
	r.client.Shutdown()
}

// Balance is 0 both for an empty address and for one the node does not track.
func (r *RpcOracle) Balance(ctx context.Context, address string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	addr, err := btcutil.DecodeAddress(address, r.params)
	if err != nil {
		return 0, fmt.Errorf("invalid btc address %s: %w", address, err)
	}

	unspent, err := r.client.ListUnspentMinMaxAddresses(r.minConf, MAX_CONFIRM, []btcutil.Address{addr})
	if err != nil {
		return 0, err
	}

	var total btcutil.Amount
	for _, u := range unspent {
		amt, err := btcutil.NewAmount(u.Amount)
		if err != nil {
			return 0, err
		}
		total += amt
	}
	return int64(total), nil
}

// LatestBlockHeight doubles as a liveness check of the node.
func (r *RpcOracle) LatestBlockHeight() (int64, error) {
	return r.client.GetBlockCount()
}
