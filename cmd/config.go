package cmd

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/common"
	"github.com/TEENet-io/kbridge-go/pactman"
	"github.com/TEENet-io/kbridge-go/poa"
)

const (
	ENV_CONFIG_FILE_PATH = "KBRIDGE_CONFIG"

	// NODE_URL value that starts an in-process simulated node.
	SIM_NODE = "sim"
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type KbridgeConfig struct {
	// pact side
	NodeURL   string // pact node base url, or "sim"
	NetworkId string // empty = null networkId
	ChainId   string

	// btc side
	BtcOracleURL   string           // blockchain.info style api
	BtcVaultAddr   string           // bridge controlled address
	BtcRpcServer   string           // optional bitcoind, preferred over the oracle url
	BtcRpcPort     string           // btc rpc server info
	BtcRpcUsername string           // btc rpc server info
	BtcRpcPwd      string           // btc rpc server info
	BtcChainConfig *chaincfg.Params // mainnet, testnet, regtest

	// state side
	DbFilePath string // redemption journal, empty = no journal

	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080

	LogLevel string
}

func (c *KbridgeConfig) SimulateNode() bool {
	return c.NodeURL == SIM_NODE
}

func InitializeViper(filePath string) error {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	return nil
}

// PrepareKbridgeConfig reads configuration variables from v and fills
// defaults.
func PrepareKbridgeConfig(v *viper.Viper) (*KbridgeConfig, error) {
	v.SetDefault("NODE_URL", pactman.DefaultNodeURL)
	v.SetDefault("CHAIN_ID", pactman.DefaultChainId)
	v.SetDefault("BTC_ORACLE_URL", poa.DefaultOracleURL)
	v.SetDefault("BTC_VAULT_ADDR", agreement.BtcVaultAddress)
	v.SetDefault("BTC_CHAIN_CONFIG", "mainnet")
	v.SetDefault("HTTP_IP", "0.0.0.0")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	params := common.NetParams(v.GetString("BTC_CHAIN_CONFIG"))
	vault := v.GetString("BTC_VAULT_ADDR")
	if !common.IsValidBtcAddress(vault, params) {
		return nil, fmt.Errorf("BTC_VAULT_ADDR %s is not a valid %s address", vault, params.Name)
	}

	return &KbridgeConfig{
		NodeURL:        v.GetString("NODE_URL"),
		NetworkId:      v.GetString("NETWORK_ID"),
		ChainId:        v.GetString("CHAIN_ID"),
		BtcOracleURL:   v.GetString("BTC_ORACLE_URL"),
		BtcVaultAddr:   vault,
		BtcRpcServer:   v.GetString("BTC_RPC_SERVER"),
		BtcRpcPort:     v.GetString("BTC_RPC_PORT"),
		BtcRpcUsername: v.GetString("BTC_RPC_USERNAME"),
		BtcRpcPwd:      v.GetString("BTC_RPC_PWD"),
		BtcChainConfig: params,
		DbFilePath:     v.GetString("DB_FILE_PATH"),
		HttpIp:         v.GetString("HTTP_IP"),
		HttpPort:       v.GetString("HTTP_PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}, nil
}

// LoadConfig is what the command line tools run: .env, then environment,
// then the optional file named by KBRIDGE_CONFIG.
func LoadConfig() (*KbridgeConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	viper.AutomaticEnv()

	configFile := viper.GetString(ENV_CONFIG_FILE_PATH)
	if configFile != "" {
		if !FileExists(configFile) {
			return nil, fmt.Errorf("configuration file not found: %s", configFile)
		}
		if err := InitializeViper(configFile); err != nil {
			return nil, err
		}
	}
	return PrepareKbridgeConfig(viper.GetViper())
}
