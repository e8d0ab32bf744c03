package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/kbridge-go/poa"
)

// fileExists checks if a file exists and is readable
func FileExists(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	return true
}

// LoadDotEnv loads KEY=VALUE pairs from files into the environment before
// viper reads it. Variables already set win. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		logger.WithField("file", f).Debug("environment loaded")
	}
	return nil
}

// Shared Helper function. Create a bitcoind backed balance oracle.
func SetupBtcRpcOracle(cfg *KbridgeConfig) (*poa.RpcOracle, error) {
	r, err := poa.NewRpcOracle(&poa.RpcOracleConfig{
		ServerAddr: cfg.BtcRpcServer,
		Port:       cfg.BtcRpcPort,
		Username:   cfg.BtcRpcUsername,
		Pwd:        cfg.BtcRpcPwd,
		MinConf:    poa.CONFIRM_SAFE,
		Params:     cfg.BtcChainConfig,
	})
	if err != nil {
		logger.Errorf("failed to create btc rpc client: %v", err)
		return nil, err
	}
	return r, nil
}
