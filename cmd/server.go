// Reporter server = pact node client + btc balance oracle + journal + http reporter.
// All components are configured via environment variables (strings!).

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/kbridge-go/journal"
	"github.com/TEENet-io/kbridge-go/reporter"
)

type emptyStore struct{}

func (emptyStore) GetByRequestKey(string) (*journal.Entry, bool, error) { return nil, false, nil }
func (emptyStore) GetByAccount(string) ([]*journal.Entry, error)         { return nil, nil }

// StartReporterServerAndWait blocks until SIGINT/SIGTERM.
func StartReporterServerAndWait(cfg *KbridgeConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return StartReporterServer(ctx, cfg)
}

// StartReporterServer blocks until ctx is done.
func StartReporterServer(ctx context.Context, cfg *KbridgeConfig) error {
	s, err := NewSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var store reporter.RedemptionStore
	if s.Journal != nil {
		store = s.Journal
	} else {
		logger.Warn("no DB_FILE_PATH, the redemption route will be empty")
		store = emptyStore{}
	}

	h := reporter.NewHttpReporter(cfg.HttpIp, cfg.HttpPort, s.Poa, store)
	logger.WithFields(logger.Fields{"ip": cfg.HttpIp, "port": cfg.HttpPort}).Info("reporter listening")

	if err := h.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("reporter stopped")
	return nil
}
