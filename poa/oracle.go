package poa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

const (
	DefaultOracleURL = "https://blockchain.info"

	defaultOracleTimeout  = 15 * time.Second
	defaultMaxFailures    = 3
	defaultBreakerTimeout = time.Minute
)

var ErrBadBalance = errors.New("balance oracle returned a non numeric answer")

// BalanceOracle reports how many satoshis an address holds.
type BalanceOracle interface {
	Balance(ctx context.Context, address string) (int64, error)
}

type HttpOracleConfig struct {
	// URL of a blockchain.info style API serving /q/addressbalance/<address>.
	URL            string
	Timeout        time.Duration
	MaxFailures    uint32
	BreakerTimeout time.Duration
}

// HttpOracle reads balances from a public block explorer API.
type HttpOracle struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int64]
}

func NewHttpOracle(cfg *HttpOracleConfig) *HttpOracle {
	url := cfg.URL
	if url == "" {
		url = DefaultOracleURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultOracleTimeout
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout == 0 {
		breakerTimeout = defaultBreakerTimeout
	}

	return &HttpOracle{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
			Name:    "btc-oracle",
			Timeout: breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logger.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("oracle circuit breaker state change")
			},
		}),
	}
}

func (o *HttpOracle) Balance(ctx context.Context, address string) (int64, error) {
	return o.breaker.Execute(func() (int64, error) {
		return o.fetch(ctx, address)
	})
}

func (o *HttpOracle) fetch(ctx context.Context, address string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url+"/q/addressbalance/"+address, nil)
	if err != nil {
		return 0, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("oracle responded %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	sats, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadBalance, strings.TrimSpace(string(b)))
	}
	return sats, nil
}
