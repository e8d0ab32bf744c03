package pactman

import "time"

const (
	DefaultNodeURL = "http://localhost:4443"
	DefaultChainId = "0"

	defaultRequestTimeout = 30 * time.Second
	defaultListenTimeout  = 3 * time.Minute
	defaultMaxFailures    = 5
	defaultBreakerTimeout = 30 * time.Second

	// Meta for read-only queries sent to /local.
	queryGasPrice = 0.00001
	queryGasLimit = 600
	queryTTL      = 28800
)

const (
	RouteLocal  = "/api/v1/local"
	RouteSend   = "/api/v1/send"
	RouteListen = "/api/v1/listen"
)

type PactmanConfig struct {
	// URL is the base URL of the node, eg. http://localhost:4443
	URL string

	// NetworkId goes into every built command, empty means null.
	NetworkId string

	// ChainId used in metadata of read-only queries.
	ChainId string

	// Timeout of /local and /send calls.
	RequestTimeout time.Duration

	// Timeout of the /listen long-poll.
	ListenTimeout time.Duration

	// Consecutive failures before calls to the node fail fast.
	MaxFailures uint32

	// How long the breaker stays open.
	BreakerTimeout time.Duration
}

func (c *PactmanConfig) withDefaults() *PactmanConfig {
	cfg := *c
	if cfg.URL == "" {
		cfg.URL = DefaultNodeURL
	}
	if cfg.ChainId == "" {
		cfg.ChainId = DefaultChainId
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ListenTimeout == 0 {
		cfg.ListenTimeout = defaultListenTimeout
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = defaultMaxFailures
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = defaultBreakerTimeout
	}
	return &cfg
}
