package pactman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TEENet-io/kbridge-go/pact"
	logger "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// Pactman talks to the JSON API of a Pact node.
type Pactman struct {
	cfg     *PactmanConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	now     func() time.Time
}

func NewPactman(cfg *PactmanConfig) *Pactman {
	c := cfg.withDefaults()
	c.URL = strings.TrimRight(c.URL, "/")

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "pact-node:" + c.URL,
		MaxRequests: 1,
		Timeout:     c.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logger.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("node circuit breaker state change")
		},
		// A node answering 4xx is alive.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if he, ok := err.(*HttpError); ok {
				return he.StatusCode < 500
			}
			return false
		},
	})

	return &Pactman{
		cfg:     c,
		client:  &http.Client{},
		breaker: breaker,
		now:     time.Now,
	}
}

func (pm *Pactman) URL() string {
	return pm.cfg.URL
}

func (pm *Pactman) NetworkId() string {
	return pm.cfg.NetworkId
}

func (pm *Pactman) ChainId() string {
	return pm.cfg.ChainId
}

func (pm *Pactman) BreakerState() gobreaker.State {
	return pm.breaker.State()
}

// Local runs a signed command without committing it.
func (pm *Pactman) Local(ctx context.Context, cmd *pact.Command) (*pact.CommandResult, error) {
	var res pact.CommandResult
	if err := pm.post(ctx, RouteLocal, pm.cfg.RequestTimeout, cmd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Simulate is Local under the name the redeem workflow uses.
func (pm *Pactman) Simulate(ctx context.Context, cmd *pact.Command) (*pact.CommandResult, error) {
	return pm.Local(ctx, cmd)
}

// Query runs read-only code with envData through /local, unsigned.
func (pm *Pactman) Query(ctx context.Context, code string, envData map[string]interface{}) (*pact.CommandResult, error) {
	req, err := pm.MkQuery(code, envData)
	if err != nil {
		return nil, err
	}
	return pm.Local(ctx, &req.Cmds[0])
}

// MkQuery builds the unsigned command Query sends.
func (pm *Pactman) MkQuery(code string, envData map[string]interface{}) (*pact.SendRequest, error) {
	now := pm.now()
	meta := pact.MkMeta("", pm.cfg.ChainId, queryGasPrice, queryGasLimit, now.Unix(), queryTTL)
	var data interface{}
	if envData != nil {
		data = envData
	}
	return pact.CreateExecCommand(nil, pact.Nonce(now), code, data, meta, pm.cfg.NetworkId)
}

// Send broadcasts the commands and returns their request keys.
func (pm *Pactman) Send(ctx context.Context, req *pact.SendRequest) ([]string, error) {
	if req == nil || len(req.Cmds) == 0 {
		return nil, ErrNoCommands
	}
	var res pact.SendResponse
	if err := pm.post(ctx, RouteSend, pm.cfg.RequestTimeout, req, &res); err != nil {
		return nil, err
	}
	if len(res.RequestKeys) == 0 {
		return nil, ErrNoRequestKeys
	}
	logger.WithField("requestKeys", res.RequestKeys).Debug("commands sent")
	return res.RequestKeys, nil
}

// Listen blocks until the node has a result for requestKey.
func (pm *Pactman) Listen(ctx context.Context, requestKey string) (*pact.CommandResult, error) {
	var res pact.CommandResult
	err := pm.post(ctx, RouteListen, pm.cfg.ListenTimeout, &pact.ListenRequest{Listen: requestKey}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// BuildCommand creates an unsigned command on the configured network.
func (pm *Pactman) BuildCommand(signers []pact.Signer, nonce string, code string, data interface{}, meta pact.Meta) (*pact.SendRequest, error) {
	return pact.CreateExecCommand(signers, nonce, code, data, meta, pm.cfg.NetworkId)
}

func (pm *Pactman) Sign(msg string, kp pact.KeyPair) (*pact.SignResult, error) {
	return pact.Sign(msg, kp)
}

func (pm *Pactman) post(ctx context.Context, route string, timeout time.Duration, in interface{}, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := pm.cfg.URL + route
	resBody, err := pm.breaker.Execute(func() ([]byte, error) {
		return pm.do(ctx, url, body)
	})
	if err != nil {
		logger.WithField("url", url).Errorf("node request failed: %v", err)
		return err
	}

	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("cannot decode response of %s: %w", route, err)
	}
	return nil
}

func (pm *Pactman) do(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := pm.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HttpError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, nil
}
