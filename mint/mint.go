// Package mint registers a BTC -> KBTC mint request. The node answers with a
// request id; the user then deposits BTC to the bridge address quoting it.
package mint

import (
	"context"
	"fmt"
	"time"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/keyset"
	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/TEENet-io/kbridge-go/pactman"
	logger "github.com/sirupsen/logrus"
)

type Stage int

const (
	StageInput    Stage = iota // token and keyset entry
	StagePrepared              // dry-run succeeded, request id known
	StageSent                  // command submitted
)

type Config struct {
	ChainId  string
	GasPrice float64
	GasLimit int64
	TTL      int64
}

func DefaultConfig() *Config {
	return &Config{
		ChainId:  "0",
		GasPrice: 0.00001,
		GasLimit: 600,
		TTL:      28800,
	}
}

// BuyTokenCode is the mint call. The keyset is passed as env data "ks".
func BuyTokenCode(account, nonce string) string {
	return fmt.Sprintf("(kbtc.buy-token %s (read-keyset \"ks\") %s)", pact.Quote(account), pact.Quote(nonce))
}

// Controller owns one mint session. It is not safe for concurrent use.
type Controller struct {
	cfg    *Config
	cap    agreement.Capability
	tokens map[string]agreement.Token
	now    func() time.Time

	stage      Stage
	tokenType  string
	keysetText string
	spec       *keyset.KeysetSpec

	cmd        *pact.SendRequest
	requestId  string
	requestKey string
	errMsg     string
}

func NewController(cfg *Config, cap agreement.Capability) *Controller {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Controller{
		cfg:       cfg,
		cap:       cap,
		tokens:    agreement.AllTokens(),
		now:       time.Now,
		tokenType: agreement.TokenBTC,
	}
}

func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Controller) Stage() Stage       { return c.stage }
func (c *Controller) ErrMsg() string     { return c.errMsg }
func (c *Controller) RequestId() string  { return c.requestId }
func (c *Controller) RequestKey() string { return c.requestKey }
func (c *Controller) TokenType() string  { return c.tokenType }

func (c *Controller) token() agreement.Token {
	return c.tokens[c.tokenType]
}

func (c *Controller) SendToAddress() string { return c.token().Address }
func (c *Controller) TxFeePercent() float64 { return c.token().FeePercent() }
func (c *Controller) TxMin() float64        { return c.token().Min }

func (c *Controller) SetTokenType(symbol string) error {
	if c.stage != StageInput {
		return ErrWrongStage("set token", c.stage)
	}
	if _, ok := c.tokens[symbol]; !ok {
		return fmt.Errorf("unknown token %q", symbol)
	}
	c.tokenType = symbol
	return nil
}

// SetKeyset parses the account / keyset field. Whatever was typed is kept
// so KeysetError can flag it.
func (c *Controller) SetKeyset(text string) error {
	if c.stage != StageInput {
		return ErrWrongStage("set keyset", c.stage)
	}
	c.keysetText = text
	c.spec = keyset.Parse(text)
	if c.spec == nil {
		return ErrInvalidKeyset
	}
	return nil
}

func (c *Controller) Keyset() *keyset.KeysetSpec { return c.spec }

func (c *Controller) KeysetText() string {
	if c.spec != nil {
		return keyset.Format(c.spec)
	}
	return c.keysetText
}

func (c *Controller) KeysetError() bool {
	return keyset.IsFieldError(c.keysetText, c.spec)
}

// Command is the prepared, unsigned mint command.
func (c *Controller) Command() *pact.SendRequest { return c.cmd }

// Prepare builds the mint command and dry-runs it. The request id handed
// out by the node is only known after a successful dry-run.
func (c *Controller) Prepare(ctx context.Context) error {
	if c.stage != StageInput {
		return ErrWrongStage("prepare", c.stage)
	}
	if c.spec == nil {
		return ErrInvalidKeyset
	}
	if !c.token().Enabled() {
		return ErrTokenNotSupported
	}
	c.errMsg = ""

	now := c.now()
	nonce := pact.Nonce(now)
	code := BuyTokenCode(c.spec.Account, nonce)
	meta := pact.MkMeta("", c.cfg.ChainId, c.cfg.GasPrice, c.cfg.GasLimit, now.Unix(), c.cfg.TTL)
	envData := map[string]interface{}{"ks": c.spec.Keyset}

	req, err := c.cap.BuildCommand(nil, nonce, code, envData, meta)
	if err != nil {
		c.errMsg = fmt.Sprintf("cannot build command: %v", err)
		return err
	}

	res, err := c.cap.Simulate(ctx, &req.Cmds[0])
	if err != nil {
		logger.Errorf("mint dry-run failed: %v", err)
		c.errMsg = fmt.Sprintf("Error contacting node (%v)", err)
		return err
	}
	if !res.IsSuccess() {
		c.errMsg = fmt.Sprintf("Error contacting node (%s)", res.ErrorMessage())
		return fmt.Errorf("mint dry-run failed: %s", res.ErrorMessage())
	}
	requestId, ok := res.DataField("request-id")
	if !ok {
		c.errMsg = ErrNoRequestId.Error()
		return ErrNoRequestId
	}

	c.cmd = req
	c.requestId = requestId
	c.stage = StagePrepared
	logger.WithFields(logger.Fields{"account": c.spec.Account, "requestId": requestId}).Info("mint request prepared")
	return nil
}

// Send submits the prepared command. The stage only advances once the node
// accepted it.
func (c *Controller) Send(ctx context.Context) error {
	if c.stage != StagePrepared {
		return ErrWrongStage("send", c.stage)
	}
	keys, err := c.cap.Send(ctx, c.cmd)
	if err == nil && len(keys) == 0 {
		err = pactman.ErrNoRequestKeys
	}
	if err != nil {
		logger.Errorf("failed to send mint command: %v", err)
		c.errMsg = fmt.Sprintf("Error contacting node (%v)", err)
		return err
	}
	c.requestKey = keys[0]
	c.stage = StageSent
	logger.WithField("requestKey", c.requestKey).Info("mint command sent")
	return nil
}

// Back steps one stage backward and clears the error.
func (c *Controller) Back() {
	if c.stage > StageInput {
		c.stage--
	}
	c.errMsg = ""
}
