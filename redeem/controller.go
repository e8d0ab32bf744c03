// Package redeem drives a KBTC -> BTC redemption:
// prepare -> simulate locally -> sign -> broadcast -> listen.
package redeem

import (
	"context"
	"fmt"
	"time"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/common"
	"github.com/TEENet-io/kbridge-go/pact"
	logger "github.com/sirupsen/logrus"
)

type Config struct {
	Token agreement.Token

	ChainId            string
	GasPrice           float64
	GasLimit           int64
	TTL                int64         // seconds
	CreationTimeOffset time.Duration // creationTime = now - offset
}

func DefaultConfig() *Config {
	return &Config{
		Token:              agreement.AllTokens()[agreement.TokenBTC],
		ChainId:            "0",
		GasPrice:           0.00001,
		GasLimit:           600,
		TTL:                28800,
		CreationTimeOffset: 60 * time.Second,
	}
}

// Controller owns one redemption session. It is not safe for concurrent use.
type Controller struct {
	cfg     *Config
	cap     agreement.Capability
	journal agreement.Journal // optional
	now     func() time.Time

	history []State // history[0] is always *Input

	accountDetails *AccountDetails
	errMsg         string
	localStatus    agreement.Status
	sendStatus     agreement.Status
}

func NewController(cfg *Config, cap agreement.Capability, journal agreement.Journal) *Controller {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Controller{
		cfg:     cfg,
		cap:     cap,
		journal: journal,
		now:     time.Now,
		history: []State{&Input{}},
	}
}

// SetClock replaces time.Now, for tests.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Controller) State() State {
	return c.history[len(c.history)-1]
}

func (c *Controller) Stage() Stage {
	return c.State().Stage()
}

func (c *Controller) Token() agreement.Token          { return c.cfg.Token }
func (c *Controller) TxFeePercent() float64           { return c.cfg.Token.FeePercent() }
func (c *Controller) TxMin() float64                  { return c.cfg.Token.Min }
func (c *Controller) ErrMsg() string                  { return c.errMsg }
func (c *Controller) LocalStatus() agreement.Status   { return c.localStatus }
func (c *Controller) SendStatus() agreement.Status    { return c.sendStatus }
func (c *Controller) AccountDetails() *AccountDetails { return c.accountDetails }

// Input returns the form data. It survives every back-step.
func (c *Controller) Input() Input {
	in := *c.history[0].(*Input)
	in.SelectedKeys = append([]string{}, in.SelectedKeys...)
	return in
}

func (c *Controller) input(op string) (*Input, error) {
	in, ok := c.State().(*Input)
	if !ok {
		return nil, ErrWrongStage(op, c.Stage())
	}
	return in, nil
}

func (c *Controller) SetSendingAccount(account string) error {
	in, err := c.input("set sending account")
	if err != nil {
		return err
	}
	in.SendingAccount = account
	return nil
}

func (c *Controller) SetReceivingAddress(address string) error {
	in, err := c.input("set receiving address")
	if err != nil {
		return err
	}
	in.ReceivingAddress = address
	return nil
}

func (c *Controller) SetAmount(amount string) error {
	in, err := c.input("set amount")
	if err != nil {
		return err
	}
	in.Amount = amount
	return nil
}

// SetSendMax marks the redemption as "everything"; the amount is filled in
// from the account balance, now if it is known or else when preparing.
func (c *Controller) SetSendMax(sendMax bool) error {
	in, err := c.input("set send max")
	if err != nil {
		return err
	}
	in.SendMax = sendMax
	if sendMax && c.accountDetails != nil {
		in.Amount = c.accountDetails.Balance
	}
	return nil
}

// SelectKeys sets the signer public keys, in signing order.
func (c *Controller) SelectKeys(keys ...string) error {
	in, err := c.input("select keys")
	if err != nil {
		return err
	}
	in.SelectedKeys = append([]string{}, keys...)
	return nil
}

// UseMaxAmount copies the looked up balance into the amount.
func (c *Controller) UseMaxAmount() error {
	in, err := c.input("use max amount")
	if err != nil {
		return err
	}
	if c.accountDetails == nil {
		return ErrNoAccountDetails
	}
	in.Amount = c.accountDetails.Balance
	return nil
}

// TxReady gates Prepare.
func (c *Controller) TxReady() bool {
	in := c.history[0].(*Input)
	amountOk := (in.Amount != "" && common.IsDecimal(in.Amount)) || (in.Amount == "" && in.SendMax)
	return common.IsBtcAddressShape(in.ReceivingAddress) &&
		in.SendingAccount != "" &&
		c.errMsg == "" &&
		amountOk &&
		len(in.SelectedKeys) > 0
}

// LookupAccount loads the balance of the sending account. Any failure is
// reported to the user as a missing account.
func (c *Controller) LookupAccount(ctx context.Context) error {
	in := c.history[0].(*Input)
	code := "(kbtc.details " + pact.Quote(in.SendingAccount) + ")"

	res, err := c.cap.Query(ctx, code, nil)
	if err != nil || !res.IsSuccess() {
		if err == nil {
			logger.WithField("account", in.SendingAccount).Debugf("account lookup failed: %s", res.ErrorMessage())
		} else {
			logger.WithField("account", in.SendingAccount).Debugf("account lookup failed: %v", err)
		}
		c.errMsg = ErrMsgAccountNotExist
		c.accountDetails = nil
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAccountNotExist, err)
		}
		return ErrAccountNotExist
	}

	balance, ok := res.DataField("balance")
	if !ok || !common.IsDecimal(balance) {
		logger.WithField("account", in.SendingAccount).Debugf("account lookup returned no usable balance: %s", res.Result.Data)
		c.errMsg = ErrMsgAccountNotExist
		c.accountDetails = nil
		return ErrAccountNotExist
	}
	c.accountDetails = &AccountDetails{
		Account: in.SendingAccount,
		Balance: balance,
		Raw:     res.Result.Data,
	}
	c.errMsg = ""
	return nil
}
