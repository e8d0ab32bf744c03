package redeem

import (
	"context"
	"errors"
	"fmt"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/common"
	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/TEENet-io/kbridge-go/pactman"
	logger "github.com/sirupsen/logrus"
)

func (c *Controller) advance(ev event) error {
	next, err := transition(c.State(), ev)
	if err != nil {
		return err
	}
	c.history = append(c.history, next)
	logger.WithField("stage", next.Stage()).Debug("redeem stage advanced")
	return nil
}

// Back steps one stage backward and clears the error. Nothing else is
// reset: the state returned to still holds the command and signatures it
// had. At the input stage only the error is cleared.
func (c *Controller) Back() {
	if len(c.history) > 1 {
		c.history = c.history[:len(c.history)-1]
	}
	c.errMsg = ""
}

// SellTokenCode is the redemption call submitted to the chain.
func SellTokenCode(receivingAddress, nonce, sendingAccount, amount string) string {
	return fmt.Sprintf("(kbtc.sell-token %s %s %s %s)",
		pact.Quote(receivingAddress),
		pact.Quote(nonce),
		pact.Quote(sendingAccount),
		common.NormalizeDecimal(amount),
	)
}

// Prepare builds the unsigned command and opens one signature slot per
// selected key.
func (c *Controller) Prepare() error {
	in, err := c.input("prepare")
	if err != nil {
		return err
	}
	if !c.TxReady() {
		return ErrNotTxReady
	}

	amount := in.Amount
	if amount == "" && in.SendMax {
		if c.accountDetails == nil || !common.IsDecimal(c.accountDetails.Balance) {
			c.errMsg = ErrNoAccountDetails.Error()
			return ErrNoAccountDetails
		}
		amount = c.accountDetails.Balance
	}

	now := c.now()
	nonce := pact.Nonce(now)
	code := SellTokenCode(in.ReceivingAddress, nonce, in.SendingAccount, amount)
	meta := pact.MkMeta(
		in.SendingAccount,
		c.cfg.ChainId,
		c.cfg.GasPrice,
		c.cfg.GasLimit,
		now.Add(-c.cfg.CreationTimeOffset).Unix(),
		c.cfg.TTL,
	)

	req, err := c.cap.BuildCommand(pact.MkSigners(in.SelectedKeys), nonce, code, nil, meta)
	if err != nil {
		logger.Errorf("failed to build redeem command: %v", err)
		c.errMsg = fmt.Sprintf("cannot build command: %v", err)
		return err
	}

	return c.advance(evPrepared{
		nonce:  nonce,
		amount: common.NormalizeDecimal(amount),
		code:   code,
		meta:   meta,
		cmd:    req.Cmds[0],
	})
}

func (c *Controller) prepared() (*Prepared, bool) {
	switch s := c.State().(type) {
	case *Prepared:
		return s, true
	case *LocalReady:
		return &s.Prepared, true
	case *Simulated:
		return &s.Prepared, true
	case *Broadcasted:
		return &s.Prepared, true
	case *Listened:
		return &s.Prepared, true
	}
	return nil, false
}

// Code is the generated command text, "" before Prepare.
func (c *Controller) Code() string {
	if p, ok := c.prepared(); ok {
		return p.Code
	}
	return ""
}

func (c *Controller) Hash() string {
	if p, ok := c.prepared(); ok {
		return p.Hash
	}
	return ""
}

// Sigs returns a copy of the signature slots.
func (c *Controller) Sigs() []string {
	if p, ok := c.prepared(); ok {
		return append([]string{}, p.Sigs...)
	}
	return nil
}

// SetSignature fills slot i with a signature or a secret key.
func (c *Controller) SetSignature(i int, value string) error {
	p, ok := c.State().(*Prepared)
	if !ok {
		return ErrWrongStage("set signature", c.Stage())
	}
	if i < 0 || i >= len(p.Sigs) {
		return ErrSlotOutOfRange
	}
	p.Sigs[i] = value
	return nil
}

func (c *Controller) SetSignatures(values []string) error {
	p, ok := c.State().(*Prepared)
	if !ok {
		return ErrWrongStage("set signatures", c.Stage())
	}
	if len(values) != len(p.Sigs) {
		return ErrSlotCountMismatch
	}
	copy(p.Sigs, values)
	return nil
}

func isSlotFilled(v string) bool {
	return len(v) == pact.SignatureHexLen || len(v) == pact.SecretKeyHexLen
}

// LocalReady reports whether every selected key has a signature or a
// secret key slot of the right size. It does not change state.
func (c *Controller) LocalReady() bool {
	p, ok := c.prepared()
	if !ok || !c.TxReady() {
		return false
	}
	filled := 0
	for _, v := range p.Sigs {
		if isSlotFilled(v) {
			filled++
		}
	}
	return filled == len(p.SelectedKeys)
}

// SubmitSignatures freezes the filled slots and moves to the local-ready
// stage. Simulate does this itself when called from the prepare stage.
func (c *Controller) SubmitSignatures() error {
	if _, ok := c.State().(*Prepared); !ok {
		return ErrWrongStage("submit signatures", c.Stage())
	}
	if !c.LocalReady() {
		return ErrNotLocalReady
	}
	return c.advance(evLocalReady{})
}

// Simulate signs where secret keys were given and dry-runs the command on
// the node. Callable from the prepare stage or, to retry, the local-ready
// stage.
func (c *Controller) Simulate(ctx context.Context) error {
	switch c.State().(type) {
	case *Prepared:
		if err := c.SubmitSignatures(); err != nil {
			return err
		}
	case *LocalReady:
	default:
		return ErrWrongStage("simulate", c.Stage())
	}
	lr := c.State().(*LocalReady)
	c.errMsg = ""

	final, err := c.finalize(&lr.Prepared)
	if err != nil {
		c.localStatus = agreement.StatusFailure
		c.errMsg = err.Error()
		return err
	}

	res, err := c.cap.Simulate(ctx, final)
	if err != nil {
		logger.Errorf("local simulation failed: %v", err)
		c.localStatus = agreement.StatusFailure
		c.errMsg = ErrMsgLocalFailed
		// the node explains rejected commands in the response body
		var httpErr *pactman.HttpError
		if errors.As(err, &httpErr) && httpErr.Body != "" {
			c.errMsg = httpErr.Body
		}
		return err
	}
	if !res.IsSuccess() {
		c.localStatus = agreement.StatusFailure
		c.errMsg = res.ErrorMessage()
		if c.errMsg == "" {
			c.errMsg = ErrMsgLocalFailed
		}
		return fmt.Errorf("%s: %s", ErrMsgLocalFailed, c.errMsg)
	}

	c.localStatus = agreement.StatusSuccess
	return c.advance(evSimulated{signed: *final})
}

// finalize turns the slots into signatures. A 64 character slot is a secret
// key for the matching public key, a 128 character slot is a signature.
func (c *Controller) finalize(p *Prepared) (*pact.Command, error) {
	if len(p.Sigs) != len(p.SelectedKeys) {
		return nil, ErrSlotCountMismatch
	}
	sigs := make([]pact.Sig, 0, len(p.Sigs))
	for i, pk := range p.SelectedKeys {
		slot := p.Sigs[i]
		if len(slot) == pact.SecretKeyHexLen {
			res, err := c.cap.Sign(p.Cmd.Cmd, pact.KeyPair{Public: pk, Secret: slot})
			if err != nil {
				return nil, fmt.Errorf("cannot sign for key %s: %w", common.Shorten(pk, 6), err)
			}
			sigs = append(sigs, pact.Sig{Sig: res.Sig})
		} else {
			sigs = append(sigs, pact.Sig{Sig: slot})
		}
	}
	return &pact.Command{Hash: p.Hash, Cmd: p.Cmd.Cmd, Sigs: sigs}, nil
}

// SignedCommand is the command stored by a successful simulation.
func (c *Controller) SignedCommand() (*pact.SendRequest, bool) {
	switch s := c.State().(type) {
	case *Simulated:
		return &s.SendCmd, true
	case *Broadcasted:
		return &s.SendCmd, true
	case *Listened:
		return &s.SendCmd, true
	}
	return nil, false
}

// Broadcast sends the simulated command and then listens for its result.
func (c *Controller) Broadcast(ctx context.Context) error {
	s, ok := c.State().(*Simulated)
	if !ok {
		return ErrWrongStage("broadcast", c.Stage())
	}

	keys, err := c.cap.Send(ctx, &s.SendCmd)
	if err == nil && len(keys) == 0 {
		err = pactman.ErrNoRequestKeys
	}
	if err != nil {
		logger.Errorf("failed to send redeem command: %v", err)
		c.sendStatus = agreement.StatusFailure
		c.errMsg = fmt.Sprintf("Error contacting node (%v)", err)
		return err
	}
	requestKey := keys[0]

	if err := c.advance(evBroadcasted{requestKey: requestKey}); err != nil {
		return err
	}
	if c.journal != nil {
		err := c.journal.RecordBroadcast(requestKey, s.SendingAccount, s.ReceivingAddress, s.NormalizedAmount)
		if err != nil {
			logger.WithField("requestKey", requestKey).Errorf("failed to journal broadcast: %v", err)
		}
	}
	logger.WithField("requestKey", requestKey).Info("redeem command sent")

	return c.Listen(ctx)
}

// RequestKey is known once the command was broadcast.
func (c *Controller) RequestKey() string {
	switch s := c.State().(type) {
	case *Broadcasted:
		return s.RequestKey
	case *Listened:
		return s.RequestKey
	}
	return ""
}

// RequestId is known once the result was received.
func (c *Controller) RequestId() string {
	if s, ok := c.State().(*Listened); ok {
		return s.RequestId
	}
	return ""
}

// Listen waits for the broadcast result. A failure is final for this pass;
// calling Listen again re-polls.
func (c *Controller) Listen(ctx context.Context) error {
	b, ok := c.State().(*Broadcasted)
	if !ok {
		return ErrWrongStage("listen", c.Stage())
	}

	c.sendStatus = agreement.StatusPending
	res, err := c.cap.Listen(ctx, b.RequestKey)
	if err != nil || !res.IsSuccess() {
		c.sendStatus = agreement.StatusFailure
		c.recordOutcome(b.RequestKey, agreement.StatusFailure, "")
		if err != nil {
			logger.WithField("requestKey", b.RequestKey).Errorf("listen failed: %v", err)
			return err
		}
		return fmt.Errorf("redeem failed: %s", res.ErrorMessage())
	}

	requestId, _ := res.DataField("request-id")
	c.sendStatus = agreement.StatusSuccess
	c.recordOutcome(b.RequestKey, agreement.StatusSuccess, requestId)
	logger.WithFields(logger.Fields{"requestKey": b.RequestKey, "requestId": requestId}).Info("redeem request accepted")

	return c.advance(evListened{requestId: requestId})
}

func (c *Controller) recordOutcome(requestKey string, status agreement.Status, requestId string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordOutcome(requestKey, status, requestId); err != nil {
		logger.WithField("requestKey", requestKey).Errorf("failed to journal outcome: %v", err)
	}
}
