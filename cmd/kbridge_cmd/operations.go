package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TEENet-io/kbridge-go/cmd"
	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/TEENet-io/kbridge-go/redeem"
)

func genKeyPair() {
	kp, err := pact.GenKeyPair()
	if err != nil {
		fmt.Printf("Error generating key pair: %s\n", err)
		return
	}
	fmt.Printf("Public key: %s\n", kp.Public)
	fmt.Printf("Secret key: %s\n", kp.Secret)
}

func showPoa(ctx context.Context, s *cmd.Session) {
	snap := s.Poa.Snapshot(ctx)
	fmt.Printf("BTC held by %s: %s\n", snap.BtcAddress, snap.BtcAmount)
	fmt.Printf("  %s\n", snap.BtcLink)
	fmt.Printf("KBTC in circulation: %s\n", snap.KbtcAmount)
	fmt.Printf("  %s\n", snap.KbtcLink)
}

func runMint(ctx context.Context, s *cmd.Session, p *prompter) {
	m := s.NewMint()
	fmt.Printf("Send BTC to %s (fee %.2f%%, min %v BTC)\n", m.SendToAddress(), m.TxFeePercent(), m.TxMin())

	text, ok := p.ask("Account public key or keyset JSON")
	if !ok {
		return
	}
	if err := m.SetKeyset(text); err != nil {
		fmt.Printf("Error: %s\n", err)
		return
	}

	if err := m.Prepare(ctx); err != nil {
		fmt.Printf("Error: %s\n", m.ErrMsg())
		return
	}
	fmt.Printf("Request id: %s\n", m.RequestId())
	fmt.Println("Quote the request id in your BTC deposit.")

	if !p.confirm("Submit the mint request") {
		return
	}
	if err := m.Send(ctx); err != nil {
		fmt.Printf("Error: %s\n", m.ErrMsg())
		return
	}
	fmt.Printf("Submitted, request key %s\n", m.RequestKey())
}

func runRedeem(ctx context.Context, s *cmd.Session, p *prompter) {
	r := s.NewRedeem()
	fmt.Printf("Redeem fee %.2f%%, min %v BTC\n", r.TxFeePercent(), r.TxMin())

	for r.Stage() != redeem.StageListen {
		fmt.Printf("[%s] ", r.Stage())
		var err error
		switch r.Stage() {
		case redeem.StageInput:
			err = redeemInput(ctx, r, p)
		case redeem.StagePrepare:
			err = redeemSign(ctx, r, p)
		case redeem.StageLocalReady:
			err = r.Simulate(ctx)
		case redeem.StageLocalSimulation:
			fmt.Println("Local simulation succeeded.")
			if !p.confirm("Broadcast") {
				r.Back()
				continue
			}
			err = r.Broadcast(ctx)
		case redeem.StageBroadcast:
			fmt.Printf("Request key %s, status %s\n", r.RequestKey(), r.SendStatus())
			if !p.confirm("Listen again") {
				return
			}
			err = r.Listen(ctx)
		}
		if err == errAbort {
			return
		}
		if err != nil {
			msg := r.ErrMsg()
			if msg == "" {
				msg = err.Error()
			}
			fmt.Printf("Error: %s\n", msg)
			// already broadcast, only listening can be retried
			if r.Stage() == redeem.StageBroadcast {
				continue
			}
			if !p.confirm("Go back one step and retry") {
				return
			}
			r.Back()
		}
	}
	fmt.Printf("Redemption accepted, request id %s\n", r.RequestId())
}

var errAbort = errors.New("aborted")

func redeemInput(ctx context.Context, r *redeem.Controller, p *prompter) error {
	fmt.Println()
	account, ok := p.ask("Sending KBTC account")
	if !ok {
		return errAbort
	}
	_ = r.SetSendingAccount(account)
	if err := r.LookupAccount(ctx); err != nil {
		return err
	}
	fmt.Printf("Balance: %s\n", r.AccountDetails().Balance)

	address, ok := p.ask("Receiving BTC address")
	if !ok {
		return errAbort
	}
	_ = r.SetReceivingAddress(address)

	amount, ok := p.ask("Amount (empty = everything)")
	if !ok {
		return errAbort
	}
	if amount == "" {
		_ = r.SetSendMax(true)
	} else {
		_ = r.SetSendMax(false)
		_ = r.SetAmount(amount)
	}

	keys, ok := p.ask("Signing public keys (comma separated)")
	if !ok {
		return errAbort
	}
	_ = r.SelectKeys(splitKeys(keys)...)

	if !r.TxReady() {
		return redeem.ErrNotTxReady
	}
	return r.Prepare()
}

func redeemSign(ctx context.Context, r *redeem.Controller, p *prompter) error {
	fmt.Println()
	fmt.Printf("Code: %s\n", r.Code())
	fmt.Printf("Hash: %s\n", r.Hash())
	keys := r.Input().SelectedKeys
	for i := range r.Sigs() {
		v, ok := p.ask(fmt.Sprintf("Signature or secret key for %s", keys[i]))
		if !ok {
			return errAbort
		}
		if err := r.SetSignature(i, v); err != nil {
			return err
		}
	}
	if !r.LocalReady() {
		return redeem.ErrNotLocalReady
	}
	return r.Simulate(ctx)
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
