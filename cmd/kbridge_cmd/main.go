package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/TEENet-io/kbridge-go/cmd"
	"github.com/TEENet-io/kbridge-go/logconfig"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %s\n", err)
		return
	}
	if !logconfig.ConfigLogger(cfg.LogLevel) {
		fmt.Printf("Unknown LOG_LEVEL %q, using info\n", cfg.LogLevel)
	}

	s, err := cmd.NewSession(cfg)
	if err != nil {
		fmt.Printf("Error creating session: %s\n", err)
		return
	}
	defer s.Close()

	fmt.Println(strings.Repeat("=", 30))
	fmt.Println("Welcome to the KBTC bridge command line tool.")
	fmt.Printf("Pact node: %s (chain %s)\n", s.Pactman.URL(), s.Pactman.ChainId())

	// Create a cancelable context and signal handler for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		_captured := <-sig
		fmt.Printf("\nReceived interrupt signal, shutting down... %v\n", _captured)
		cancel()
		s.Close()
		os.Exit(0)
	}()

	p := &prompter{scanner: bufio.NewScanner(os.Stdin)}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Println("What to do:")
		fmt.Println("1) Mint KBTC (register a BTC deposit)")
		fmt.Println("2) Redeem KBTC for BTC")
		fmt.Println("3) Proof of assets")
		fmt.Println("4) Generate a key pair")
		fmt.Println("5) Quit")

		input, ok := p.ask("Type option and press Enter")
		if !ok {
			return
		}

		switch input {
		case "1":
			runMint(ctx, s, p)
		case "2":
			runRedeem(ctx, s, p)
		case "3":
			showPoa(ctx, s)
		case "4":
			genKeyPair()
		case "5":
			return
		default:
			fmt.Println("Unknown option, try again.")
		}
		fmt.Println()
	}
}

type prompter struct {
	scanner *bufio.Scanner
}

// ask returns false on end of input.
func (p *prompter) ask(question string) (string, bool) {
	fmt.Printf("%s: ", question)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

func (p *prompter) confirm(question string) bool {
	a, ok := p.ask(question + " [y/N]")
	return ok && strings.EqualFold(a, "y")
}
