package poa

import (
	"context"
	"sync"
)

// SimOracle answers from a fixed table, for tests and demos.
type SimOracle struct {
	mu       sync.Mutex
	balances map[string]int64
	err      error
}

func NewSimOracle(balances map[string]int64) *SimOracle {
	b := make(map[string]int64, len(balances))
	for k, v := range balances {
		b[k] = v
	}
	return &SimOracle{balances: b}
}

// SetBalance replaces the balance reported for address.
func (s *SimOracle) SetBalance(address string, sats int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[address] = sats
}

// SetError makes every following call fail with err; nil heals it.
func (s *SimOracle) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *SimOracle) Balance(ctx context.Context, address string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.balances[address], nil
}
