package agreement

import (
	"context"

	"github.com/TEENet-io/kbridge-go/pact"
)

// Querier runs read-only code on the node.
type Querier interface {
	Query(ctx context.Context, code string, envData map[string]interface{}) (*pact.CommandResult, error)
}

// CommandBuilder builds unsigned commands for the configured network.
type CommandBuilder interface {
	BuildCommand(signers []pact.Signer, nonce string, code string, data interface{}, meta pact.Meta) (*pact.SendRequest, error)
}

// Capability is everything the workflows need from the signing library and
// the node. pactman.Pactman is the real one; tests substitute fakes.
type Capability interface {
	Querier
	CommandBuilder

	// Sign signs msg with a locally held key.
	Sign(msg string, kp pact.KeyPair) (*pact.SignResult, error)

	// Simulate dry-runs a signed command (node /local).
	Simulate(ctx context.Context, cmd *pact.Command) (*pact.CommandResult, error)

	// Send broadcasts and returns request keys (node /send).
	Send(ctx context.Context, req *pact.SendRequest) ([]string, error)

	// Listen blocks until a result for requestKey is available (node /listen).
	Listen(ctx context.Context, requestKey string) (*pact.CommandResult, error)
}

// Journal records broadcast redemptions and their outcome.
type Journal interface {
	RecordBroadcast(requestKey, account, receiver, amount string) error
	RecordOutcome(requestKey string, status Status, requestId string) error
}
