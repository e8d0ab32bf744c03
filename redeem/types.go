package redeem

import (
	"encoding/json"
	"fmt"

	"github.com/TEENet-io/kbridge-go/pact"
)

// Stage is the position in the redemption workflow.
type Stage int

const (
	StageInput           Stage = iota // collecting account, address, amount, keys
	StagePrepare                      // command built, waiting for signatures
	StageLocalReady                   // signatures frozen, dry-run pending or failed
	StageLocalSimulation              // dry-run succeeded, signed command stored
	StageBroadcast                    // sent, request key known
	StageListen                       // result received
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StagePrepare:
		return "prepare"
	case StageLocalReady:
		return "local-ready"
	case StageLocalSimulation:
		return "local-simulation"
	case StageBroadcast:
		return "broadcast"
	case StageListen:
		return "listen"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// State is one variant per stage. Each variant embeds the one before it, so
// it carries exactly the data valid at its stage.
type State interface {
	Stage() Stage
}

type Input struct {
	SendingAccount   string
	ReceivingAddress string
	Amount           string
	SendMax          bool
	SelectedKeys     []string
}

type Prepared struct {
	Input
	Nonce            string
	NormalizedAmount string // as embedded in Code
	Code             string
	Meta             pact.Meta
	Cmd              pact.Command // unsigned
	Hash             string
	// One slot per selected key: a 128 hex signature, or a 64 hex secret
	// key to sign with locally.
	Sigs []string
}

type LocalReady struct {
	Prepared
}

type Simulated struct {
	LocalReady
	Signed  pact.Command
	SendCmd pact.SendRequest
}

type Broadcasted struct {
	Simulated
	RequestKey string
}

type Listened struct {
	Broadcasted
	RequestId string
}

func (*Input) Stage() Stage       { return StageInput }
func (*Prepared) Stage() Stage    { return StagePrepare }
func (*LocalReady) Stage() Stage  { return StageLocalReady }
func (*Simulated) Stage() Stage   { return StageLocalSimulation }
func (*Broadcasted) Stage() Stage { return StageBroadcast }
func (*Listened) Stage() Stage    { return StageListen }

// AccountDetails is the result of (kbtc.details account).
type AccountDetails struct {
	Account string
	Balance string
	Raw     json.RawMessage
}
