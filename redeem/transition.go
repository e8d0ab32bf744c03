package redeem

import "github.com/TEENet-io/kbridge-go/pact"

// event is a forward move produced by a workflow step.
type event interface {
	target() Stage
}

type evPrepared struct {
	nonce  string
	amount string
	code   string
	meta   pact.Meta
	cmd    pact.Command
}

type evLocalReady struct{}

type evSimulated struct {
	signed pact.Command
}

type evBroadcasted struct {
	requestKey string
}

type evListened struct {
	requestId string
}

func (evPrepared) target() Stage    { return StagePrepare }
func (evLocalReady) target() Stage  { return StageLocalReady }
func (evSimulated) target() Stage   { return StageLocalSimulation }
func (evBroadcasted) target() Stage { return StageBroadcast }
func (evListened) target() Stage    { return StageListen }

// transition builds the state that follows cur on ev. The new state copies
// what it inherits, so cur stays intact for a later back-step.
func transition(cur State, ev event) (State, error) {
	switch e := ev.(type) {
	case evPrepared:
		in, ok := cur.(*Input)
		if !ok {
			break
		}
		input := *in
		input.SelectedKeys = append([]string{}, in.SelectedKeys...)
		return &Prepared{
			Input:            input,
			Nonce:            e.nonce,
			NormalizedAmount: e.amount,
			Code:             e.code,
			Meta:             e.meta,
			Cmd:              e.cmd,
			Hash:             e.cmd.Hash,
			Sigs:             make([]string, len(input.SelectedKeys)),
		}, nil

	case evLocalReady:
		p, ok := cur.(*Prepared)
		if !ok {
			break
		}
		prepared := *p
		prepared.Sigs = append([]string{}, p.Sigs...)
		return &LocalReady{Prepared: prepared}, nil

	case evSimulated:
		lr, ok := cur.(*LocalReady)
		if !ok {
			break
		}
		return &Simulated{
			LocalReady: *lr,
			Signed:     e.signed,
			SendCmd:    pact.SendRequest{Cmds: []pact.Command{e.signed}},
		}, nil

	case evBroadcasted:
		s, ok := cur.(*Simulated)
		if !ok {
			break
		}
		return &Broadcasted{Simulated: *s, RequestKey: e.requestKey}, nil

	case evListened:
		b, ok := cur.(*Broadcasted)
		if !ok {
			break
		}
		return &Listened{Broadcasted: *b, RequestId: e.requestId}, nil
	}
	return nil, ErrWrongStage("move to "+ev.target().String(), cur.Stage())
}
