package redeem

import (
	"context"
	"errors"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/TEENet-io/kbridge-go/pactman"
)

var errTransport = errors.New("connection refused")

// fakeCap signs and builds with the real pact code and answers node calls
// from canned results.
type fakeCap struct {
	queryRes  *pact.CommandResult
	queryErr  error
	localRes  *pact.CommandResult
	localErr  error
	sendKeys  []string
	sendErr   error
	listenRes *pact.CommandResult
	listenErr error

	signCalls  int
	simulated  []*pact.Command
	sent       []*pact.SendRequest
	listenedOn []string
	queries    []string
}

func newFakeCap() *fakeCap {
	return &fakeCap{
		localRes:  &pact.CommandResult{Result: pactman.Success(map[string]string{"ok": "yes"})},
		sendKeys:  []string{"req-key-1"},
		listenRes: &pact.CommandResult{Result: pactman.Success(map[string]string{"request-id": "R000042"})},
	}
}

func (f *fakeCap) Query(ctx context.Context, code string, envData map[string]interface{}) (*pact.CommandResult, error) {
	f.queries = append(f.queries, code)
	return f.queryRes, f.queryErr
}

func (f *fakeCap) BuildCommand(signers []pact.Signer, nonce string, code string, data interface{}, meta pact.Meta) (*pact.SendRequest, error) {
	return pact.CreateExecCommand(signers, nonce, code, data, meta, "")
}

func (f *fakeCap) Sign(msg string, kp pact.KeyPair) (*pact.SignResult, error) {
	f.signCalls++
	return pact.Sign(msg, kp)
}

func (f *fakeCap) Simulate(ctx context.Context, cmd *pact.Command) (*pact.CommandResult, error) {
	f.simulated = append(f.simulated, cmd)
	return f.localRes, f.localErr
}

func (f *fakeCap) Send(ctx context.Context, req *pact.SendRequest) ([]string, error) {
	f.sent = append(f.sent, req)
	return f.sendKeys, f.sendErr
}

func (f *fakeCap) Listen(ctx context.Context, requestKey string) (*pact.CommandResult, error) {
	f.listenedOn = append(f.listenedOn, requestKey)
	return f.listenRes, f.listenErr
}

type journalRecord struct {
	requestKey, account, receiver, amount string
	status                                agreement.Status
	requestId                             string
}

type fakeJournal struct {
	records map[string]*journalRecord
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{records: map[string]*journalRecord{}}
}

func (j *fakeJournal) RecordBroadcast(requestKey, account, receiver, amount string) error {
	j.records[requestKey] = &journalRecord{
		requestKey: requestKey,
		account:    account,
		receiver:   receiver,
		amount:     amount,
		status:     agreement.StatusPending,
	}
	return nil
}

func (j *fakeJournal) RecordOutcome(requestKey string, status agreement.Status, requestId string) error {
	r, ok := j.records[requestKey]
	if !ok {
		return errors.New("unknown request key")
	}
	r.status = status
	r.requestId = requestId
	return nil
}
