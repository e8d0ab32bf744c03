package pactman

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/TEENet-io/kbridge-go/pact"
	"github.com/gin-gonic/gin"
)

// ExecFunc decides the outcome of a command on the simulated node.
type ExecFunc func(p *pact.CmdPayload) pact.Result

// SimNode is an in-process Pact node. It checks hashes and signatures the
// way a real node does and delegates execution to an ExecFunc.
type SimNode struct {
	server *httptest.Server
	exec   ExecFunc

	mu      sync.Mutex
	results map[string]pact.CommandResult // request key -> result
	sent    []pact.Command
	locals  int
}

func NewSimNode(exec ExecFunc) *SimNode {
	gin.SetMode(gin.TestMode)
	sn := &SimNode{
		exec:    exec,
		results: make(map[string]pact.CommandResult),
	}
	sn.server = httptest.NewServer(sn.Router())
	return sn
}

func (sn *SimNode) URL() string {
	return sn.server.URL
}

func (sn *SimNode) Close() {
	sn.server.Close()
}

// Sent returns the commands accepted by /send so far.
func (sn *SimNode) Sent() []pact.Command {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return append([]pact.Command{}, sn.sent...)
}

// LocalCalls counts /local requests that passed validation.
func (sn *SimNode) LocalCalls() int {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.locals
}

// SetResult overrides what /listen returns for requestKey.
func (sn *SimNode) SetResult(requestKey string, res pact.Result) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	sn.results[requestKey] = pact.CommandResult{ReqKey: requestKey, Result: res}
}

func (sn *SimNode) Router() *gin.Engine {
	router := gin.New()
	router.POST(RouteLocal, sn.Local)
	router.POST(RouteSend, sn.Send)
	router.POST(RouteListen, sn.Listen)
	return router
}

func (sn *SimNode) Local(c *gin.Context) {
	var cmd pact.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.String(http.StatusBadRequest, "Invalid command: %v", err)
		return
	}
	p, err := validate(&cmd)
	if err != nil {
		c.String(http.StatusBadRequest, "Validation failed: %v", err)
		return
	}

	sn.mu.Lock()
	sn.locals++
	sn.mu.Unlock()

	c.JSON(http.StatusOK, pact.CommandResult{ReqKey: cmd.Hash, Result: sn.exec(p)})
}

func (sn *SimNode) Send(c *gin.Context) {
	var req pact.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid send request: %v", err)
		return
	}
	if len(req.Cmds) == 0 {
		c.String(http.StatusBadRequest, "Validation failed: empty cmds")
		return
	}

	payloads := make([]*pact.CmdPayload, 0, len(req.Cmds))
	for i := range req.Cmds {
		p, err := validate(&req.Cmds[i])
		if err != nil {
			c.String(http.StatusBadRequest, "Validation failed for hash %s: %v", req.Cmds[i].Hash, err)
			return
		}
		payloads = append(payloads, p)
	}

	sn.mu.Lock()
	defer sn.mu.Unlock()
	keys := make([]string, 0, len(req.Cmds))
	for i, cmd := range req.Cmds {
		sn.results[cmd.Hash] = pact.CommandResult{ReqKey: cmd.Hash, Result: sn.exec(payloads[i])}
		sn.sent = append(sn.sent, cmd)
		keys = append(keys, cmd.Hash)
	}
	c.JSON(http.StatusOK, pact.SendResponse{RequestKeys: keys})
}

func (sn *SimNode) Listen(c *gin.Context) {
	var req pact.ListenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid listen request: %v", err)
		return
	}

	sn.mu.Lock()
	res, ok := sn.results[req.Listen]
	sn.mu.Unlock()
	if !ok {
		c.String(http.StatusNotFound, "request key not found: %s", req.Listen)
		return
	}
	c.JSON(http.StatusOK, res)
}

// validate checks the hash and, when the command carries signers or
// signatures, that each signer signed it.
func validate(cmd *pact.Command) (*pact.CmdPayload, error) {
	p, err := cmd.Decode()
	if err != nil {
		return nil, err
	}
	if p.Payload.Exec == nil {
		return nil, fmt.Errorf("only exec payloads are supported")
	}
	if len(p.Signers) == 0 && len(cmd.Sigs) == 0 {
		if pact.HashBase64(cmd.Cmd) != cmd.Hash {
			return nil, pact.ErrHashMismatch
		}
		return p, nil
	}
	if err := cmd.Verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// Success is a helper for ExecFuncs.
func Success(data interface{}) pact.Result {
	b, err := json.Marshal(data)
	if err != nil {
		return Failure(err.Error())
	}
	return pact.Result{Status: pact.StatusSuccess, Data: b}
}

func Failure(msg string) pact.Result {
	return pact.Result{Status: pact.StatusFailure, Error: &pact.ResultError{Message: msg, Type: "EvalError"}}
}
