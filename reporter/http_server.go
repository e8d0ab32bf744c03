// This is a http type of reporter.
// It publishes the proof of assets, the token table and the redemption
// journal on http routes.

package reporter

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/journal"
	"github.com/TEENet-io/kbridge-go/poa"
)

const (
	ROUTE_HELLO      = "/hello"
	ROUTE_POA        = "/poa"
	ROUTE_TOKENS     = "/tokens"
	ROUTE_REDEMPTION = "/redemption"
)

// Snapshotter is satisfied by *poa.Reporter.
type Snapshotter interface {
	Snapshot(ctx context.Context) *poa.Snapshot
}

// RedemptionStore is satisfied by *journal.Journal.
type RedemptionStore interface {
	GetByRequestKey(requestKey string) (*journal.Entry, bool, error)
	GetByAccount(account string) ([]*journal.Entry, error)
}

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data sources
	poa     Snapshotter
	journal RedemptionStore
}

func NewHttpReporter(serverIP string, serverPort string, poa Snapshotter, journal RedemptionStore) *HttpReporter {
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		poa:        poa,
		journal:    journal,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET(ROUTE_HELLO, Hello)
	router.GET(ROUTE_POA, h.Poa)
	router.GET(ROUTE_TOKENS, Tokens)
	router.GET(ROUTE_REDEMPTION, h.Redemption)

	return router
}

// Run blocks until ctx is done.
func (h *HttpReporter) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    h.serverIP + ":" + h.serverPort,
		Handler: h.SetupRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

func (h *HttpReporter) Poa(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.poa.Snapshot(c.Request.Context())})
}

type tokenView struct {
	Symbol     string  `json:"symbol"`
	FeePercent float64 `json:"fee_percent"`
	Min        float64 `json:"min"`
	Address    string  `json:"address"`
	Enabled    bool    `json:"enabled"`
}

func Tokens(c *gin.Context) {
	tokens := agreement.AllTokens()
	views := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, tokenView{
			Symbol:     t.Symbol,
			FeePercent: t.FeePercent(),
			Min:        t.Min,
			Address:    t.Address,
			Enabled:    t.Enabled(),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Symbol < views[j].Symbol })
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// Redemption looks up the journal by request_key or by account.
func (h *HttpReporter) Redemption(c *gin.Context) {
	requestKey := c.Query("request_key")
	account := c.Query("account")

	if requestKey == "" && account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either request_key or account must be provided"})
		return
	}

	var entries []*journal.Entry
	if requestKey != "" {
		e, ok, err := h.journal.GetByRequestKey(requestKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ok {
			entries = append(entries, e)
		}
	} else {
		var err error
		entries, err = h.journal.GetByAccount(account)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if len(entries) > 0 {
		c.JSON(http.StatusOK, gin.H{"data": entries})
	} else {
		c.JSON(http.StatusNotFound, gin.H{"error": "No redemption found"})
	}
}
