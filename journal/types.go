package journal

import (
	"errors"
	"time"

	"github.com/TEENet-io/kbridge-go/agreement"
)

var (
	ErrEmptyRequestKey = errors.New("empty request key")
	ErrNotFound        = errors.New("redemption not found")
	ErrBadStatus       = errors.New("status must be pending, success or failure")
)

// Entry is the journal row of one broadcast redemption.
type Entry struct {
	RequestKey       string           `json:"request_key"`
	SendingAccount   string           `json:"sending_account"`
	ReceivingAddress string           `json:"receiving_address"`
	Amount           string           `json:"amount"`
	Status           agreement.Status `json:"status"`
	RequestId        string           `json:"request_id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func validStatus(s agreement.Status) bool {
	return s == agreement.StatusPending || s == agreement.StatusSuccess || s == agreement.StatusFailure
}
