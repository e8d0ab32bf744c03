package pactman

import (
	"errors"
	"fmt"
)

var (
	ErrNoRequestKeys = errors.New("node returned no request keys")
	ErrNoCommands    = errors.New("send request has no commands")
)

// HttpError is a non-2xx answer from the node. Pact nodes reply with plain
// text on validation errors.
type HttpError struct {
	StatusCode int
	Body       string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("node responded %d: %s", e.StatusCode, e.Body)
}
