package mint

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKeyset     = errors.New("invalid account or keyset")
	ErrTokenNotSupported = errors.New("token has no deposit address yet")
	ErrNoRequestId       = errors.New("node returned no request-id")
)

func ErrWrongStage(op string, actual Stage) error {
	return fmt.Errorf("cannot %s at mint stage %d", op, actual)
}
