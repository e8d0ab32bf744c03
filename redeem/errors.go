package redeem

import (
	"errors"
	"fmt"
)

// Messages shown to the user.
const (
	ErrMsgAccountNotExist = "account does not exist"
	ErrMsgLocalFailed     = "local simulation failed"
)

var (
	ErrAccountNotExist   = errors.New(ErrMsgAccountNotExist)
	ErrNotTxReady        = errors.New("redemption input is incomplete or invalid")
	ErrNotLocalReady     = errors.New("every signer needs a 128 character signature or a 64 character secret key")
	ErrNoAccountDetails  = errors.New("account details not loaded")
	ErrSlotOutOfRange    = errors.New("signature slot out of range")
	ErrSlotCountMismatch = errors.New("signature slot count does not match selected keys")
)

func ErrWrongStage(op string, actual Stage) error {
	return fmt.Errorf("cannot %s at stage %s", op, actual)
}
