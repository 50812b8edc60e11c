package alohactr

import "errors"

var (
	ErrInvalidIV          = errors.New("counter must be exactly one block")
	ErrInvalidWorkerCount = errors.New("worker count must be at least one")
	ErrScratchExhausted   = errors.New("worker id exceeds scratch table capacity")
	ErrUnknownStrategy    = errors.New("unknown resource strategy")
	ErrUnknownJoinPolicy  = errors.New("unknown join policy")
	ErrNilContext         = errors.New("nil cipher context")
)
