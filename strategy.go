package alohactr

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects where each worker's key schedule and scratch buffers live.
// All strategies produce identical output; they differ only in how much cache
// traffic the workers generate.
type Strategy int

const (
	// PrivateCopy gives every worker its own key schedule and stack-local
	// scratch. No cache line is shared between workers.
	PrivateCopy Strategy = iota

	// SharedReference has every worker read the context's key schedule
	// directly. Read-only sharing: contention, but no invalidations.
	SharedReference

	// UnpaddedArray keeps each worker's scratch counter and block in a packed
	// engine-owned table indexed by worker id. Neighbouring entries share a
	// cache line, so every write invalidates the line for the other workers.
	UnpaddedArray

	// PaddedArray uses the same table layout with every entry padded out to
	// its own cache line.
	PaddedArray
)

// Strategies lists every strategy in declaration order.
var Strategies = []Strategy{PrivateCopy, SharedReference, UnpaddedArray, PaddedArray}

var strategyNames = map[Strategy]string{
	PrivateCopy:     "private",
	SharedReference: "shared",
	UnpaddedArray:   "unpadded",
	PaddedArray:     "padded",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "Strategy(" + strconv.Itoa(int(s)) + ")"
}

// usesTable reports whether workers take their scratch from the engine's
// shared table.
func (s Strategy) usesTable() bool {
	return s == UnpaddedArray || s == PaddedArray
}

func (s Strategy) valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// ParseStrategy maps a name printed by String back to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}

// JoinPolicy controls what a worker does once its range is exhausted.
type JoinPolicy int

const (
	// BarrierJoined holds every worker at a barrier until all of them have
	// finished their ranges.
	BarrierJoined JoinPolicy = iota

	// EarlyExit lets a worker run its post-region step as soon as its own
	// range is done. Transform still waits for every worker before it
	// returns, so the caller cannot observe the difference except in timing.
	EarlyExit
)

var JoinPolicies = []JoinPolicy{BarrierJoined, EarlyExit}

var joinNames = map[JoinPolicy]string{
	BarrierJoined: "barrier",
	EarlyExit:     "nowait",
}

func (j JoinPolicy) String() string {
	if name, ok := joinNames[j]; ok {
		return name
	}
	return "JoinPolicy(" + strconv.Itoa(int(j)) + ")"
}

func (j JoinPolicy) valid() bool {
	_, ok := joinNames[j]
	return ok
}

func ParseJoinPolicy(name string) (JoinPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for j, n := range joinNames {
		if n == name {
			return j, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownJoinPolicy, "%q", name)
}
