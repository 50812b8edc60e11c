package alohactr

import (
	"encoding/hex"

	"github.com/lanikai/alohactr/internal/aes"
)

// BlockSize is the width of a counter and of one keystream block.
const BlockSize = aes.BlockSize

// Counter is a block-wide unsigned integer in big-endian byte order.
type Counter [BlockSize]byte

// Add advances c by k, wrapping silently modulo 2^128.
func (c *Counter) Add(k uint64) {
	addCounter(c[:], k)
}

func (c Counter) String() string {
	return hex.EncodeToString(c[:])
}

// addCounter adds k to the big-endian integer held in b, propagating the
// carry from the last byte towards the first. Overflow past b[0] is dropped.
func addCounter(b []byte, k uint64) {
	carry := k
	for i := len(b) - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(b[i]) + carry&0xff
		b[i] = byte(sum)
		carry = carry>>8 + sum>>8
	}
}
