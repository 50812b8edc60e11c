package alohactr

import (
	"github.com/pkg/errors"

	"github.com/lanikai/alohactr/internal/aes"
)

// Context pairs an immutable AES key schedule with the counter that the next
// call will start from. A Context has one owner: concurrent calls on the same
// Context are not allowed, though workers inside a call may read its schedule.
type Context struct {
	block aes.BlockCipher
	iv    Counter
}

// NewContext expands key and sets the counter to iv, which must be exactly
// one block long.
func NewContext(key, iv []byte) (*Context, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "key expansion")
	}

	ctx := &Context{block: block}
	if err := ctx.Reset(iv); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Counter returns the counter value the next call will use for its first block.
func (ctx *Context) Counter() Counter {
	return ctx.iv
}

// Reset rewinds the counter to iv without touching the key schedule.
func (ctx *Context) Reset(iv []byte) error {
	if len(iv) != BlockSize {
		return errors.Wrapf(ErrInvalidIV, "got %d bytes", len(iv))
	}
	copy(ctx.iv[:], iv)
	return nil
}

// XORKeyStream is the serial reference transform. It encrypts the counter,
// XORs the result into buf and increments the counter by one, block after
// block, then handles a trailing partial block the same way.
func (ctx *Context) XORKeyStream(buf []byte) {
	var keystream [BlockSize]byte
	for off := 0; off < len(buf); off += BlockSize {
		ctx.block.Encrypt(keystream[:], ctx.iv[:])
		xorBytes(buf[off:], keystream[:])
		ctx.iv.Add(1)
	}
}

// xorBytes XORs src into dst, stopping at the shorter of the two, and returns
// the number of bytes processed.
func xorBytes(dst, src []byte) int {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
	return n
}
