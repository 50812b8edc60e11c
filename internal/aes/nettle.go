//go:build aes_nettle
// +build aes_nettle

package aes

// #cgo LDFLAGS: -lnettle
// #include <nettle/aes.h>
// #include <nettle/ctr.h>
import "C"

import (
	"crypto/cipher"
	"fmt"
	"unsafe"
)

const Backend = "nettle"

// BlockCipher holds an expanded AES-128 key schedule. The nettle context is a
// plain C struct, so copying the value copies the round keys.
type BlockCipher struct {
	ctx C.struct_aes128_ctx
}

func NewCipher(key []byte) (block BlockCipher, err error) {
	if len(key) != 16 {
		err = fmt.Errorf("invalid AES-128 key length: %d", len(key))
		return
	}

	C.nettle_aes128_set_encrypt_key(&block.ctx, (*C.uchar)(&key[0]))
	return
}

// Clone returns a by-value copy of the key schedule.
func (block *BlockCipher) Clone() (BlockCipher, error) {
	return BlockCipher{ctx: block.ctx}, nil
}

// Encrypt encrypts the first block of src into dst.
func (block *BlockCipher) Encrypt(dst, src []byte) {
	_ = dst[BlockSize-1]
	_ = src[BlockSize-1]
	C.nettle_aes128_encrypt(&block.ctx, BlockSize, (*C.uchar)(&dst[0]), (*C.uchar)(&src[0]))
}

func (block *BlockCipher) CounterMode(iv []byte) cipher.Stream {
	stream := new(aesCounterMode)
	stream.ctx = block.ctx
	copy(stream.ctr[:], iv)
	return stream
}

// Counter-mode context, like CTR_CTX(struct aes128_ctx, AES_BLOCK_SIZE).
type aesCounterMode struct {
	ctx C.struct_aes128_ctx
	ctr [BlockSize]byte
}

func (stream *aesCounterMode) XORKeyStream(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	C.nettle_ctr_crypt(
		unsafe.Pointer(&stream.ctx),
		(*C.nettle_cipher_func)(C.nettle_aes128_encrypt),
		BlockSize,
		(*C.uchar)(&stream.ctr[0]),
		C.size_t(len(src)),
		(*C.uchar)(&dst[0]),
		(*C.uchar)(&src[0]))
}

func (block *BlockCipher) CounterModeEncrypt(iv []byte, data []byte) error {
	if len(iv) < BlockSize {
		return fmt.Errorf("invalid AES-CTR IV: %v", iv)
	}
	if len(data) == 0 {
		return nil
	}

	ctr := make([]byte, BlockSize)
	copy(ctr, iv)
	C.nettle_ctr_crypt(
		unsafe.Pointer(&block.ctx),
		(*C.nettle_cipher_func)(C.nettle_aes128_encrypt),
		BlockSize,
		(*C.uchar)(&ctr[0]),
		C.size_t(len(data)),
		(*C.uchar)(&data[0]),
		(*C.uchar)(&data[0]))
	return nil
}
