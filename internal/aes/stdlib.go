//go:build !aes_nettle
// +build !aes_nettle

package aes

import (
	aes_ "crypto/aes"
	"crypto/cipher"
)

// Backend names the implementation selected at build time.
const Backend = "stdlib"

// BlockCipher holds an expanded AES key schedule. The schedule is immutable
// once created and safe for concurrent Encrypt calls.
type BlockCipher struct {
	b   cipher.Block
	key []byte
}

func NewCipher(key []byte) (BlockCipher, error) {
	b, err := aes_.NewCipher(key)
	if err != nil {
		return BlockCipher{}, err
	}
	return BlockCipher{b, append([]byte(nil), key...)}, nil
}

// Clone returns an independent key schedule for the same key. crypto/aes
// hides its round keys, so the copy is made by expanding the key again into
// freshly allocated storage.
func (block *BlockCipher) Clone() (BlockCipher, error) {
	return NewCipher(block.key)
}

// Encrypt encrypts the first block of src into dst.
func (block *BlockCipher) Encrypt(dst, src []byte) {
	block.b.Encrypt(dst, src)
}

func (block *BlockCipher) CounterMode(iv []byte) cipher.Stream {
	return cipher.NewCTR(block.b, iv)
}

func (block *BlockCipher) CounterModeEncrypt(iv []byte, data []byte) error {
	cipher.NewCTR(block.b, iv).XORKeyStream(data, data)
	return nil
}
