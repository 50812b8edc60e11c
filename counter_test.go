package alohactr

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func counterFromHex(s string) (c Counter) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != BlockSize {
		panic("bad counter literal " + s)
	}
	copy(c[:], b)
	return
}

func TestCounterAdd(t *testing.T) {
	tests := []struct {
		start string
		k     uint64
		want  string
	}{
		{"00000000000000000000000000000000", 0, "00000000000000000000000000000000"},
		{"00000000000000000000000000000000", 1, "00000000000000000000000000000001"},
		{"000000000000000000000000000000ff", 1, "00000000000000000000000000000100"},
		{"f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff", 1, "f0f1f2f3f4f5f6f7f8f9fafbfcfdff00"},
		{"f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff", 65536, "f0f1f2f3f4f5f6f7f8f9fafbfcfefeff"},
		{"0000000000000000ffffffffffffffff", 1, "00000000000000010000000000000000"},
		{"00000000000000000000000000000001", 0xffffffffffffffff, "00000000000000010000000000000000"},
		{"ffffffffffffffffffffffffffffffff", 1, "00000000000000000000000000000000"},
		{"ffffffffffffffffffffffffffffff00", 0x101, "00000000000000000000000000000001"},
	}
	for _, tt := range tests {
		c := counterFromHex(tt.start)
		c.Add(tt.k)
		assert.Equal(t, tt.want, c.String(), "%s + %d", tt.start, tt.k)
	}
}

func TestCounterAddMatchesBigInt(t *testing.T) {
	mod := new(big.Int).Lsh(big.NewInt(1), 8*BlockSize)
	starts := []string{
		"f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff",
		"ffffffffffffffffffffffffffff0000",
		"7fffffffffffffff8000000000000000",
	}
	ks := []uint64{1, 255, 256, 4095, 65537, 1 << 40, 0xfedcba9876543210}

	for _, s := range starts {
		for _, k := range ks {
			start := counterFromHex(s)
			c := start
			c.Add(k)

			want := new(big.Int).SetBytes(start[:])
			want.Add(want, new(big.Int).SetUint64(k))
			want.Mod(want, mod)

			got := new(big.Int).SetBytes(c[:])
			assert.Equal(t, 0, want.Cmp(got), "%s + %d", s, k)
		}
	}
}

func TestCounterAddIsAdditive(t *testing.T) {
	a := counterFromHex("f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff")
	b := a
	a.Add(1000)
	a.Add(24)
	b.Add(1024)
	assert.Equal(t, b, a)
}
