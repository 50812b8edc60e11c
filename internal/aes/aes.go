// Package aes provides the AES block cipher used by the CTR engine: key
// expansion, single-block encryption and a serial counter-mode stream.
//
// The default build uses crypto/aes. Building with -tags aes_nettle links
// against libnettle instead.
package aes

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// HardwareAccelerated reports whether the CPU advertises AES instructions.
func HardwareAccelerated() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpu.X86.HasAES
	case "arm64":
		return cpu.ARM64.HasAES
	case "s390x":
		return cpu.S390X.HasAES
	}
	return false
}
