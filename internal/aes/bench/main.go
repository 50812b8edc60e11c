// Command bench measures the raw rate of the AES capability: one block at a
// time through Encrypt, and the serial counter-mode stream.
package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/lanikai/alohactr/internal/aes"
)

var key = []byte("TopSecret128bits")

var (
	flagPayload  = flag.IntP("payload", "p", 1<<20, "Payload size, in bytes")
	flagInterval = flag.DurationP("interval", "t", 3*time.Second, "Measurement interval per mode")
)

func measure(name string, payload []byte, interval time.Duration, fn func([]byte)) {
	start := time.Now()
	count := 0
	for time.Since(start) < interval {
		fn(payload)
		count++
	}
	elapsed := time.Since(start)

	rate := float64(count*len(payload)) / float64(1024*1024) / elapsed.Seconds()
	fmt.Printf("%-8s %d iterations of %d-byte AES-128 in %v (%.1f MB/s)\n",
		name, count, len(payload), elapsed.Round(time.Millisecond), rate)
}

func main() {
	flag.Parse()

	block, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}
	fmt.Printf("backend=%s aes-ni=%v\n", aes.Backend, aes.HardwareAccelerated())

	iv := make([]byte, aes.BlockSize)
	payload := make([]byte, *flagPayload-*flagPayload%aes.BlockSize)

	measure("ecb", payload, *flagInterval, func(p []byte) {
		for i := 0; i+aes.BlockSize <= len(p); i += aes.BlockSize {
			block.Encrypt(p[i:], p[i:])
		}
	})
	measure("ctr", payload, *flagInterval, func(p []byte) {
		block.CounterModeEncrypt(iv, p)
	})
}
