// Package oracle checks that every parallel CTR configuration produces the
// same bytes as the serial reference.
package oracle

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"

	errors "golang.org/x/xerrors"

	"github.com/lanikai/alohactr"
	"github.com/lanikai/alohactr/internal/logging"
)

var log = logging.DefaultLogger.WithTag("oracle")

// MaxReportedMismatches bounds how many differing offsets a Run records.
const MaxReportedMismatches = 10

var ErrMismatch = errors.New("output differs from serial reference")

// Case is one fixed input: key, initial counter and plaintext.
type Case struct {
	Key  []byte
	IV   []byte
	Data []byte
}

// NIST SP 800-38A AES-128 key and CTR initial counter block.
var (
	StandardKey = []byte{
		0x2b, 0x7e, 0x15, 0x16, 0x28, 0xae, 0xd2, 0xa6,
		0xab, 0xf7, 0x15, 0x88, 0x09, 0xcf, 0x4f, 0x3c,
	}
	StandardIV = []byte{
		0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7,
		0xf8, 0xf9, 0xfa, 0xfb, 0xfc, 0xfd, 0xfe, 0xff,
	}
)

// StandardCase returns size bytes of seeded pseudo-random data under the
// standard key and counter.
func StandardCase(size int, seed int64) Case {
	data := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(data)
	return Case{Key: StandardKey, IV: StandardIV, Data: data}
}

// Matrix is the set of configurations to compare against the reference.
type Matrix struct {
	Strategies []alohactr.Strategy
	Joins      []alohactr.JoinPolicy
	Workers    []int
}

// DefaultMatrix covers every strategy and join policy at 1 to 16 workers.
func DefaultMatrix() Matrix {
	return Matrix{
		Strategies: alohactr.Strategies,
		Joins:      alohactr.JoinPolicies,
		Workers:    []int{1, 2, 4, 8, 16},
	}
}

// Run is the outcome of one configuration.
type Run struct {
	Strategy alohactr.Strategy
	Join     alohactr.JoinPolicy
	Workers  int

	Mismatches     int   // bytes differing from the reference
	Offsets        []int // first few differing offsets
	CounterMatches bool
	RoundTrips     bool // decrypting the output restored the input
	Err            error
}

func (r *Run) Passed() bool {
	return r.Err == nil && r.Mismatches == 0 && r.CounterMatches && r.RoundTrips
}

func (r *Run) String() string {
	name := fmt.Sprintf("%s/%s/%d", r.Strategy, r.Join, r.Workers)
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s: %v", name, r.Err)
	case r.Mismatches > 0:
		return fmt.Sprintf("%s: %d mismatched bytes, first at %v", name, r.Mismatches, r.Offsets)
	case !r.CounterMatches:
		return name + ": counter differs from reference"
	case !r.RoundTrips:
		return name + ": decryption did not restore plaintext"
	}
	return name + ": ok"
}

type Report struct {
	Size int
	Runs []Run
}

// Failed returns the runs that did not pass.
func (r *Report) Failed() []Run {
	var failed []Run
	for _, run := range r.Runs {
		if !run.Passed() {
			failed = append(failed, run)
		}
	}
	return failed
}

// Err summarizes every failed run, or returns nil if all passed.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	lines := make([]string, len(failed))
	for i := range failed {
		lines[i] = failed[i].String()
	}
	return errors.Errorf("%d of %d runs on %d bytes: %w\n  %s",
		len(failed), len(r.Runs), r.Size, ErrMismatch, strings.Join(lines, "\n  "))
}

// Verify transforms c.Data with the serial reference and then with every
// configuration in m, each on a fresh context and a fresh copy of the data,
// and compares outputs and final counters. A returned error means the case
// itself could not be set up; per-run failures are in the Report.
func Verify(e *alohactr.Engine, c Case, m Matrix) (*Report, error) {
	ref, err := alohactr.NewContext(c.Key, c.IV)
	if err != nil {
		return nil, errors.Errorf("reference context: %w", err)
	}
	want := append([]byte(nil), c.Data...)
	ref.XORKeyStream(want)
	wantCounter := ref.Counter()

	report := &Report{Size: len(c.Data)}
	for _, s := range m.Strategies {
		for _, j := range m.Joins {
			for _, w := range m.Workers {
				run := verifyOne(e, c, s, j, w, want, wantCounter)
				log.Debug("%v", &run)
				report.Runs = append(report.Runs, run)
			}
		}
	}
	return report, nil
}

func verifyOne(e *alohactr.Engine, c Case, s alohactr.Strategy, j alohactr.JoinPolicy, w int,
	want []byte, wantCounter alohactr.Counter) Run {
	run := Run{Strategy: s, Join: j, Workers: w}

	ctx, err := alohactr.NewContext(c.Key, c.IV)
	if err != nil {
		run.Err = err
		return run
	}
	got := append([]byte(nil), c.Data...)
	if err := e.Transform(ctx, s, j, w, got); err != nil {
		run.Err = err
		return run
	}

	run.Mismatches, run.Offsets = compare(want, got)
	run.CounterMatches = ctx.Counter() == wantCounter

	// Decrypt with a freshly initialized context.
	ctx, err = alohactr.NewContext(c.Key, c.IV)
	if err != nil {
		run.Err = err
		return run
	}
	if err := e.Transform(ctx, s, j, w, got); err != nil {
		run.Err = errors.Errorf("decrypt: %w", err)
		return run
	}
	run.RoundTrips = bytes.Equal(got, c.Data)
	return run
}

// compare counts differing bytes and records the first few offsets.
func compare(want, got []byte) (n int, offsets []int) {
	if len(want) != len(got) {
		return len(want) + len(got), nil
	}
	for i := range want {
		if want[i] != got[i] {
			if len(offsets) < MaxReportedMismatches {
				offsets = append(offsets, i)
			}
			n++
		}
	}
	return
}
