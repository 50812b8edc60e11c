package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
)

// CSVHeader matches the columns written by earlier versions of the
// benchmark so existing plotting scripts keep working.
var CSVHeader = []string{"DataSize_MB", "Type", "Threads", "Throughput_MB_s", "Time_Seconds"}

// CSVReporter writes one row per result.
type CSVReporter struct {
	w *csv.Writer
}

// NewCSVReporter writes the header row immediately.
func NewCSVReporter(out io.Writer) (*CSVReporter, error) {
	r := &CSVReporter{csv.NewWriter(out)}
	if err := r.write(CSVHeader); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CSVReporter) BeginSize(float64, int) error { return nil }

func (r *CSVReporter) BeginGroup(string) error { return nil }

func (r *CSVReporter) Report(res Result) error {
	return r.write([]string{
		strconv.FormatFloat(res.SizeMB, 'g', -1, 64),
		res.Type,
		strconv.Itoa(res.Workers),
		strconv.FormatFloat(res.ThroughputMBs, 'f', 6, 64),
		strconv.FormatFloat(res.AvgTime.Seconds(), 'f', 6, 64),
	})
}

func (r *CSVReporter) write(record []string) error {
	if err := r.w.Write(record); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}

// TextReporter prints a human-readable table.
type TextReporter struct {
	out io.Writer

	heading *color.Color
	group   *color.Color
	good    *color.Color
	bad     *color.Color
}

func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		group:   color.New(color.FgYellow),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
	}
}

func (r *TextReporter) BeginSize(sizeMB float64, maxWorkers int) error {
	_, err := r.heading.Fprintf(r.out, "\n=== Benchmark: %g MB data ===\n\nMaximum workers: %d\n", sizeMB, maxWorkers)
	return err
}

func (r *TextReporter) BeginGroup(name string) error {
	_, err := r.group.Fprintf(r.out, "\n--- %s ---\n", name)
	return err
}

func (r *TextReporter) Report(res Result) error {
	label := res.Type
	if res.Type != SequentialType {
		plural := "s"
		if res.Workers == 1 {
			plural = ""
		}
		label = fmt.Sprintf("%s (%d worker%s)", res.Type, res.Workers, plural)
	}
	if _, err := fmt.Fprintf(r.out, "  %-30s: %10.3f MB/s  (%.3f seconds for %.2f MB)\n",
		label, res.ThroughputMBs, res.AvgTime.Seconds(), res.SizeMB); err != nil {
		return err
	}

	if res.Type == SequentialType {
		return nil
	}
	if res.Workers == 1 {
		return r.speedup("vs sequential", res.VsSequential)
	}
	if err := r.speedup("vs 1 worker", res.VsOneWorker); err != nil {
		return err
	}
	if res.VsPrivate > 0 {
		c := r.good
		if res.VsPrivate > 1.05 {
			c = r.bad
		}
		_, err := c.Fprintf(r.out, "  %-30s: %.2fx time of private\n", "vs private (same workers)", res.VsPrivate)
		return err
	}
	return nil
}

func (r *TextReporter) speedup(name string, x float64) error {
	_, err := fmt.Fprintf(r.out, "  %-30s: %.2fx\n", "Speedup "+name, x)
	return err
}
