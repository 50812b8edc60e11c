package alohactr

import "fmt"

// WorkItem is the half-open range of block indices [Start, End) owned by
// one worker.
type WorkItem struct {
	Start, End int
}

// Len returns the number of blocks in the range.
func (w WorkItem) Len() int {
	return w.End - w.Start
}

func (w WorkItem) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// Partition splits numBlocks into min(numWorkers, numBlocks) contiguous,
// ordered ranges. Sizes differ by at most one block; the first
// numBlocks%numWorkers ranges get the extra block, the same split a static
// loop schedule makes. Workers beyond numBlocks get no range.
func Partition(numBlocks, numWorkers int) []WorkItem {
	if numBlocks <= 0 || numWorkers <= 0 {
		return nil
	}
	if numWorkers > numBlocks {
		numWorkers = numBlocks
	}

	size, extra := numBlocks/numWorkers, numBlocks%numWorkers
	items := make([]WorkItem, numWorkers)
	start := 0
	for i := range items {
		end := start + size
		if i < extra {
			end++
		}
		items[i] = WorkItem{start, end}
		start = end
	}
	return items
}
