package alohactr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionCoverage(t *testing.T) {
	for numBlocks := 0; numBlocks <= 70; numBlocks++ {
		for numWorkers := 1; numWorkers <= 20; numWorkers++ {
			items := Partition(numBlocks, numWorkers)

			want := numWorkers
			if numBlocks < want {
				want = numBlocks
			}
			if !assert.Len(t, items, want, "blocks=%d workers=%d", numBlocks, numWorkers) {
				continue
			}

			next, lo, hi := 0, numBlocks, 0
			for _, item := range items {
				assert.Equal(t, next, item.Start, "gap or overlap at %v", item)
				assert.True(t, item.Len() > 0, "empty range %v", item)
				if item.Len() < lo {
					lo = item.Len()
				}
				if item.Len() > hi {
					hi = item.Len()
				}
				next = item.End
			}
			assert.Equal(t, numBlocks, next, "blocks=%d workers=%d", numBlocks, numWorkers)
			if len(items) > 0 {
				assert.True(t, hi-lo <= 1, "uneven split %v", items)
			}
		}
	}
}

func TestPartitionExtraBlocksGoFirst(t *testing.T) {
	assert.Equal(t, []WorkItem{{0, 3}, {3, 6}, {6, 8}, {8, 10}}, Partition(10, 4))
	assert.Equal(t, []WorkItem{{0, 1}}, Partition(1, 4))
}

func TestPartitionDegenerate(t *testing.T) {
	assert.Empty(t, Partition(0, 8))
	assert.Empty(t, Partition(16, 0))
	assert.Empty(t, Partition(16, -1))
}
