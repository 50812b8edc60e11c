// Package alohactr runs AES in counter mode across many goroutines while
// producing exactly the bytes a serial CTR loop would.
//
// Every block's keystream depends only on the key and on the initial counter
// plus the block's index, so a buffer can be cut into contiguous ranges and
// each range handed to its own worker with no shared mutable state. The
// Strategy chosen per call decides where each worker keeps its key schedule
// and scratch buffers; the JoinPolicy decides whether workers wait for each
// other before leaving the parallel region. Neither changes the output.
package alohactr

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lanikai/alohactr/internal/aes"
	"github.com/lanikai/alohactr/internal/logging"
)

var log = logging.DefaultLogger.WithTag("ctr")

// Per-worker events are logged at this trace level.
const workerLogLevel = logging.Level(5)

// Engine owns the bounded scratch table shared by array-strategy workers.
// An Engine is safe for concurrent use; calls that use the table are
// serialized, the others run in parallel.
type Engine struct {
	table *scratchTable
	log   *logging.Logger
}

func NewEngine(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if cfg.MaxWorkers < 1 {
		return nil, errors.Wrapf(ErrInvalidWorkerCount, "MaxWorkers=%d", cfg.MaxWorkers)
	}
	return &Engine{
		table: newScratchTable(cfg.MaxWorkers),
		log:   cfg.Logger,
	}, nil
}

// MaxWorkers is the largest worker count the array strategies accept.
func (e *Engine) MaxWorkers() int {
	return e.table.capacity()
}

var (
	defaultEngine     *Engine
	defaultEngineErr  error
	defaultEngineOnce sync.Once
)

// Transform runs Engine.Transform on a process-wide engine built from
// DefaultConfig.
func Transform(ctx *Context, strategy Strategy, join JoinPolicy, workers int, buf []byte) error {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = NewEngine(DefaultConfig())
	})
	if defaultEngineErr != nil {
		return errors.Wrap(defaultEngineErr, "default engine")
	}
	return defaultEngine.Transform(ctx, strategy, join, workers, buf)
}

// Transform encrypts or decrypts buf in place with the keystream starting at
// ctx's counter, and advances the counter by the number of blocks consumed
// (a trailing partial block counts as one). The whole blocks are spread over
// up to workers goroutines; the partial block, if any, is finished
// afterwards on the calling goroutine.
//
// buf and the counter are only meaningful once Transform returns. On error
// the counter is left unchanged and buf may be partially transformed.
func (e *Engine) Transform(ctx *Context, strategy Strategy, join JoinPolicy, workers int, buf []byte) error {
	if ctx == nil {
		return ErrNilContext
	}
	if !strategy.valid() {
		return errors.Wrapf(ErrUnknownStrategy, "%d", int(strategy))
	}
	if !join.valid() {
		return errors.Wrapf(ErrUnknownJoinPolicy, "%d", int(join))
	}
	if workers < 1 {
		return errors.Wrapf(ErrInvalidWorkerCount, "got %d", workers)
	}
	if strategy.usesTable() && workers > e.MaxWorkers() {
		return errors.Wrapf(ErrScratchExhausted, "%d workers requested, %s table holds %d",
			workers, strategy, e.MaxWorkers())
	}

	start := time.Now()
	numBlocks := len(buf) / BlockSize
	initial := ctx.iv
	items := Partition(numBlocks, workers)

	if strategy.usesTable() {
		e.table.mu.Lock()
		defer e.table.mu.Unlock()
	}

	if err := e.fanOut(ctx, strategy, join, initial, items, buf); err != nil {
		return errors.Wrapf(err, "%s/%s with %d workers", strategy, join, workers)
	}

	next := initial
	next.Add(uint64(numBlocks))
	if tail := buf[numBlocks*BlockSize:]; len(tail) > 0 {
		if err := finishRemainder(ctx, strategy, next, tail); err != nil {
			return err
		}
		next.Add(1)
	}
	ctx.iv = next

	e.log.Debug("%s/%s: %d bytes, %d blocks over %d workers in %v",
		strategy, join, len(buf), numBlocks, len(items), time.Since(start))
	return nil
}

// fanOut runs one goroutine per work item and returns once all of them have
// finished. The first worker error is returned.
func (e *Engine) fanOut(ctx *Context, strategy Strategy, join JoinPolicy, initial Counter, items []WorkItem, buf []byte) error {
	var g errgroup.Group
	var barrier sync.WaitGroup
	if join == BarrierJoined {
		barrier.Add(len(items))
	}

	for id, item := range items {
		id, item := id, item
		g.Go(func() error {
			err := e.work(ctx, strategy, id, initial, item, buf)

			if join == BarrierJoined {
				barrier.Done()
				barrier.Wait()
			}

			// Past the parallel region.
			if e.log.Enabled(workerLogLevel) {
				e.log.Trace(int(workerLogLevel), "worker %d %v %s/%s err=%v", id, item, strategy, join, err)
			}
			return err
		})
	}

	return g.Wait()
}

// work processes one range. A panic inside the worker is turned into an
// error so the call fails instead of the process.
func (e *Engine) work(ctx *Context, strategy Strategy, id int, initial Counter, item WorkItem, buf []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("worker %d panicked on %v: %v", id, item, r)
		}
	}()

	w, err := e.newWorker(ctx, strategy, id)
	if err != nil {
		return errors.Wrapf(err, "worker %d", id)
	}
	w.run(initial, item, buf)
	return nil
}

// worker is the per-goroutine state for one range: the key schedule it
// encrypts with and the scratch it stages each block in.
type worker struct {
	block *aes.BlockCipher
	ctr   []byte
	out   []byte
}

func (e *Engine) newWorker(ctx *Context, strategy Strategy, id int) (*worker, error) {
	w := &worker{block: &ctx.block}

	if strategy != SharedReference {
		block, err := ctx.block.Clone()
		if err != nil {
			return nil, errors.Wrap(err, "copy key schedule")
		}
		w.block = &block
	}

	if strategy.usesTable() {
		ctr, out, err := e.table.slot(strategy, id)
		if err != nil {
			return nil, err
		}
		w.ctr, w.out = ctr, out
	} else {
		slot := new(paddedSlot)
		w.ctr, w.out = slot.ctr[:], slot.out[:]
	}
	return w, nil
}

// run derives each block's counter from the initial counter, encrypts it in
// scratch and XORs the keystream into the block's place in buf.
func (w *worker) run(initial Counter, item WorkItem, buf []byte) {
	for i := item.Start; i < item.End; i++ {
		copy(w.ctr, initial[:])
		addCounter(w.ctr, uint64(i))
		w.block.Encrypt(w.out, w.ctr)

		off := i * BlockSize
		xorBytes(buf[off:off+BlockSize], w.out)
	}
}

// finishRemainder XORs the first len(tail) bytes of counter's keystream
// block into tail. Runs after the join, on the calling goroutine.
func finishRemainder(ctx *Context, strategy Strategy, counter Counter, tail []byte) error {
	block := &ctx.block
	if strategy != SharedReference {
		clone, err := ctx.block.Clone()
		if err != nil {
			return errors.Wrap(err, "copy key schedule for remainder")
		}
		block = &clone
	}

	var keystream [BlockSize]byte
	block.Encrypt(keystream[:], counter[:])
	xorBytes(tail, keystream[:])
	return nil
}
