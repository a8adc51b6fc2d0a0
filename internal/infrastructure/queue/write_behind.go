package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	opTimeout      = 5 * time.Second
)

// ErrClosed is returned for writes after Close.
var ErrClosed = errors.New("write-behind queue closed")

type op struct {
	key    string
	value  []byte
	delete bool
	seq    uint64
}

// WriteBehind is a session.Bridge that acknowledges writes immediately and
// applies them to an inner bridge from a fixed set of workers. Keys are
// sharded by hash, so writes to one key reach the inner bridge in order.
// Reads see the newest accepted value even before it is flushed.
//
// Callers must serialize writes to the same key; Store does.
type WriteBehind struct {
	inner   session.Bridge
	workers []chan op
	log     zerolog.Logger
	onFail  func(key string, err error)

	mu      sync.Mutex
	pending map[string]op
	seq     uint64
	depth   int

	sendMu sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option customizes a WriteBehind.
type Option func(*WriteBehind)

// WithFailureHook is called from a worker whenever the inner bridge rejects
// a queued write.
func WithFailureHook(fn func(key string, err error)) Option {
	return func(w *WriteBehind) { w.onFail = fn }
}

// NewWriteBehind starts numWorkers workers draining into inner. If
// numWorkers <= 0, defaultWorkers is used.
func NewWriteBehind(inner session.Bridge, numWorkers int, log zerolog.Logger, opts ...Option) *WriteBehind {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &WriteBehind{
		inner:   inner,
		workers: make([]chan op, numWorkers),
		log:     log,
		pending: make(map[string]op),
	}
	for _, opt := range opts {
		opt(w)
	}
	for i := range w.workers {
		w.workers[i] = make(chan op, channelBuffer)
		w.wg.Add(1)
		go w.runWorker(i, w.workers[i])
	}
	return w
}

func (w *WriteBehind) Read(ctx context.Context, key string) ([]byte, bool, error) {
	w.mu.Lock()
	p, ok := w.pending[key]
	w.mu.Unlock()
	if ok {
		if p.delete {
			return nil, false, nil
		}
		return append([]byte(nil), p.value...), true, nil
	}
	return w.inner.Read(ctx, key)
}

func (w *WriteBehind) Write(_ context.Context, key string, value []byte) error {
	return w.enqueue(op{key: key, value: append([]byte(nil), value...)})
}

func (w *WriteBehind) Delete(_ context.Context, key string) error {
	return w.enqueue(op{key: key, delete: true})
}

// Depth reports how many accepted operations have not reached the inner
// bridge yet.
func (w *WriteBehind) Depth() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.depth
}

// enqueue blocks once the key's shard buffer is full.
func (w *WriteBehind) enqueue(o op) error {
	w.sendMu.RLock()
	defer w.sendMu.RUnlock()
	if w.closed {
		return ErrClosed
	}

	w.mu.Lock()
	w.seq++
	o.seq = w.seq
	w.pending[o.key] = o
	w.depth++
	w.mu.Unlock()

	w.workers[w.shardIndex(o.key)] <- o
	return nil
}

// Close stops accepting writes and waits for queued ones to drain, or for
// ctx to end.
func (w *WriteBehind) Close(ctx context.Context) error {
	w.sendMu.Lock()
	if !w.closed {
		w.closed = true
		for _, ch := range w.workers {
			close(ch)
		}
	}
	w.sendMu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		w.log.Warn().Int("pending", w.Depth()).Msg("write-behind drain interrupted")
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (w *WriteBehind) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(w.workers)))
}

func (w *WriteBehind) runWorker(id int, ch <-chan op) {
	defer w.wg.Done()
	for o := range ch {
		if err := w.apply(o); err != nil {
			w.log.Error().Err(err).
				Str("key", o.key).
				Int("worker_id", id).
				Msg("write-behind flush failed")
			if w.onFail != nil {
				w.onFail(o.key, err)
			}
		}

		w.mu.Lock()
		if p, ok := w.pending[o.key]; ok && p.seq == o.seq {
			delete(w.pending, o.key)
		}
		w.depth--
		w.mu.Unlock()
	}
}

func (w *WriteBehind) apply(o op) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if o.delete {
		return w.inner.Delete(ctx, o.key)
	}
	return w.inner.Write(ctx, o.key, o.value)
}
