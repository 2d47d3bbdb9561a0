package render

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pixels is decoded image data ready for upload. Digest identifies the
// encoded bytes so unchanged files can skip a re-upload.
type Pixels struct {
	Image  image.Image
	Digest uint64
}

// Loader produces pixels for a handle. Implementations may block and are
// called from worker goroutines.
type Loader interface {
	Load(ctx context.Context, h Handle) (Pixels, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, h Handle) (Pixels, error)

func (f LoaderFunc) Load(ctx context.Context, h Handle) (Pixels, error) {
	return f(ctx, h)
}

// Result is the outcome of one Request.
type Result struct {
	Request Request
	Pixels  Pixels
	Err     error
}

// LoadQueue runs a Loader on a fixed pool of workers. Enqueue never blocks;
// results are delivered on Results and must be drained by the frame loop.
type LoadQueue struct {
	loader   Loader
	requests chan Request
	results  chan Result
	cancel   context.CancelFunc
	group    *errgroup.Group
	closed   atomic.Bool
	once     sync.Once
	logger   *zap.Logger
}

func NewLoadQueue(ctx context.Context, loader Loader, workers, depth int, logger *zap.Logger) *LoadQueue {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	q := &LoadQueue{
		loader:   loader,
		requests: make(chan Request, depth),
		results:  make(chan Result, depth),
		cancel:   cancel,
		group:    group,
		logger:   logger,
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error { return q.work(gctx) })
	}
	return q
}

func (q *LoadQueue) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-q.requests:
			px, err := q.loader.Load(ctx, req.Handle)
			select {
			case q.results <- Result{Request: req, Pixels: px, Err: err}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Enqueue implements Requester.
func (q *LoadQueue) Enqueue(req Request) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}
	select {
	case q.requests <- req:
		q.logger.Debug("texture load queued", zap.String("handle", string(req.Handle)), zap.Int("attempt", req.Attempt))
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *LoadQueue) Results() <-chan Result {
	return q.results
}

// Close stops the workers and waits for them. Pending requests are dropped.
func (q *LoadQueue) Close() error {
	var err error
	q.once.Do(func() {
		q.closed.Store(true)
		q.cancel()
		err = q.group.Wait()
	})
	return err
}
