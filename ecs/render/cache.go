package render

import (
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handle is the stable key of a logical texture, the asset-relative path of
// its image. It never changes while the resource exists and is unrelated to
// any GPU object id.
type Handle string

type Status uint8

const (
	StatusPending Status = iota + 1
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request asks the loader for the pixels of Handle. ID identifies this
// particular attempt so late results of superseded attempts can be dropped.
type Request struct {
	ID      uuid.UUID
	Handle  Handle
	Attempt int
}

// Requester accepts load requests without blocking.
type Requester interface {
	Enqueue(req Request) error
}

// Uploader turns decoded pixels into a texture. Backend.NewTexture fits.
type Uploader func(img image.Image) (Texture, error)

type CacheStats struct {
	Hits     int
	Misses   int
	Requests int
	Failures int
	Stale    int
	Loaded   int
}

type entry struct {
	tex      Texture
	status   Status
	inflight uuid.UUID
	attempts int
	failedAt time.Time
	err      error
	digest   uint64
	dirty    bool
}

// Cache maps handles to textures. It is the single owner of every texture it
// holds: callers may use a returned texture only until the next cache
// mutation (Insert, Complete, Reload).
//
// Cache is not safe for concurrent use. Loads run elsewhere; their results
// must be handed back through Complete or Insert on the frame thread.
type Cache struct {
	entries    map[Handle]*entry
	requests   Requester
	retryAfter time.Duration
	now        func() time.Time
	logger     *zap.Logger
	stats      CacheStats
}

type CacheOption func(*Cache)

// WithRetryAfter throttles retries of failed handles.
func WithRetryAfter(d time.Duration) CacheOption {
	return func(c *Cache) { c.retryAfter = d }
}

func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func WithCacheLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewCache(requests Requester, opts ...CacheOption) *Cache {
	c := &Cache{
		entries:  make(map[Handle]*entry),
		requests: requests,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrRequest returns the loaded texture for h. On a miss it returns false
// and makes sure exactly one load for h is outstanding; a miss is transient,
// not an error.
func (c *Cache) GetOrRequest(h Handle) (Texture, bool) {
	e, ok := c.entries[h]
	if ok && e.status == StatusLoaded && e.tex != nil {
		c.stats.Hits++
		if e.dirty && e.inflight == uuid.Nil {
			c.request(h, e)
		}
		return e.tex, true
	}
	c.stats.Misses++

	if !ok {
		e = &entry{status: StatusPending}
		c.entries[h] = e
		c.request(h, e)
		return nil, false
	}

	switch e.status {
	case StatusPending:
		if e.inflight == uuid.Nil {
			c.request(h, e)
		}
	case StatusFailed:
		if c.now().Sub(e.failedAt) >= c.retryAfter {
			c.request(h, e)
		}
	}
	return nil, false
}

func (c *Cache) request(h Handle, e *entry) bool {
	if c.requests == nil {
		return false
	}
	req := Request{ID: uuid.New(), Handle: h, Attempt: e.attempts + 1}
	if err := c.requests.Enqueue(req); err != nil {
		c.logger.Debug("texture request deferred", zap.String("handle", string(h)), zap.Error(err))
		return false
	}
	e.inflight = req.ID
	e.attempts++
	e.dirty = false
	if e.tex == nil {
		e.status = StatusPending
	}
	c.stats.Requests++
	return true
}

// Insert stores tex under h, replacing and releasing any previous texture.
func (c *Cache) Insert(h Handle, tex Texture) {
	if tex == nil {
		return
	}
	e, ok := c.entries[h]
	if !ok {
		e = &entry{}
		c.entries[h] = e
	}
	if e.tex != nil && e.tex != tex {
		e.tex.Deallocate()
	}
	if e.status != StatusLoaded {
		c.stats.Loaded++
	}
	e.tex = tex
	e.status = StatusLoaded
	e.inflight = uuid.Nil
	e.attempts = 0
	e.err = nil
}

// Fail records a failed load. A handle that still holds an older texture
// keeps serving it; otherwise it becomes retry-eligible.
func (c *Cache) Fail(h Handle, err error) {
	e, ok := c.entries[h]
	if !ok {
		e = &entry{}
		c.entries[h] = e
	}
	c.stats.Failures++
	e.inflight = uuid.Nil
	e.err = err
	if e.tex != nil {
		c.logger.Warn("texture reload failed, keeping previous", zap.String("handle", string(h)), zap.Error(err))
	} else {
		e.status = StatusFailed
		e.failedAt = c.now()
		c.logger.Warn("texture load failed", zap.String("handle", string(h)), zap.Int("attempt", e.attempts), zap.Error(err))
	}
	c.followUp(h, e)
}

// followUp issues the load owed to a change that arrived while another load
// of h was in flight.
func (c *Cache) followUp(h Handle, e *entry) {
	if e.dirty && e.inflight == uuid.Nil {
		c.request(h, e)
	}
}

// Complete applies a load result. Results for attempts other than the one
// in flight return ErrStaleResult. Pixels whose digest matches the texture
// already held are not uploaded again.
func (c *Cache) Complete(res Result, upload Uploader) error {
	h := res.Request.Handle
	e, ok := c.entries[h]
	if !ok || e.inflight == uuid.Nil || e.inflight != res.Request.ID {
		c.stats.Stale++
		return ErrStaleResult
	}
	if res.Err != nil {
		c.Fail(h, res.Err)
		return fmt.Errorf("render: load %q: %w", h, res.Err)
	}
	if e.tex != nil && res.Pixels.Digest != 0 && res.Pixels.Digest == e.digest {
		e.inflight = uuid.Nil
		c.followUp(h, e)
		return nil
	}
	tex, err := upload(res.Pixels.Image)
	if err != nil {
		c.Fail(h, err)
		return fmt.Errorf("render: upload %q: %w", h, err)
	}
	c.Insert(h, tex)
	e.digest = res.Pixels.Digest
	c.logger.Debug("texture loaded", zap.String("handle", string(h)))
	c.followUp(h, e)
	return nil
}

// Reload requests a fresh load of a known handle while it keeps serving the
// current texture. A change that arrives while a load is in flight is
// remembered and loaded once that load settles, so the last change always
// wins. Reload reports whether h is known.
func (c *Cache) Reload(h Handle) bool {
	e, ok := c.entries[h]
	if !ok {
		return false
	}
	e.dirty = true
	if e.inflight == uuid.Nil {
		c.request(h, e)
	}
	return true
}

// Status reports the load status of h.
func (c *Cache) Status(h Handle) (Status, bool) {
	e, ok := c.entries[h]
	if !ok {
		return 0, false
	}
	return e.status, true
}

// Err returns the last load error recorded for h.
func (c *Cache) Err(h Handle) error {
	if e, ok := c.entries[h]; ok {
		return e.err
	}
	return nil
}

func (c *Cache) Stats() CacheStats {
	return c.stats
}

func (c *Cache) Len() int {
	return len(c.entries)
}
