package system

import (
	"errors"

	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/render"
	"go.uber.org/zap"
)

// TextureSystem hands finished loads and file-change notices to the cache.
// It is the only place textures enter the cache, so uploads stay on the
// frame thread.
type TextureSystem struct {
	cache    *render.Cache
	results  <-chan render.Result
	changes  <-chan render.Handle
	upload   render.Uploader
	perFrame int
	logger   *zap.Logger
}

// NewTextureSystem drains up to perFrame results per Update; zero means no
// limit. changes may be nil when hot reload is off.
func NewTextureSystem(cache *render.Cache, results <-chan render.Result, changes <-chan render.Handle, upload render.Uploader, perFrame int, logger *zap.Logger) *TextureSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextureSystem{
		cache:    cache,
		results:  results,
		changes:  changes,
		upload:   upload,
		perFrame: perFrame,
		logger:   logger,
	}
}

func (s *TextureSystem) Update(_ *ecs.World) {
	if s == nil || s.cache == nil {
		return
	}
	s.drainChanges()
	s.drainResults()
}

func (s *TextureSystem) drainResults() {
	for n := 0; s.perFrame <= 0 || n < s.perFrame; n++ {
		select {
		case res, ok := <-s.results:
			if !ok {
				s.results = nil
				return
			}
			if err := s.cache.Complete(res, s.upload); err != nil && !errors.Is(err, render.ErrStaleResult) {
				s.logger.Debug("texture completion", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (s *TextureSystem) drainChanges() {
	for {
		select {
		case h, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			if s.cache.Reload(h) {
				s.logger.Info("texture changed, reloading", zap.String("handle", string(h)))
			}
		default:
			return
		}
	}
}
