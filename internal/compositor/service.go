package compositor

import (
	"context"

	"wallpaper-planner/internal/common/logging"

	"go.uber.org/zap"
)

// Service puts the cache in front of a Composer.
type Service struct {
	composer Composer
	cache    Cache
}

// NewService falls back to NopCache when cache is nil.
func NewService(composer Composer, cache Cache) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{composer: composer, cache: cache}
}

// Render returns a cached composite when one exists for the same inputs,
// otherwise calls the service. Cache failures are logged and ignored.
func (s *Service) Render(ctx context.Context, apiKey string, req *Request) (*Result, bool, error) {
	log := logging.Named("compositor")
	key := req.CacheKey()

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed", zap.Error(err))
	}
	if cached != nil {
		log.Info("cache hit", zap.String("key", key))
		return cached, true, nil
	}

	res, err := s.composer.Compose(ctx, apiKey, req)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, res); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}
	return res, false, nil
}
