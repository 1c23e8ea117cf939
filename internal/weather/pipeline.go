package weather

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kurosakiaduma/weather-app-pawa/internal/store"
)

const weatherKeyPrefix = "weather_"

// Pipeline orchestrates the two-stage resolution (name → coordinates →
// weather) and owns the outer cache tier keyed by city. Concurrent misses
// for the same city are collapsed to a single upstream sequence; followers
// receive the leader's result.
type Pipeline struct {
	cache    store.Store
	resolver *Resolver
	fetcher  *Fetcher
	ttl      time.Duration
	group    singleflight.Group
	log      *zap.SugaredLogger
}

// NewPipeline creates a Pipeline. ttl is the weather cache lifetime,
// typically minutes: weather is volatile, so this tier must stay much
// shorter-lived than the resolver's geocoding tier.
func NewPipeline(cache store.Store, resolver *Resolver, fetcher *Fetcher, ttl time.Duration, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		cache:    cache,
		resolver: resolver,
		fetcher:  fetcher,
		ttl:      ttl,
		log:      log,
	}
}

// Resolve returns the weather snapshot for city. A live outer cache entry
// short-circuits all upstream work; within the TTL window repeated calls
// return identical data and issue zero upstream calls. Failures from the
// resolver and fetcher propagate verbatim; the pipeline adds no retries of
// its own.
func (p *Pipeline) Resolve(ctx context.Context, city string) (WeatherSnapshot, error) {
	key := weatherKeyPrefix + NormalizeCityKey(city)

	if snapshot, ok := p.cached(ctx, key); ok {
		p.log.Infow("weather cache hit", "city", city)
		return snapshot, nil
	}
	p.log.Infow("weather cache miss", "city", city)

	result, err, _ := p.group.Do(key, func() (interface{}, error) {
		// A follower may have populated the cache while we waited to lead.
		if snapshot, ok := p.cached(ctx, key); ok {
			return snapshot, nil
		}

		coords, err := p.resolver.Resolve(ctx, city)
		if err != nil {
			return WeatherSnapshot{}, err
		}

		snapshot, err := p.fetcher.Fetch(ctx, coords.Lat, coords.Lon, city, coords.Country)
		if err != nil {
			return WeatherSnapshot{}, err
		}

		if raw, err := json.Marshal(snapshot); err == nil {
			if putErr := p.cache.Put(ctx, key, raw, p.ttl); putErr != nil {
				p.log.Warnw("weather cache write failed", "key", key, "error", putErr)
			}
		}
		return snapshot, nil
	})
	if err != nil {
		return WeatherSnapshot{}, err
	}
	return result.(WeatherSnapshot), nil
}

func (p *Pipeline) cached(ctx context.Context, key string) (WeatherSnapshot, bool) {
	raw, ok := p.cache.Get(ctx, key)
	if !ok {
		return WeatherSnapshot{}, false
	}
	var snapshot WeatherSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		p.log.Warnw("dropping undecodable weather cache entry", "key", key)
		return WeatherSnapshot{}, false
	}
	return snapshot, true
}
