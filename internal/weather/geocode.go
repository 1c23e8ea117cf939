package weather

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kurosakiaduma/weather-app-pawa/internal/store"
)

const geoKeyPrefix = "geo_"

// ProviderClient abstracts the upstream geocoding+weather provider. The
// concrete implementation lives in the providers package; tests supply fakes.
type ProviderClient interface {
	// Geocode resolves a free-form city name to candidate locations. An empty
	// slice means the provider knows no such place.
	Geocode(ctx context.Context, city string, limit int) ([]GeocodeResult, error)
	// CurrentConditions fetches the observed weather at the coordinates.
	CurrentConditions(ctx context.Context, lat, lon float64) (CurrentConditions, error)
	// Forecast fetches raw forecast samples for the coordinates, several per
	// calendar day depending on provider granularity.
	Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error)
}

// Resolver maps a city name to coordinates, caching results long-lived.
type Resolver struct {
	cache  store.Store
	client ProviderClient
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewResolver creates a Resolver. ttl is the geocoding cache lifetime,
// typically days: coordinates are near-static.
func NewResolver(cache store.Store, client ProviderClient, ttl time.Duration, log *zap.SugaredLogger) *Resolver {
	return &Resolver{
		cache:  cache,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Resolve returns the coordinates for city, from cache when possible. Fails
// with NotFound when the provider has no match; negative results are never
// cached. The original casing and spacing of city is what goes upstream.
func (r *Resolver) Resolve(ctx context.Context, city string) (Coordinates, error) {
	key := geoKeyPrefix + NormalizeCityKey(city)

	if raw, ok := r.cache.Get(ctx, key); ok {
		var coords Coordinates
		if err := json.Unmarshal(raw, &coords); err == nil {
			r.log.Debugw("geocoding cache hit", "city", city)
			return coords, nil
		}
		// Undecodable entry: fall through and refresh it.
		r.log.Warnw("dropping undecodable geocoding cache entry", "key", key)
	}

	results, err := r.client.Geocode(ctx, city, 1)
	if err != nil {
		return Coordinates{}, err
	}
	if len(results) == 0 {
		return Coordinates{}, NotFound(city)
	}

	first := results[0]
	country := first.Country
	if country == "" {
		country = "Unknown"
	}
	coords := Coordinates{
		Lat:          first.Lat,
		Lon:          first.Lon,
		Country:      country,
		ResolvedName: first.Name,
		State:        first.State,
	}

	if raw, err := json.Marshal(coords); err == nil {
		if putErr := r.cache.Put(ctx, key, raw, r.ttl); putErr != nil {
			r.log.Warnw("geocoding cache write failed", "key", key, "error", putErr)
		}
	}

	r.log.Infow("city geocoded",
		"city", city,
		"lat", coords.Lat,
		"lon", coords.Lon,
		"country", coords.Country)
	return coords, nil
}
