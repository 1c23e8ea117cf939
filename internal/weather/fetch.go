package weather

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxForecastDays bounds the normalized forecast: today plus three ahead.
const maxForecastDays = 4

// Fetcher turns coordinates into a WeatherSnapshot. It does not cache;
// caching is the pipeline's responsibility.
type Fetcher struct {
	client ProviderClient
	log    *zap.SugaredLogger

	// now is swappable in tests.
	now func() time.Time
}

// NewFetcher creates a Fetcher.
func NewFetcher(client ProviderClient, log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Fetch retrieves current conditions and the forecast for the coordinates
// and assembles a snapshot. The two upstream calls run concurrently and both
// must succeed; no partial snapshot is ever returned. city and country are
// passed through onto the snapshot.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64, city, country string) (WeatherSnapshot, error) {
	var (
		current CurrentConditions
		samples []ForecastSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = f.client.CurrentConditions(gctx, lat, lon)
		return err
	})
	g.Go(func() error {
		var err error
		samples, err = f.client.Forecast(gctx, lat, lon)
		return err
	})
	if err := g.Wait(); err != nil {
		return WeatherSnapshot{}, err
	}

	if len(samples) == 0 {
		return WeatherSnapshot{}, MalformedResponse("forecast contained no entries", nil)
	}
	if len(current.Conditions) == 0 {
		return WeatherSnapshot{}, MalformedResponse("current conditions missing weather descriptions", nil)
	}

	snapshot := WeatherSnapshot{
		Current:   current,
		Daily:     normalizeDaily(samples),
		City:      city,
		Country:   country,
		FetchedAt: f.now().Unix(),
	}

	f.log.Debugw("weather fetched",
		"city", city,
		"temp", snapshot.Current.Temp,
		"forecastDays", len(snapshot.Daily))
	return snapshot, nil
}

// normalizeDaily reduces raw samples to at most one entry per UTC calendar
// day, chronological, capped at maxForecastDays. When a day has several
// samples the first encountered wins; the day's temperature is that sample's,
// not an aggregate.
func normalizeDaily(samples []ForecastSample) []DailyForecast {
	sorted := make([]ForecastSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	seen := make(map[string]struct{}, maxForecastDays)
	daily := make([]DailyForecast, 0, maxForecastDays)

	for _, s := range sorted {
		day := time.Unix(s.At, 0).UTC().Format("2006-01-02")
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}

		daily = append(daily, DailyForecast{
			Date:       s.At,
			Temp:       s.Temp,
			Conditions: s.Conditions,
		})
		if len(daily) == maxForecastDays {
			break
		}
	}
	return daily
}
