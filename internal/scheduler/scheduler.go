// Package scheduler keeps the weather cache warm for a configured set of
// cities so their entries are refreshed before they expire.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/kurosakiaduma/weather-app-pawa/internal/weather"
)

// CityResolver is the slice of the pipeline the warmer needs.
type CityResolver interface {
	Resolve(ctx context.Context, city string) (weather.WeatherSnapshot, error)
}

// Warmer periodically runs the resolution pipeline for each configured city.
type Warmer struct {
	scheduler *gocron.Scheduler
	resolver  CityResolver
	cities    []string
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a Warmer.
func New(cities []string, interval time.Duration, resolver CityResolver, log *zap.SugaredLogger) *Warmer {
	return &Warmer{
		scheduler: gocron.NewScheduler(time.UTC),
		resolver:  resolver,
		cities:    cities,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic warm job and starts the underlying scheduler.
// With no cities configured the warmer is a no-op.
func (w *Warmer) Start() error {
	if len(w.cities) == 0 {
		w.log.Info("cache warmer: no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(w.interval.Minutes())
	if minutes <= 0 {
		minutes = 25
	}

	_, err := w.scheduler.Every(minutes).Minutes().Do(w.warmAll)
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

func (w *Warmer) warmAll() {
	w.log.Infow("cache warmer: refreshing cities", "count", len(w.cities))

	var wg sync.WaitGroup
	for _, city := range w.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := w.resolver.Resolve(ctx, city); err != nil {
				w.log.Warnw("cache warmer: refresh failed", "city", city, "error", err)
			}
		}()
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
