package weather

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeClient is a scriptable ProviderClient that counts upstream calls.
type fakeClient struct {
	geocodeFn  func(ctx context.Context, city string, limit int) ([]GeocodeResult, error)
	currentFn  func(ctx context.Context, lat, lon float64) (CurrentConditions, error)
	forecastFn func(ctx context.Context, lat, lon float64) ([]ForecastSample, error)

	geocodeCalls  atomic.Int64
	currentCalls  atomic.Int64
	forecastCalls atomic.Int64
}

func (f *fakeClient) Geocode(ctx context.Context, city string, limit int) ([]GeocodeResult, error) {
	f.geocodeCalls.Add(1)
	return f.geocodeFn(ctx, city, limit)
}

func (f *fakeClient) CurrentConditions(ctx context.Context, lat, lon float64) (CurrentConditions, error) {
	f.currentCalls.Add(1)
	return f.currentFn(ctx, lat, lon)
}

func (f *fakeClient) Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error) {
	f.forecastCalls.Add(1)
	return f.forecastFn(ctx, lat, lon)
}

// fakeStore is an in-memory Store that records the TTL of each Put and lets
// tests expire entries by hand.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (s *fakeStore) Has(ctx context.Context, key string) bool {
	_, ok := s.Get(ctx, key)
	return ok
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) expire(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *fakeStore) ttlOf(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttls[key]
}

// nairobi is the canonical happy-path fixture used across the package tests.
var nairobi = GeocodeResult{
	Name:    "Nairobi",
	Lat:     -1.292066,
	Lon:     36.821945,
	Country: "KE",
}

func nairobiClient() *fakeClient {
	return &fakeClient{
		geocodeFn: func(_ context.Context, _ string, _ int) ([]GeocodeResult, error) {
			return []GeocodeResult{nairobi}, nil
		},
		currentFn: func(_ context.Context, _, _ float64) (CurrentConditions, error) {
			return CurrentConditions{
				Temp:       25.4,
				Humidity:   65,
				WindSpeed:  3.6,
				Conditions: []Condition{{Description: "scattered clouds", Icon: "03d"}},
				ObservedAt: 1700000000,
			}, nil
		},
		forecastFn: func(_ context.Context, _, _ float64) ([]ForecastSample, error) {
			return []ForecastSample{
				{At: 1700000000, Temp: 25.4, Conditions: []Condition{{Description: "scattered clouds", Icon: "03d"}}},
				{At: 1700086400, Temp: 24.1, Conditions: []Condition{{Description: "light rain", Icon: "10d"}}},
			}, nil
		},
	}
}
