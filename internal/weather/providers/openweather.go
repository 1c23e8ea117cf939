package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kurosakiaduma/weather-app-pawa/internal/weather"
)

const defaultBaseURL = "https://api.openweathermap.org"

// OpenWeatherClient implements weather.ProviderClient against the
// OpenWeatherMap geocoding and free-tier weather endpoints.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     *zap.SugaredLogger
}

var _ weather.ProviderClient = (*OpenWeatherClient)(nil)

// NewOpenWeatherClient creates a client sharing one circuit breaker across
// the geocode, current and forecast operations.
func NewOpenWeatherClient(client *http.Client, apiKey string, retry RetryConfig, log *zap.SugaredLogger) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry:  retry,
		},
		circuit: cb,
		log:     log,
	}
}

// SetBaseURL points the client at a different host. Used by tests.
func (c *OpenWeatherClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Geocode resolves a city name via /geo/1.0/direct. The query keeps the
// caller's original casing and spacing. An empty slice means no match.
func (c *OpenWeatherClient) Geocode(ctx context.Context, city string, limit int) ([]weather.GeocodeResult, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("limit", fmt.Sprintf("%d", limit))
	values.Set("appid", c.apiKey)

	resp, err := c.get(ctx, "/geo/1.0/direct", values)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, weather.UpstreamFailed(resp.Status, resp.Body)
	}

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
		State   string  `json:"state"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, weather.MalformedResponse("geocoding response is not a location list", err)
	}

	results := make([]weather.GeocodeResult, 0, len(payload))
	for _, item := range payload {
		results = append(results, weather.GeocodeResult{
			Name:    item.Name,
			Lat:     item.Lat,
			Lon:     item.Lon,
			Country: item.Country,
			State:   item.State,
		})
	}
	return results, nil
}

// CurrentConditions fetches observed weather via /data/2.5/weather in metric
// units.
func (c *OpenWeatherClient) CurrentConditions(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	resp, err := c.get(ctx, "/data/2.5/weather", c.coordValues(lat, lon))
	if err != nil {
		return weather.CurrentConditions{}, err
	}
	if resp.Status != http.StatusOK {
		return weather.CurrentConditions{}, weather.UpstreamFailed(resp.Status, resp.Body)
	}

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return weather.CurrentConditions{}, weather.MalformedResponse("current weather response undecodable", err)
	}

	conditions := make([]weather.Condition, 0, len(payload.Weather))
	for _, w := range payload.Weather {
		conditions = append(conditions, weather.Condition{
			Description: w.Description,
			Icon:        w.Icon,
		})
	}

	return weather.CurrentConditions{
		Temp:       payload.Main.Temp,
		Humidity:   payload.Main.Humidity,
		WindSpeed:  payload.Wind.Speed,
		Conditions: conditions,
		ObservedAt: payload.Dt,
	}, nil
}

// Forecast fetches the 5-day/3-hour forecast via /data/2.5/forecast in
// metric units. Samples come back in provider order, several per day.
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, error) {
	resp, err := c.get(ctx, "/data/2.5/forecast", c.coordValues(lat, lon))
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, weather.UpstreamFailed(resp.Status, resp.Body)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, weather.MalformedResponse("forecast response undecodable", err)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		conditions := make([]weather.Condition, 0, len(item.Weather))
		for _, w := range item.Weather {
			conditions = append(conditions, weather.Condition{
				Description: w.Description,
				Icon:        w.Icon,
			})
		}
		samples = append(samples, weather.ForecastSample{
			At:         item.Dt,
			Temp:       item.Main.Temp,
			Conditions: conditions,
		})
	}
	return samples, nil
}

func (c *OpenWeatherClient) coordValues(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)
	return values
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, values url.Values) (*Response, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithRetry(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		c.log.Warnw("provider request failed", "path", path, "error", err)
		return nil, err
	}
	return resp, nil
}
