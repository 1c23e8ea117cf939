package weather

import "strings"

// Coordinates is a geocoding result for a city. Immutable once produced;
// cached long-lived because coordinates rarely change.
type Coordinates struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Country      string  `json:"country"`
	ResolvedName string  `json:"resolvedName"`
	State        string  `json:"state,omitempty"`
}

// Condition is a single weather condition with its provider icon code.
type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentConditions holds the observed weather at a point in time.
// Temperatures are always °C; unit conversion is the frontend's job.
type CurrentConditions struct {
	Temp       float64     `json:"temp"`
	Humidity   int         `json:"humidity"`
	WindSpeed  float64     `json:"windSpeed"`
	Conditions []Condition `json:"conditions"`
	ObservedAt int64       `json:"observedAt"`
}

// DailyForecast is one forecast day. Temp comes from the first sample of the
// day rather than a min/max aggregate.
type DailyForecast struct {
	Date       int64       `json:"date"`
	Temp       float64     `json:"temp"`
	Conditions []Condition `json:"conditions"`
}

// WeatherSnapshot is the normalized end-to-end resolution result: current
// conditions plus up to four forecast days (today included), in date order.
// Immutable after construction and safe to share read-only once cached.
type WeatherSnapshot struct {
	Current   CurrentConditions `json:"current"`
	Daily     []DailyForecast   `json:"daily"`
	City      string            `json:"city"`
	Country   string            `json:"country"`
	FetchedAt int64             `json:"fetchedAt"`
}

// GeocodeResult is a raw geocoding match as returned by the provider client.
type GeocodeResult struct {
	Name    string
	Lat     float64
	Lon     float64
	Country string
	State   string
}

// ForecastSample is one raw forecast data point; the provider returns several
// per calendar day.
type ForecastSample struct {
	At         int64
	Temp       float64
	Conditions []Condition
}

// NormalizeCityKey derives the canonical cache-key form of a city name:
// lower-cased with whitespace runs collapsed to single underscores. The value
// sent upstream keeps the caller's original casing and spacing.
func NormalizeCityKey(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}
