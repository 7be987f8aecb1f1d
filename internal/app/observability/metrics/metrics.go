package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ParseRequestsTotal    metric.Int64Counter
	ParseDurationSeconds  metric.Float64Histogram
	ParsedDaysTotal       metric.Int64Counter
	ViewTransitionsTotal  metric.Int64Counter
	PushEventsTotal       metric.Int64Counter
	TripRequestsTotal     metric.Int64Counter
	DirectoryCallDuration metric.Float64Histogram
	DBQueryErrorsTotal    metric.Int64Counter
	SelectedTripGauge     metric.Int64Gauge
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-tripplan")
		var err error
		m := &AppMetrics{}

		m.ParseRequestsTotal, err = meter.Int64Counter(
			"itinerary_parse_requests_total",
			metric.WithDescription("Total number of itinerary parse requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_parse_requests_total: %v", err)
		}

		m.ParseDurationSeconds, err = meter.Float64Histogram(
			"itinerary_parse_duration_seconds",
			metric.WithDescription("Duration of itinerary parsing in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_parse_duration_seconds: %v", err)
		}

		m.ParsedDaysTotal, err = meter.Int64Counter(
			"itinerary_parsed_days_total",
			metric.WithDescription("Total number of day blocks extracted from itineraries"),
			metric.WithUnit("{day}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_parsed_days_total: %v", err)
		}

		m.ViewTransitionsTotal, err = meter.Int64Counter(
			"view_transitions_total",
			metric.WithDescription("Total number of trip view transitions"),
			metric.WithUnit("{transition}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create view_transitions_total: %v", err)
		}

		m.PushEventsTotal, err = meter.Int64Counter(
			"push_events_total",
			metric.WithDescription("Total number of push events folded into the view state"),
			metric.WithUnit("{event}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create push_events_total: %v", err)
		}

		m.TripRequestsTotal, err = meter.Int64Counter(
			"trip_requests_total",
			metric.WithDescription("Total number of trip list and trip detail requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_requests_total: %v", err)
		}

		m.DirectoryCallDuration, err = meter.Float64Histogram(
			"trip_directory_call_duration_seconds",
			metric.WithDescription("Duration of trip directory calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_directory_call_duration_seconds: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		m.SelectedTripGauge, err = meter.Int64Gauge(
			"selected_trip_id",
			metric.WithDescription("Currently selected trip id, 0 when none"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create selected_trip_id: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// Maybe returns the instruments, or nil when InitAppMetrics has not run.
// Library code off the HTTP path records through this so it stays usable
// without a meter.
func Maybe() *AppMetrics {
	return appMetrics
}
