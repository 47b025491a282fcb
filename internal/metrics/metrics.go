// Package metrics holds Prometheus instruments shared by the user-form
// client and the development API.  All collectors are registered with the
// global registry, so the dev API's /metrics handler and the CLI's textfile
// export see the same values.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userform_submissions_total",
			Help: "Submission attempts by mode and terminal outcome.",
		}, []string{"mode", "outcome"})

	SubmissionsRejectedInFlight = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "userform_submissions_in_flight_rejected_total",
			Help: "Submit calls refused because another submission was in flight.",
		})

	LoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userform_loads_total",
			Help: "Record loads by result (ok, not_found, no_response, error, stale).",
		}, []string{"result"})

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "userform_api_request_duration_seconds",
			Help:    "Round-trip time of calls to the user REST collaborator.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "outcome"})

	DevAPIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userform_devapi_requests_total",
			Help: "Requests served by the development API by route and status.",
		}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmissionsRejectedInFlight,
		LoadsTotal,
		APIRequestDuration,
		DevAPIRequestsTotal,
	)
}
