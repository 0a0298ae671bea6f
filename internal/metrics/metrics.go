// Package metrics collects and exposes Prometheus metrics for the
// session and watchlist core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the recording interface consumed by the application services.
type Recorder interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordKeyValidationFailure()
	RecordWatchlistToggle(action string)
}

// Login failure reasons used as label values.
const (
	ReasonInvalidEmail       = "invalid_email"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonKeyRejected        = "key_rejected"
)

// Watchlist toggle actions used as label values.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Compile-time interface satisfaction check.
var _ Recorder = (*Collector)(nil)

// Collector implements Recorder on Prometheus counters.
type Collector struct {
	registrations     prometheus.Counter
	loginSuccess      prometheus.Counter
	loginFail         *prometheus.CounterVec
	keyValidationFail prometheus.Counter
	watchlistToggle   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchdeck_registrations_total",
			Help: "Total number of successful account registrations.",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchdeck_login_success_total",
			Help: "Total number of successful logins.",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watchdeck_login_fail_total",
			Help: "Total number of failed logins by reason.",
		}, []string{"reason"}),
		keyValidationFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchdeck_key_validation_fail_total",
			Help: "Total number of remote key validations that reported the key unusable.",
		}),
		watchlistToggle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watchdeck_watchlist_toggle_total",
			Help: "Total number of watchlist toggles by action.",
		}, []string{"action"}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFail,
		c.keyValidationFail,
		c.watchlistToggle,
	)

	return c
}

// RecordRegistration counts a successful registration.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLoginSuccess counts a successful login.
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure counts a failed login under its reason.
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordKeyValidationFailure counts a remote rejection of a stored secret.
func (c *Collector) RecordKeyValidationFailure() {
	c.keyValidationFail.Inc()
}

// RecordWatchlistToggle counts a toggle under its action ("add" or "remove").
func (c *Collector) RecordWatchlistToggle(action string) {
	c.watchlistToggle.WithLabelValues(action).Inc()
}
