package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the bot's Prometheus collectors. A nil *Registry is valid
// and records nothing.
type Registry struct {
	reg                *prometheus.Registry
	MovementsRecorded  *prometheus.CounterVec
	MovementFailures   *prometheus.CounterVec
	PublishFailures    prometheus.Counter
	Notifications      *prometheus.CounterVec
	ConversationInputs *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	recorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkeeper_movements_recorded_total",
		Help: "Movements appended to the ledger.",
	}, []string{"action"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkeeper_movement_failures_total",
		Help: "Movements rejected or failed to persist.",
	}, []string{"action"})
	publishFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "barkeeper_events_publish_failures_total",
		Help: "Movement events that could not be published.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkeeper_notifications_total",
		Help: "Scheduled notifications by job and delivery result.",
	}, []string{"job", "result"})
	inputs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barkeeper_conversation_inputs_total",
		Help: "Conversation inputs handled, by kind.",
	}, []string{"kind"})

	r.MustRegister(recorded, failures, publishFailures, notifications, inputs)
	return &Registry{
		reg:                r,
		MovementsRecorded:  recorded,
		MovementFailures:   failures,
		PublishFailures:    publishFailures,
		Notifications:      notifications,
		ConversationInputs: inputs,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) MovementRecorded(action string) {
	if r == nil {
		return
	}
	r.MovementsRecorded.WithLabelValues(action).Inc()
}

func (r *Registry) MovementFailed(action string) {
	if r == nil {
		return
	}
	r.MovementFailures.WithLabelValues(action).Inc()
}

func (r *Registry) PublishFailed() {
	if r == nil {
		return
	}
	r.PublishFailures.Inc()
}

func (r *Registry) Notification(job string, delivered bool) {
	if r == nil {
		return
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	r.Notifications.WithLabelValues(job, result).Inc()
}

func (r *Registry) ConversationInput(kind string) {
	if r == nil {
		return
	}
	r.ConversationInputs.WithLabelValues(kind).Inc()
}
