package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codocs", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codocs", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "codocs", Name: "documents_created_total", Help: "Number of documents created."},
	)
	AccessCodesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "codocs", Name: "access_codes_generated_total", Help: "Number of access codes issued."},
	)
	AccessCodeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "codocs", Name: "access_code_collisions_total", Help: "Number of access code draws retried due to collision."},
	)
	CommentsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codocs", Name: "comments_added_total", Help: "Number of comments added by kind (thread|reply)."},
		[]string{"kind"},
	)
	PresenceJoins = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "codocs", Name: "presence_joins_total", Help: "Number of document presence joins."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentsCreated)
	reg.MustRegister(AccessCodesGenerated)
	reg.MustRegister(AccessCodeCollisions)
	reg.MustRegister(CommentsAdded)
	reg.MustRegister(PresenceJoins)
}
