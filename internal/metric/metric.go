// Package metric holds the prometheus collectors shared by the storefront services.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_created_total",
		Help:      "Orders created through checkout, by payment method.",
	}, []string{"payment_method"})

	LeadsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "leads_created_total",
		Help:      "Quote requests submitted.",
	})

	CatalogQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "catalog_queries_total",
		Help:      "Catalog listing queries, by outcome.",
	}, []string{"outcome"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "notifications_sent_total",
		Help:      "Notifications handled, by topic and outcome.",
	}, []string{"topic", "outcome"})
)

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)
