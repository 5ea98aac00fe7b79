package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ancestorRounds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buddyscript_feed_ancestor_rounds",
		Help:    "Storage round trips spent recovering preview comment ancestors per feed page",
		Buckets: prometheus.LinearBuckets(0, 1, 11),
	})

	ancestorTruncations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buddyscript_feed_ancestor_truncations_total",
		Help: "Feed pages whose ancestor walk stopped at the depth bound with parents still unresolved",
	})

	orphanedComments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buddyscript_comment_orphans_total",
		Help: "Comments placed at the root because their parent could not be attached",
	}, []string{"source"})
)
