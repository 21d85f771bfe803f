package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heirloom_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// StoriesCreated counts stories accepted onto the timeline.
	StoriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heirloom_stories_created_total",
		Help: "Total number of stories created",
	})

	// MediaIngested counts stored attachments by media kind.
	MediaIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heirloom_media_ingested_total",
		Help: "Total number of media files stored",
	}, []string{"kind"})

	// MediaIngestedBytes sums stored attachment sizes by media kind.
	MediaIngestedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heirloom_media_ingested_bytes_total",
		Help: "Total bytes of media stored",
	}, []string{"kind"})

	// MediaRejected counts upload batches rejected, by reason code.
	MediaRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heirloom_media_rejected_total",
		Help: "Total number of rejected media upload batches",
	}, []string{"reason"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heirloom_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"state"})

	// CommentsCreated counts comments added to stories.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heirloom_comments_created_total",
		Help: "Total number of comments created",
	})

	// TimelineSize records how many stories a timeline query returned.
	TimelineSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "heirloom_timeline_stories",
		Help:    "Number of stories returned per timeline query",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)
