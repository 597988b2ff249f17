package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCommentOperation(t *testing.T) {
	initial := testutil.ToFloat64(CommentOperationsTotal.WithLabelValues("create", ResultSuccess))

	ObserveCommentOperation("create", ResultSuccess)

	after := testutil.ToFloat64(CommentOperationsTotal.WithLabelValues("create", ResultSuccess))
	assert.Equal(t, initial+1, after)
}

func TestObserveLikeToggle(t *testing.T) {
	liked := testutil.ToFloat64(LikeTogglesTotal.WithLabelValues("liked"))
	unliked := testutil.ToFloat64(LikeTogglesTotal.WithLabelValues("unliked"))

	ObserveLikeToggle(true)
	ObserveLikeToggle(false)
	ObserveLikeToggle(false)

	assert.Equal(t, liked+1, testutil.ToFloat64(LikeTogglesTotal.WithLabelValues("liked")))
	assert.Equal(t, unliked+2, testutil.ToFloat64(LikeTogglesTotal.WithLabelValues("unliked")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_timer_histogram",
		Help:    "Test histogram for timer",
		Buckets: prometheus.DefBuckets,
	})
	timer.ObserveDuration(histogram)

	assert.Equal(t, 1, testutil.CollectAndCount(histogram))
}

func TestTimer_ObserveStore(t *testing.T) {
	NewTimer().ObserveStore("like_count")

	assert.GreaterOrEqual(t, testutil.CollectAndCount(StoreOperationDuration), 1)
}
