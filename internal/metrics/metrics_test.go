package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.Swiped("like")
	c.Swiped("like")
	c.Swiped("skip")
	c.Matched()
	c.ModerationRejected("toxic_content")
	c.CandidatesServed(7)
	c.NotificationSent("like", nil)
	c.NotificationSent("like", errors.New("broker down"))
	c.BackupFinished("skipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.swipes.WithLabelValues("like")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.swipes.WithLabelValues("skip")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.matches))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejections.WithLabelValues("toxic_content")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.notifications.WithLabelValues("like", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.backups.WithLabelValues("skipped")))

	n, err := testutil.GatherAndCount(reg, "swipe_candidates_served")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_RejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
