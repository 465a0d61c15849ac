package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorTracksLifecycle(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.SessionCreated()
	c.SessionCreated()
	c.SessionRemoved()
	c.PlayerJoined()
	c.PlayerJoined()
	c.PlayerLeft()
	c.AnswerScored(true)
	c.AnswerScored(false)
	c.AnswerScored(true)
	c.ConnectionOpened()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.players))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.joins))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.answers.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.answers.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connections))
}
