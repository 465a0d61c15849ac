package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records quiz lifecycle metrics. It implements app.Observer.
type Collector struct {
	sessions    prometheus.Gauge
	players     prometheus.Gauge
	joins       prometheus.Counter
	answers     *prometheus.CounterVec
	connections prometheus.Gauge
}

// New registers the quiz metrics on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quiz",
			Name:      "sessions_active",
			Help:      "Number of live quiz sessions.",
		}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quiz",
			Name:      "players_connected",
			Help:      "Number of players currently in a session roster.",
		}),
		joins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "player_joins_total",
			Help:      "Total number of successful joins.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "answers_total",
			Help:      "Scored answers by correctness.",
		}, []string{"correct"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quiz",
			Name:      "ws_connections",
			Help:      "Open websocket connections.",
		}),
	}
	reg.MustRegister(c.sessions, c.players, c.joins, c.answers, c.connections)
	return c
}

func (c *Collector) SessionCreated() { c.sessions.Inc() }

func (c *Collector) SessionRemoved() { c.sessions.Dec() }

func (c *Collector) PlayerJoined() {
	c.joins.Inc()
	c.players.Inc()
}

func (c *Collector) PlayerLeft() { c.players.Dec() }

func (c *Collector) AnswerScored(correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	c.answers.WithLabelValues(label).Inc()
}

func (c *Collector) ConnectionOpened() { c.connections.Inc() }

func (c *Collector) ConnectionClosed() { c.connections.Dec() }
