// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Polls
	MetricPollsCreated = "livepoll_polls_created_total"
	MetricPollsDeleted = "livepoll_polls_deleted_total"
	// Votes
	MetricVotesCast    = "livepoll_votes_cast_total"
	MetricVotesRemoved = "livepoll_votes_removed_total"
	// Reactions
	MetricReactionsToggled = "livepoll_reactions_toggled_total"
	// Comments
	MetricCommentsAdded   = "livepoll_comments_added_total"
	MetricCommentsDeleted = "livepoll_comments_deleted_total"
	// Live feed
	MetricLiveSubscribers = "livepoll_live_subscribers"
	// HTTP
	MetricRequestDuration = "livepoll_http_request_duration_seconds"
)

// MetricService owns a private registry so that several instances (tests)
// never collide on registration. All methods are safe on a nil receiver.
type MetricService struct {
	registry   *prometheus.Registry
	MetricsMap map[string]prometheus.Collector
}

func NewMetricService() *MetricService {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ms := make(map[string]prometheus.Collector)

	counters := map[string]string{
		MetricPollsCreated:    "Polls created",
		MetricPollsDeleted:    "Polls deleted together with their dependents",
		MetricVotesCast:       "Votes cast or switched",
		MetricVotesRemoved:    "Votes withdrawn",
		MetricCommentsAdded:   "Comments and replies added",
		MetricCommentsDeleted: "Comments deleted by their authors",
	}
	for name, help := range counters {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
		ms[name] = c
		reg.MustRegister(c)
	}

	reactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricReactionsToggled,
		Help: "Reaction toggles by outcome",
	}, []string{"result"})
	ms[MetricReactionsToggled] = reactions
	reg.MustRegister(reactions)

	subscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricLiveSubscribers,
		Help: "Open live feed connections",
	})
	ms[MetricLiveSubscribers] = subscribers
	reg.MustRegister(subscribers)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricRequestDuration,
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
	ms[MetricRequestDuration] = duration
	reg.MustRegister(duration)

	return &MetricService{registry: reg, MetricsMap: ms}
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricService) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for inspection.
func (m *MetricService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *MetricService) inc(name string) {
	if m == nil {
		return
	}
	m.MetricsMap[name].(prometheus.Counter).Inc()
}

func (m *MetricService) IncPollsCreated()    { m.inc(MetricPollsCreated) }
func (m *MetricService) IncPollsDeleted()    { m.inc(MetricPollsDeleted) }
func (m *MetricService) IncVotesCast()       { m.inc(MetricVotesCast) }
func (m *MetricService) IncVotesRemoved()    { m.inc(MetricVotesRemoved) }
func (m *MetricService) IncCommentsAdded()   { m.inc(MetricCommentsAdded) }
func (m *MetricService) IncCommentsDeleted() { m.inc(MetricCommentsDeleted) }

func (m *MetricService) IncReactionToggled(removed bool) {
	if m == nil {
		return
	}
	result := "added"
	if removed {
		result = "removed"
	}
	m.MetricsMap[MetricReactionsToggled].(*prometheus.CounterVec).WithLabelValues(result).Inc()
}

func (m *MetricService) SetLiveSubscribers(n int) {
	if m == nil {
		return
	}
	m.MetricsMap[MetricLiveSubscribers].(prometheus.Gauge).Set(float64(n))
}

func (m *MetricService) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.MetricsMap[MetricRequestDuration].(*prometheus.HistogramVec).
		WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
