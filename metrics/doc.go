// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes livepoll's Prometheus collectors.

	m := metrics.NewMetricService()
	mux.Handle("GET /metrics", m.Handler())

The service owns its own registry (with Go runtime and process collectors),
so tests can build as many as they like. Collectors are looked up by name in
MetricsMap:

	livepoll_polls_created_total, livepoll_polls_deleted_total
	livepoll_votes_cast_total, livepoll_votes_removed_total
	livepoll_reactions_toggled_total{result="added"|"removed"}
	livepoll_comments_added_total, livepoll_comments_deleted_total
	livepoll_live_subscribers
	livepoll_http_request_duration_seconds{route, status}

Every method is safe on a nil *MetricService, which records nothing.
*/
package metrics
