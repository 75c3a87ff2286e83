// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live pushes poll change events to WebSocket subscribers.

A Hub keeps one subscriber set per poll. The service layer calls Notify
after each successful mutation and every subscriber of that poll receives
the event as JSON:

	{"type":"votes_changed","poll_id":"..."}

Events carry no poll state; clients refetch what changed. Each connection
has a small send buffer and a subscriber that falls behind is disconnected
rather than slowing down the others. A poll_deleted event is the last
message a subscriber of that poll receives before the server closes the
connection.
*/
package live
