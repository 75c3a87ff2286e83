// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/livepoll/models"
)

// Percentages rounds each count's share of the total to a whole percent.
// A zero total yields all zeros; the results need not sum to 100.
func Percentages(counts []int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}

	out := make([]int, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = int(math.Round(float64(c) / float64(total) * 100))
	}
	return out
}

// Winner returns the index of the strictly greatest count, the first one on
// ties, or -1 when nobody voted.
func Winner(counts []int) int {
	best := -1
	bestCount := 0
	for i, c := range counts {
		if c > bestCount {
			best = i
			bestCount = c
		}
	}
	return best
}

// IsExpired reports whether a poll's expiry lies before now.
func IsExpired(expiresAt int64, now time.Time) bool {
	return expiresAt < now.UnixMilli()
}

// ExpiryLabel renders the expiry relative to now, e.g. "expires 3 hours from now".
func ExpiryLabel(expiresAt int64, now time.Time) string {
	at := time.UnixMilli(expiresAt)
	rel := humanize.RelTime(at, now, "ago", "from now")
	if IsExpired(expiresAt, now) {
		return "expired " + rel
	}
	return "expires " + rel
}

// tally fills in the derived counts of a poll detail.
func tally(d *models.PollDetail, now time.Time) {
	counts := make([]int, len(d.Options))
	for i := range d.Options {
		d.Options[i].VoteCount = len(d.Options[i].Votes)
		counts[i] = d.Options[i].VoteCount
		d.TotalVotes += counts[i]
	}

	for i, pct := range Percentages(counts) {
		d.Options[i].Percentage = pct
	}

	d.Expired = IsExpired(d.ExpiresAt, now)
	d.ExpiresLabel = ExpiryLabel(d.ExpiresAt, now)

	d.WinnerID = nil
	if d.Expired {
		if w := Winner(counts); w >= 0 {
			id := d.Options[w].ID
			d.WinnerID = &id
		}
	}
}
