// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics holds the visit accumulator: a pure transformation over
// the content document's analytics section. Eligibility (admin exclusion,
// unique-visit detection) is decided by the caller; this package only
// transforms documents.
package analytics

import (
	"time"

	"github.com/olegiv/olp-go/internal/model"
)

// DateFormat is the ISO calendar date key used in DailyStats.
const DateFormat = "2006-01-02"

// Accumulate returns a new document with visit counters advanced for one
// visit on the given day: totalVisits always increments, uniqueVisits only
// for a first view within the browsing session, and the day's bucket is
// created on demand. Every other field is carried over unchanged.
func Accumulate(doc *model.ContentDocument, today string, isUnique bool) *model.ContentDocument {
	next := doc.Clone()

	next.Analytics.TotalVisits++
	if isUnique {
		next.Analytics.UniqueVisits++
	}
	next.Analytics.DailyStats[today]++

	return next
}

// PruneDailyStats returns a new document with daily buckets older than the
// cutoff date removed, plus the number of buckets dropped. Totals are left
// untouched; only the per-day breakdown is trimmed. Returns the original
// document when nothing changes.
func PruneDailyStats(doc *model.ContentDocument, cutoff time.Time) (*model.ContentDocument, int) {
	cut := cutoff.Format(DateFormat)

	var stale []string
	for day := range doc.Analytics.DailyStats {
		if day < cut {
			stale = append(stale, day)
		}
	}
	if len(stale) == 0 {
		return doc, 0
	}

	next := doc.Clone()
	for _, day := range stale {
		delete(next.Analytics.DailyStats, day)
	}
	return next, len(stale)
}

// DayCount is one point of the admin dashboard chart.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailySeries returns the last n days of visit counts ending at now,
// zero-filled for days without traffic and sorted chronologically.
func DailySeries(doc *model.ContentDocument, n int, now time.Time) []DayCount {
	series := make([]DayCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(DateFormat)
		series = append(series, DayCount{Date: day, Count: doc.Analytics.DailyStats[day]})
	}
	return series
}
