// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"github.com/mileusna/useragent"
)

// IsBot reports whether a user agent string belongs to a crawler or an
// automated client. Empty user agents are treated as bots so health checks
// and probes never inflate the counters.
func IsBot(uaString string) bool {
	if uaString == "" {
		return true
	}
	ua := useragent.Parse(uaString)
	return ua.Bot
}
