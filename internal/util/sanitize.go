// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textSanitizer strips all HTML from admin-entered text fields. Content is
// rendered through html/template which escapes on output; sanitizing on
// input keeps markup out of the stored document itself.
var textSanitizer = bluemonday.StrictPolicy()

// SanitizeText removes any HTML tags from an admin-entered text value and
// trims surrounding whitespace.
func SanitizeText(s string) string {
	return strings.TrimSpace(textSanitizer.Sanitize(s))
}
