// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: the WhatsApp deep link
// builder, admin input sanitization, and slug generation for content item IDs.
package util

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me deep link for the given phone number and
// prefilled message. Everything but digits is stripped from the number; the
// message is query-escaped. Returns "" when no usable number remains.
func WhatsAppLink(number, text string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}

	link := "https://wa.me/" + digits.String()
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}
