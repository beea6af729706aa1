// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth verifies the admin password. The password is stored in clear
// text inside the content document and compared by exact string equality;
// that mirrors the deployed behavior and is a documented weakness (see
// DESIGN.md), not an oversight. The comparison itself is constant-time.
package auth

import "crypto/subtle"

// VerifyPassword reports whether input exactly matches the configured admin
// password.
func VerifyPassword(input, configured string) bool {
	if configured == "" {
		// An unset password never authenticates.
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(configured)) == 1
}
