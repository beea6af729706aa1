// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the landing page, the admin
// panel, and the public content API.
package handler

// Route constants used across handlers.
const (
	RouteRoot         = "/"
	RouteAdmin        = "/admin"
	RouteAdminLogin   = "/admin/login"
	RouteAdminContent = "/admin/content"
	RouteAdminDocs    = "/admin/docs"
	RouteAPIContent   = "/api/content"
	RouteHealth       = "/health"
)

// Redirect targets.
const (
	redirectRoot    = RouteRoot
	redirectAdmin   = RouteAdmin
	redirectLogin   = RouteAdminLogin
	redirectContent = RouteAdminContent
)
