// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package remote implements the client for the remote content document store.
// The store is a single MySQL table holding serialized content documents with
// an updated_at timestamp; the most recently touched row is authoritative.
//
// The gateway is deliberately forgiving: when credentials are absent or the
// store is unreachable, every read degrades to "no document" and every write
// is logged and swallowed. The local cache remains authoritative for what the
// current visitor sees.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for database/sql
	"github.com/google/uuid"

	"github.com/olegiv/olp-go/internal/model"
)

// Gateway talks to the remote site_content table. A nil Gateway is valid and
// behaves as a permanently unreachable store.
type Gateway struct {
	db *sql.DB
}

// Open creates a Gateway for the given MySQL DSN. An empty DSN returns a nil
// gateway: configuration absence is an expected, non-fatal condition.
func Open(dsn string) (*Gateway, error) {
	if dsn == "" {
		slog.Info("remote content store not configured, using local cache only")
		return nil, nil
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening remote store: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Gateway{db: db}, nil
}

// Close releases the underlying connection pool.
func (g *Gateway) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}

// FetchLatest returns the most recently updated content document from the
// remote store, or nil when the store is unconfigured, empty, or unreachable.
// All failure paths are equivalent to the caller; the cause goes to the log.
func (g *Gateway) FetchLatest(ctx context.Context) *model.ContentDocument {
	if g == nil || g.db == nil {
		return nil
	}

	var payload string
	err := g.db.QueryRowContext(ctx,
		`SELECT content FROM site_content ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Info("remote content store is empty")
		} else {
			slog.Warn("fetching remote content failed", "error", err)
		}
		return nil
	}

	var doc model.ContentDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		slog.Warn("decoding remote content failed", "error", err)
		return nil
	}

	return &doc
}

// Upsert writes the document to the remote store: it updates the most
// recently touched row, or inserts one if none exists. Ties on updated_at are
// broken arbitrarily. Last-writer-wins; no concurrency token is used.
func (g *Gateway) Upsert(ctx context.Context, doc *model.ContentDocument) error {
	if g == nil || g.db == nil {
		return nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding content document: %w", err)
	}

	var id string
	err = g.db.QueryRowContext(ctx,
		`SELECT id FROM site_content ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = g.db.ExecContext(ctx,
			`INSERT INTO site_content (id, content, updated_at) VALUES (?, ?, ?)`,
			uuid.NewString(), string(payload), time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting remote content: %w", err)
		}
		slog.Info("remote content initialized")
	case err != nil:
		return fmt.Errorf("locating remote content row: %w", err)
	default:
		_, err = g.db.ExecContext(ctx,
			`UPDATE site_content SET content = ?, updated_at = ? WHERE id = ?`,
			string(payload), time.Now().UTC(), id,
		)
		if err != nil {
			return fmt.Errorf("updating remote content: %w", err)
		}
		slog.Debug("remote content updated", "id", id)
	}

	return nil
}
