// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/olp-go/internal/model"
)

// contentSlot is the single row key for the cached site document.
const contentSlot = "site"

// ContentStore is the local, version-gated cache of the content document.
// A storage failure degrades the application to in-memory-only operation;
// callers log Save errors and carry on rather than failing the request.
type ContentStore struct {
	db *sql.DB
}

// New creates a ContentStore on top of the given database.
func New(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Load returns the cached content document, or nil when no usable cache
// exists. A missing row, a schema version tag that does not exactly match
// model.SchemaVersion, or an undecodable payload are all treated as a cache
// miss, never as an error the caller must handle.
func (s *ContentStore) Load(ctx context.Context) (*model.ContentDocument, error) {
	var payload, version string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, schema_version FROM content_cache WHERE slot = ?`,
		contentSlot,
	).Scan(&payload, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading content cache: %w", err)
	}

	if version != model.SchemaVersion {
		slog.Info("discarding cached content with stale schema version",
			"cached", version, "expected", model.SchemaVersion)
		return nil, nil
	}

	var doc model.ContentDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		slog.Warn("discarding undecodable cached content", "error", err)
		return nil, nil
	}

	return &doc, nil
}

// Save overwrites the cached document and stamps it with the current schema
// version tag.
func (s *ContentStore) Save(ctx context.Context, doc *model.ContentDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding content document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO content_cache (slot, payload, schema_version, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   payload = excluded.payload,
		   schema_version = excluded.schema_version,
		   updated_at = excluded.updated_at`,
		contentSlot, string(payload), model.SchemaVersion, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving content cache: %w", err)
	}
	return nil
}

// MarkDeviceAdmin durably marks a device as an admin device. The marker is
// never cleared by the application; once set, the device's visits are
// permanently excluded from analytics regardless of authentication state.
func (s *ContentStore) MarkDeviceAdmin(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_devices (device_id, created_at) VALUES (?, ?)
		 ON CONFLICT(device_id) DO NOTHING`,
		deviceID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("marking admin device: %w", err)
	}
	return nil
}

// IsDeviceAdmin reports whether a device carries the durable admin marker.
func (s *ContentStore) IsDeviceAdmin(ctx context.Context, deviceID string) (bool, error) {
	if deviceID == "" {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM admin_devices WHERE device_id = ?`, deviceID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking admin device: %w", err)
	}
	return true, nil
}
