// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/srkverse/internal/models"
)

// InsertFanMessage stores a fan wall message.
func (db *DB) InsertFanMessage(ctx context.Context, m *models.FanMessage) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = db.now()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO fan_messages (id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, m.CreatedAt,
	)
	observe("INSERT", "fan_messages", start, err)
	if err != nil {
		return fmt.Errorf("insert fan message: %w", err)
	}
	return nil
}

// ListFanMessages returns the newest messages first, at most limit.
func (db *DB) ListFanMessages(ctx context.Context, limit int) ([]models.FanMessage, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, email, message, created_at FROM fan_messages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fan messages: %w", err)
	}
	defer closeWithLog(rows, "rows")

	messages := []models.FanMessage{}
	for rows.Next() {
		var m models.FanMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fan messages: %w", err)
	}
	return messages, nil
}
