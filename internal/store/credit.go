// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

// Credit event reasons.
const (
	ReasonSignup     = "signup"
	ReasonGeneration = "generation"
	ReasonGrant      = "grant"
)

// CreditStore is the append-only credit ledger.
type CreditStore struct {
	db *sql.DB
}

// NewCreditStore creates a new CreditStore.
func NewCreditStore(db *sql.DB) *CreditStore {
	return &CreditStore{db: db}
}

// Record appends an event. Failed marks a decrement that could not be
// applied to the balance and awaits reconciliation.
func (s *CreditStore) Record(e *models.CreditEvent) error {
	err := s.db.QueryRow(`
		INSERT INTO credit_events (user_id, site_id, delta, reason, failed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.UserID, e.SiteID, e.Delta, e.Reason, e.Failed).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record credit event: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent events, newest first.
func (s *CreditStore) ListByUser(userID uuid.UUID, limit int) ([]models.CreditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, site_id, delta, reason, failed, created_at
		FROM credit_events WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit events: %w", err)
	}
	defer rows.Close()

	var events []models.CreditEvent
	for rows.Next() {
		var e models.CreditEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.SiteID, &e.Delta, &e.Reason, &e.Failed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
