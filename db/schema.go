// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The SQL is shared between PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Campaigns
CREATE TABLE IF NOT EXISTS campaign (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    votes_per_voter INTEGER NOT NULL CHECK (votes_per_voter > 0),
    status TEXT NOT NULL DEFAULT 'closed' CHECK (status IN ('open', 'closed')),
    start_at TIMESTAMP NOT NULL,
    end_at TIMESTAMP NOT NULL,
    revision BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_campaign_status ON campaign(status);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL REFERENCES campaign(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    seq INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_campaign_id ON candidate(campaign_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_candidate_campaign_name ON candidate(campaign_id, lower(name));

-- Vote ledger (one row per vote cast)
CREATE TABLE IF NOT EXISTS vote_record (
    id TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL REFERENCES campaign(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_record_voter ON vote_record(campaign_id, voter_id);

-- Per-voter quota counters
CREATE TABLE IF NOT EXISTS voter_quota (
    campaign_id TEXT NOT NULL REFERENCES campaign(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    used INTEGER NOT NULL CHECK (used >= 0),
    PRIMARY KEY (campaign_id, voter_id)
);
`
