// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and the SQL
implementation of voting.Store.

# Connecting

Open selects the driver from the database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:votes.db")

PostgreSQL uses lib/pq; SQLite uses the pure-Go modernc.org/sqlite driver
and is limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - campaign: metadata, window, quota, status and revision
  - candidate: candidates with running vote_count
  - vote_record: the ledger, one row per vote cast
  - voter_quota: votes used per (campaign, voter)

# Relationships

	campaign 1──* candidate
	campaign 1──* vote_record
	campaign 1──* voter_quota

DeleteCampaign removes all four in one transaction.

# Recording Votes

RecordVote is one transaction. The candidate increment is guarded by the
campaign's revision and open status; the quota counter is an upsert that
only increments while below the quota. Either guard failing rolls back the
whole vote.
*/
package db
