// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the campaign-vote API server.

campaign-vote runs time-boxed voting campaigns: each campaign has a set of
candidates, a voting window and a per-voter vote quota. Votes are applied
atomically against the campaign record, campaigns close themselves the
first time they are read after their window ends, and live tallies are
derived on every read.

# Starting the Server

	JWT_SECRET=... DATABASE_URL=file:campaigns.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): Secret for bearer token verification
  - DATABASE_URL (-d): Connection string, unless DATABASE_TYPE is memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres, sqlite or memory (default: sqlite)
  - STORE_TIMEOUT (-store-timeout): Storage deadline per request (default: 5s)
  - VOTE_MAX_ATTEMPTS (-vote-attempts): Attempts for a contended vote (default: 5)

A .env file in the working directory is read first.

# Architecture

  - voting: eligibility, vote application, window transition, tallies
  - db: schema and the SQL campaign store (PostgreSQL, SQLite)
  - memstore: in-process campaign store
  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, authentication, CORS, JSON helpers
  - auth: bearer token issue and verification
  - models: domain and request/response types
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
