// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: postgres, sqlite or memory (default: sqlite)
  - DatabaseURL: Connection string (required unless memory)
  - JWTSecret: Secret for bearer token verification (required)
  - StoreTimeout: Deadline per request for storage I/O (default: 5s)
  - VoteMaxAttempts: Attempts before a contended vote reports a conflict (default: 5)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-jwt-secret     Token signing secret
	-store-timeout  Storage deadline (e.g. 3s)
	-vote-attempts  Vote attempt budget

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	JWT_SECRET        → -jwt-secret
	STORE_TIMEOUT     → -store-timeout
	VOTE_MAX_ATTEMPTS → -vote-attempts

A .env file in the working directory is loaded with godotenv before the
fallback; it never overrides variables already present. CLI flags take
precedence over both. A missing .env is ignored; a malformed one fails
ParseFlags.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing for postgres or sqlite
  - JWT_SECRET is missing
  - DATABASE_TYPE is not one of the supported values
*/
package cliparse
