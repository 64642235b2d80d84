// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth adapts the identity collaborator: it verifies bearer tokens and
yields the caller's voter id and role. The engine trusts this identity
completely and performs no credential checks of its own.

# Tokens

Tokens are HS256 JWTs carrying voter_id and role:

	token, err := auth.SignToken(secret, voterID, models.RoleVoter, time.Hour)
	id, err := auth.ParseToken(secret, token)

Only HMAC signing methods and the campaign-vote issuer are accepted.
Expired or tampered tokens fail with ErrInvalidToken; roles other than
admin and voter fail with ErrInvalidRole.

# Voter Keys

A voter is identified by a government identifier and a membership number.
VoterKey folds the pair into the opaque string used as voter id:

	voterID := auth.VoterKey("1234567890101", "A-2291")
*/
package auth
