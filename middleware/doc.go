// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client ip) and completion (duration_ms).

# Authentication

Authenticate verifies the bearer token with auth.ParseToken and stores the
caller's identity in the request context. RequireAdmin rejects callers
without the admin role:

	h := middleware.Authenticate(secret, middleware.RequireAdmin(handler))

Handlers read the identity back with IdentityFrom.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ReasonResponse(w, http.StatusBadRequest, "QUOTA_EXHAUSTED", "message")

ReasonResponse adds the stable denial code clients switch on.
*/
package middleware
