// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs method, path, status, client IP and duration_ms on completion.

# Tracing

WithTracing starts one span per request and records the response status.

# Access Control

	mux.HandleFunc("GET /ballots", middleware.WithLogging(middleware.RequireIdentity(h)))
	mux.HandleFunc("GET /admin/ballots", middleware.WithLogging(middleware.RequireAdmin(h)))

RequireIdentity redirects signed-out users to /login with a next parameter.
RequireAdmin also answers 403 to signed-in non-administrators. Both read
the session attached by session.Manager.Middleware.

# CORS Middleware

CORS allows cross-origin GET requests to the JSON API. Credentials are not
allowed.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "ballot not found")

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Votes store a salted hash of it.
*/
package middleware
