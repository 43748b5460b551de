// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential hashing and token signing utilities.

# Credentials

Secrets are stored only as bcrypt hashes:

	hash, err := auth.HashSecret(password)
	err = auth.CompareSecret(hash, password)

CompareDummy performs an equivalent comparison against a fixed hash so that
a login for an unknown email costs the same as a wrong password.

HashCost controls the bcrypt work factor and defaults to bcrypt.DefaultCost.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

The cookie carries the token plus an HMAC-SHA256 signature keyed with the
session secret:

	value := auth.SignToken(token, secret)
	token, err := auth.VerifyToken(value, secret)

A cookie whose signature does not match is rejected before the session
store is consulted.

# IP Hashing

Votes record a salted hash of the client address, never the address itself:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
