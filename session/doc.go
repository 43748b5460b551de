// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements login sessions.

A session is a random token stored server-side with its Data (identity id,
email, admin flag). The browser holds the token signed with the session
secret in the ballotbox_session cookie; a cookie whose signature does not
verify is ignored.

Two stores are provided:

  - MemoryStore: in-process, backed by go-cache
  - RedisStore: shared between instances, backed by go-redis

Manager.Middleware puts the session in the request context, where handlers
read it with FromContext.
*/
package session
