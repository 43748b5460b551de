// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders the server-side HTML pages.

Templates are embedded from templates/ and each page is parsed together
with layout.html. Render fills in the signed-in user from the request
context and writes the page with the given status.
*/
package views
