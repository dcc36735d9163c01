// Package sessiontransport resolves the stable session identifier for a
// browser context.
//
// The identifier travels in exactly one place: an HMAC-signed, HttpOnly,
// SameSite-restricted cookie. The earlier generations of this system tried
// cookies bridged through query parameters, localStorage relays, and
// URL-embedded identifiers; all of those leak state into addressable
// locations and are gone. Nothing but the opaque identifier is ever sent to
// the client.
//
// Resolution is idempotent within a browser context: as long as the cookie
// survives, every Resolve call returns the same identifier. When the cookie
// is missing or fails signature verification the resolver fails soft and
// mints a fresh identifier instead of erroring, which makes the first visit
// and the tampered-cookie case indistinguishable from each other by design.
// The cost of failing soft is the occasional orphaned record, which the store
// sweep reclaims after expiry.
package sessiontransport
