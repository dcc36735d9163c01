// Package cookie provides HTTP cookie management with HMAC-SHA256 signing
// and secret rotation.
//
// The session subsystem keeps exactly one piece of state in the browser: the
// opaque session identifier, stored as a signed cookie. Signing makes the
// identifier tamper-evident without needing encryption, since it references
// server-side state and carries no credentials itself.
//
// Usage:
//
//	manager, err := cookie.New([]string{secret})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Write
//	err = manager.SetSigned(w, "pimba_sid", id,
//		cookie.WithMaxAge(7*24*60*60),
//		cookie.WithSameSite(http.SameSiteLaxMode),
//	)
//
//	// Read
//	id, err := manager.GetSigned(r, "pimba_sid")
//	if errors.Is(err, cookie.ErrInvalidSignature) {
//		// tampered value, treat as absent
//	}
//
// Multiple secrets enable zero-downtime key rotation: the first secret signs,
// every secret verifies.
package cookie
