// Package auth orchestrates the login state machine: anonymous to
// authenticated via password exchange with the identity provider (or the
// development role selector), and back via logout.
//
// A successful login writes the session record to the store and installs it
// in the per-interaction session context in one step; a failed login leaves
// both untouched, so the interaction stays anonymous. Logout always deletes
// the store-side record first: that is the revocation, the cookie cleanup is
// cosmetic.
package auth
