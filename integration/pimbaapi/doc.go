// Package pimbaapi is the HTTP client for the tenant-scoped business API
// (students, schedules, payments, workouts). Every request carries the
// session's bearer token in the Authorization header; the token never
// appears anywhere else.
//
// The client doubles as the session validator's remote checker via the
// lightweight /users/me endpoint: a 200 confirms the token, 401/403 is an
// explicit rejection (session.ErrTokenRejected), and any transport failure
// is reported as ErrUnreachable so the validator can fail open.
package pimbaapi
