// Package middleware provides the net/http middleware chain for the
// dashboard: per-request session context construction, authentication and
// role guards, and request logging.
//
// The Session middleware is where the session subsystem meets HTTP. For every
// request it resolves the identifier from the signed cookie, hydrates the
// session context from the store, runs the validator state machine, and
// attaches the resulting *session.Context to the request context. Handlers
// read it back with GetSession:
//
//	mux.Handle("/students", middleware.RequireRole(session.RoleAdmin, session.RoleTrainer)(h))
//
//	func h(w http.ResponseWriter, r *http.Request) {
//		sc, _ := middleware.GetSession(r)
//		rec, _ := sc.Record()
//		// rec.User.TenantID scopes every query
//	}
//
// Session state is passed explicitly through the request context; there is no
// process-global "current session".
package middleware
