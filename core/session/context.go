package session

import "context"

// Context is the per-interaction view of "who is logged in right now".
// It is constructed once per request from the resolved identifier and passed
// explicitly; it is never authoritative across process restarts and is always
// reconcilable from the Store.
type Context struct {
	id    ID
	rec   Record
	ok    bool
	state State
}

// NewContext creates an empty (anonymous) session context for the resolved
// identifier.
func NewContext(id ID) *Context {
	return &Context{id: id, state: StateUnvalidated}
}

// ID returns the resolved session identifier.
func (c *Context) ID() ID {
	return c.id
}

// Hydrate populates the context from the store if it is empty and a live
// record exists for the identifier. Returns whether the context now holds a
// record. Absence is not an error: a miss simply means anonymous.
func (c *Context) Hydrate(ctx context.Context, m *Manager) bool {
	if c.ok {
		return true
	}

	rec, err := m.Get(ctx, c.id)
	if err != nil {
		return false
	}

	c.rec = rec
	c.ok = true
	return true
}

// IsAuthenticated is the fast-path login check for the current interaction.
func (c *Context) IsAuthenticated() bool {
	return c.ok && c.state == StateValid
}

// Record returns the hydrated record, if any.
func (c *Context) Record() (Record, bool) {
	if !c.ok {
		return Record{}, false
	}
	return c.rec, true
}

// Set installs a freshly created record, marking the interaction valid.
// Called by the login flow after the store write succeeds.
func (c *Context) Set(rec Record) {
	c.rec = rec
	c.ok = true
	c.state = StateValid
}

// SetState records the validator's verdict for this interaction.
func (c *Context) SetState(s State) {
	c.state = s
}

// State returns the validator's verdict for this interaction.
func (c *Context) State() State {
	return c.state
}

// Clear wipes the cached record, returning the context to anonymous.
func (c *Context) Clear() {
	c.rec = Record{}
	c.ok = false
	c.state = StateUnvalidated
}
