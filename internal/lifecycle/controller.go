package lifecycle

import (
	"log"

	"mangashelf/internal/library"
	"mangashelf/internal/session"
)

// Controller observes session transitions and keeps the library store's
// binding in step: sign-in binds the new owner, sign-out unbinds, and a
// switch between two users is an unbind followed by a bind, so no data
// from the previous owner is ever shown.
type Controller struct {
	session *session.State
	store   *library.Store
}

func NewController(sess *session.State, store *library.Store) *Controller {
	c := &Controller{
		session: sess,
		store:   store,
	}
	sess.OnChange(c.handleTransition)

	// Apply whatever identity is already present at startup
	c.handleTransition(sess.Current())
	return c
}

func (c *Controller) handleTransition(identity *session.Identity) {
	if identity == nil {
		log.Printf("[Lifecycle] session ended, unbinding library")
		c.store.Unbind()
		return
	}
	log.Printf("[Lifecycle] session for user %s, binding library", identity.ID)
	c.store.Bind(identity.ID)
}

// Refresh re-subscribes the current owner's collection. A subscription
// that ended in an error is not rebound automatically; this is the manual
// recovery path. Without a session it does nothing.
func (c *Controller) Refresh() {
	identity := c.session.Current()
	if identity == nil {
		return
	}
	log.Printf("[Lifecycle] manual refresh for user %s", identity.ID)
	c.store.Bind(identity.ID)
}
