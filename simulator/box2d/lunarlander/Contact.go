package lunarlander

import "github.com/ByteArena/box2d"

// contactDetector tracks contacts between the lander and the moon
type contactDetector struct {
	env *LunarLander
}

func newContactDetector(e *LunarLander) *contactDetector {
	return &contactDetector{e}
}

func involves(contact box2d.B2ContactInterface, body *box2d.B2Body) bool {
	return contact.GetFixtureA().GetBody() == body ||
		contact.GetFixtureB().GetBody() == body
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	// The lander should touch the ground with its legs only
	if involves(contact, c.env.lander) {
		c.env.gameOver = true
	}
	for i, leg := range c.env.legs {
		if involves(contact, leg) {
			c.env.contacts[i] = true
		}
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	for i, leg := range c.env.legs {
		if involves(contact, leg) {
			c.env.contacts[i] = false
		}
	}
}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}
