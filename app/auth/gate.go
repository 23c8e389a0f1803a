// Package auth implements the shared-secret gate protecting administrative
// operations. A single static secret is compared for exact equality; callers
// are either trusted admins or rejected outright.
package auth

type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authenticate reports whether the provided secret matches the configured
// one. An empty configured secret authenticates nobody.
func (g *Gate) Authenticate(provided string) bool {
	if g.secret == "" {
		return false
	}
	return provided == g.secret
}
