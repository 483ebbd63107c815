package irc

import (
	"fmt"
	"math/rand/v2"
)

const (
	anonymousPrefix = "justinfan"
	anonymousPass   = "alcablah"
)

// Identity is the login of one connection. It is fixed at construction.
type Identity struct {
	User      string `json:"user"`
	Pass      string `json:"-"`
	Anonymous bool   `json:"anonymous"`
}

// NewIdentity builds a login identity. Without a user the session is
// anonymous and gets a generated justinfan name, which is not guaranteed
// unique.
func NewIdentity(user, pass string) Identity {
	if user == "" {
		return Identity{
			User:      AnonymousName(),
			Pass:      anonymousPass,
			Anonymous: true,
		}
	}

	return Identity{User: user, Pass: pass}
}

// AnonymousName returns justinfan followed by a number in (30000, 100000].
func AnonymousName() string {
	return fmt.Sprintf("%s%d", anonymousPrefix, 30001+rand.IntN(70000))
}
