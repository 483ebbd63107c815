package config

import (
	"os"
	"strings"
	"time"
)

const (
	EnvIdentityUser = "IDENTITY_USER"
	EnvIdentityPass = "IDENTITY_PASS"
)

// WithEnv fills an empty user and pass from IDENTITY_USER and IDENTITY_PASS.
// Values from the config file win. An "oauth:" prefix on the token is dropped.
func (i Identity) WithEnv() Identity {
	if i.User == "" {
		i.User = os.Getenv(EnvIdentityUser)
	}
	if i.Pass == "" {
		i.Pass = os.Getenv(EnvIdentityPass)
	}
	i.Pass = strings.TrimPrefix(i.Pass, "oauth:")
	return i
}

func (t Timeouts) Connect() time.Duration {
	return time.Duration(t.ConnectSeconds) * time.Second
}

func (t Timeouts) Join() time.Duration {
	return time.Duration(t.JoinSeconds) * time.Second
}

func (c *Config) RoomStateTTL() time.Duration {
	return time.Duration(c.RoomStateTTLSeconds) * time.Second
}
