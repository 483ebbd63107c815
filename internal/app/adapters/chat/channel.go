package chat

import (
	"strings"
	"tmichat/internal/app/adapters/metrics"
	"tmichat/internal/app/domain/irc"
	"tmichat/internal/app/ports"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateConnected:
		return "connected"
	}
	return "disconnected"
}

type ChannelState int

const (
	ChannelJoining ChannelState = iota
	ChannelJoined
	ChannelParted
)

func (s ChannelState) String() string {
	switch s {
	case ChannelJoining:
		return "joining"
	case ChannelJoined:
		return "joined"
	}
	return "parted"
}

// Status is a snapshot of the session for status pages.
type Status struct {
	State     string            `json:"state"`
	User      string            `json:"user"`
	Anonymous bool              `json:"anonymous"`
	Channels  map[string]string `json:"channels"`
	Rooms     []string          `json:"rooms"`
}

// channelKey is the lowercased channel name without its marker.
func channelKey(channel string) string {
	return strings.ToLower(irc.CleanChannel(channel))
}

// track keeps session and channel state in step with the events the
// handlers publish. It runs on the reader goroutine.
func (c *Chat) track(ev irc.Event) {
	switch e := ev.(type) {
	case irc.ConnectedEvent:
		c.setState(StateConnected)
	case irc.JoinEvent:
		if e.Self {
			c.setChannel(channelKey(e.Channel), ChannelJoined)
		}
	case irc.PartEvent:
		if e.Self {
			c.setChannel(channelKey(e.Channel), ChannelParted)
			c.rooms.ClearKey(channelKey(e.Channel))
		}
	case irc.RoomStateEvent:
		key := channelKey(e.Channel)
		if c.parted(key) {
			return
		}
		// Later ROOMSTATEs only carry the settings that changed.
		c.rooms.Update(key, func(old ports.RoomState, _ bool) ports.RoomState {
			merged := old.Room.Clone()
			for k, v := range e.Tags {
				merged[k] = v
			}
			old.Channel = key
			old.Room = merged
			return old
		})
	case irc.UserStateEvent:
		key := channelKey(e.Channel)
		if c.parted(key) {
			return
		}
		c.rooms.Update(key, func(old ports.RoomState, _ bool) ports.RoomState {
			old.Channel = key
			old.UserState = e.Tags
			return old
		})
	}
}

func (c *Chat) setChannel(channel string, s ChannelState) {
	c.mu.Lock()
	c.channels[channel] = s
	joined := c.joinedLocked()
	c.mu.Unlock()

	metrics.JoinedChannels.Set(float64(joined))
}

// parted reports whether channel was left; late room updates for it are dropped.
func (c *Chat) parted(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.channels[channel]
	return ok && s == ChannelParted
}

func (c *Chat) forgetChannel(channel string, only ChannelState) {
	c.mu.Lock()
	if s, ok := c.channels[channel]; ok && s == only {
		delete(c.channels, channel)
	}
	c.mu.Unlock()
}

func (c *Chat) joinedLocked() int {
	n := 0
	for _, s := range c.channels {
		if s == ChannelJoined {
			n++
		}
	}
	return n
}

// Channels returns a copy of the per-channel states.
func (c *Chat) Channels() map[string]ChannelState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]ChannelState, len(c.channels))
	for k, v := range c.channels {
		out[k] = v
	}
	return out
}

// RoomState is the merged ROOMSTATE and USERSTATE seen for channel.
func (c *Chat) RoomState(channel string) (ports.RoomState, bool) {
	return c.rooms.Get(channelKey(channel))
}

func (c *Chat) Status() Status {
	rooms := c.rooms.Keys()

	c.mu.RLock()
	defer c.mu.RUnlock()

	channels := make(map[string]string, len(c.channels))
	for k, v := range c.channels {
		channels[k] = v.String()
	}

	return Status{
		State:     c.state.String(),
		User:      c.identity.User,
		Anonymous: c.identity.Anonymous,
		Channels:  channels,
		Rooms:     rooms,
	}
}
