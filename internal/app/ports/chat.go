package ports

import (
	"context"
	"tmichat/internal/app/domain/irc"
)

// WriteResult reports whether a line reached the socket right away or was
// queued by the transport.
type WriteResult struct {
	Flushed bool `json:"flushed"`
}

type ChatPort interface {
	Connect(ctx context.Context) error
	Join(ctx context.Context, channel string) (irc.JoinEvent, error)
	Part(ctx context.Context, channel string) (WriteResult, error)
	Say(ctx context.Context, channel, message string) (WriteResult, error)
	Close() error
}

// Transport is a connected, ordered byte stream. Read returns the next chunk;
// chunk boundaries carry no meaning. Write sends one CRLF-terminated line.
type Transport interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, line string) (WriteResult, error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Transport, error)
}

// RoomState is the last known state of a joined channel.
type RoomState struct {
	Channel   string   `json:"channel"`
	Room      irc.Tags `json:"room,omitempty"`
	UserState irc.Tags `json:"user_state,omitempty"`
}

type RoomStatePort interface {
	Get(key string) (RoomState, bool)
	Update(key string, fn func(old RoomState, ok bool) RoomState) RoomState
	Keys() []string
	ClearKey(key string)
}
