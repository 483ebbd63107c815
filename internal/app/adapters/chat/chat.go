package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"tmichat/internal/app/adapters/metrics"
	"tmichat/internal/app/domain/irc"
	"tmichat/internal/app/infrastructure/eventbus"
	"tmichat/internal/app/infrastructure/storage"
	"tmichat/internal/app/ports"
	"tmichat/pkg/logger"
)

const (
	maxMessageLength  = 500
	writeTimeout      = 10 * time.Second
	roomStateCapacity = 100
)

var DefaultCapabilities = []string{
	"twitch.tv/membership",
	"twitch.tv/tags",
	"twitch.tv/commands",
}

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrConnectTimeout   = errors.New("connect timed out")
	ErrJoinTimeout      = errors.New("join timed out")
	ErrClosed           = errors.New("client closed")
	ErrMessageTooLong   = fmt.Errorf("message is longer than %d characters", maxMessageLength-1)
	ErrConnectionClosed = errors.New("connection closed by server")
)

type Options struct {
	Identity     irc.Identity
	Dialer       ports.Dialer
	Parser       irc.LineParser
	Capabilities []string
	// Zero disables the timeout; ctx still applies.
	ConnectTimeout time.Duration
	JoinTimeout    time.Duration
	RoomStates     ports.RoomStatePort
}

type Chat struct {
	log      logger.Logger
	identity irc.Identity
	dialer   ports.Dialer
	parser   irc.LineParser
	bus      *eventbus.Bus[irc.Event]
	rooms    ports.RoomStatePort
	caps     []string

	connectTimeout time.Duration
	joinTimeout    time.Duration

	mu        sync.RWMutex
	state     State
	channels  map[string]ChannelState
	transport ports.Transport
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
}

var _ ports.ChatPort = (*Chat)(nil)

func New(log logger.Logger, opts Options) *Chat {
	caps := opts.Capabilities
	if len(caps) == 0 {
		caps = DefaultCapabilities
	}
	rooms := opts.RoomStates
	if rooms == nil {
		rooms = storage.NewCache[ports.RoomState](roomStateCapacity, 0)
	}

	c := &Chat{
		log:            logger.NewPrefixedLogger(log, "irc"),
		identity:       opts.Identity,
		dialer:         opts.Dialer,
		parser:         opts.Parser,
		bus:            eventbus.New[irc.Event](),
		rooms:          rooms,
		caps:           caps,
		connectTimeout: opts.ConnectTimeout,
		joinTimeout:    opts.JoinTimeout,
		channels:       make(map[string]ChannelState),
	}
	c.bus.Subscribe(c.track)

	return c
}

func (c *Chat) Identity() irc.Identity {
	return c.identity
}

func (c *Chat) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

// Subscribe registers fn for every published event. fn runs on the reader
// goroutine and must not block.
func (c *Chat) Subscribe(fn func(irc.Event)) func() {
	return c.bus.Subscribe(fn)
}

// OnceBy waits for the first event of kind that satisfies predicate. A nil
// predicate matches any event of that kind.
func (c *Chat) OnceBy(kind irc.EventKind, predicate func(irc.Event) bool) *eventbus.Waiter[irc.Event] {
	return c.bus.OnceBy(func(ev irc.Event) bool {
		return ev.Kind() == kind && (predicate == nil || predicate(ev))
	})
}

// Connect dials, logs in and blocks until the server ends its MOTD.
func (c *Chat) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateConnecting
	c.mu.Unlock()

	tr, err := c.dialer.Dial(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("dial: %w", err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.transport = tr
	c.cancel = cancel
	c.done = done
	c.state = StateAuthenticating
	c.mu.Unlock()

	waiter := c.bus.OnceBy(func(ev irc.Event) bool {
		k := ev.Kind()
		return k == irc.KindConnected || k == irc.KindError
	})

	go c.readLoop(readCtx, tr, done)

	for _, line := range c.loginLines() {
		if _, err = c.write(ctx, line); err != nil {
			waiter.Cancel()
			c.teardown()
			return fmt.Errorf("login: %w", err)
		}
	}

	waitCtx, stop := withTimeout(ctx, c.connectTimeout)
	defer stop()

	ev, err := waiter.Wait(waitCtx)
	if err != nil {
		c.teardown()
		if ctx.Err() == nil {
			c.log.Warn("Connect timed out", slog.Duration("timeout", c.connectTimeout))
			return ErrConnectTimeout
		}
		return err
	}

	if e, ok := ev.(irc.ErrorEvent); ok {
		c.teardown()
		return e.Cause
	}

	c.log.Info("Connected", slog.String("user", c.identity.User), slog.Bool("anonymous", c.identity.Anonymous))
	return nil
}

// loginLines sends PASS and NICK in one write so the server never sees one
// without the other.
func (c *Chat) loginLines() []string {
	return []string{
		"CAP REQ :" + strings.Join(c.caps, " "),
		"PASS oauth:" + c.identity.Pass + "\r\nNICK " + c.identity.User,
	}
}

// Join resolves when the server confirms the join for this identity.
func (c *Chat) Join(ctx context.Context, channel string) (irc.JoinEvent, error) {
	if c.State() != StateConnected {
		return irc.JoinEvent{}, ErrNotConnected
	}

	name := channelKey(channel)

	// Registered before the write so a fast reply cannot be missed.
	waiter := c.bus.OnceBy(func(ev irc.Event) bool {
		switch e := ev.(type) {
		case irc.JoinEvent:
			return e.Self && channelKey(e.Channel) == name
		case irc.ErrorEvent:
			return true
		}
		return false
	})

	c.setChannel(name, ChannelJoining)
	if _, err := c.write(ctx, "JOIN "+irc.FormatChannel(name)); err != nil {
		waiter.Cancel()
		c.forgetChannel(name, ChannelJoining)
		return irc.JoinEvent{}, fmt.Errorf("join %s: %w", name, err)
	}

	waitCtx, stop := withTimeout(ctx, c.joinTimeout)
	defer stop()

	ev, err := waiter.Wait(waitCtx)
	if err != nil {
		c.forgetChannel(name, ChannelJoining)
		if ctx.Err() == nil {
			c.log.Warn("Join timed out", slog.String("channel", name), slog.Duration("timeout", c.joinTimeout))
			return irc.JoinEvent{}, ErrJoinTimeout
		}
		return irc.JoinEvent{}, err
	}

	if e, ok := ev.(irc.ErrorEvent); ok {
		c.forgetChannel(name, ChannelJoining)
		return irc.JoinEvent{}, fmt.Errorf("join %s: %w", name, e.Cause)
	}

	c.log.Info("Joined channel", slog.String("channel", name))
	return ev.(irc.JoinEvent), nil
}

// Part leaves channel without waiting for the server echo.
func (c *Chat) Part(ctx context.Context, channel string) (ports.WriteResult, error) {
	if c.State() != StateConnected {
		return ports.WriteResult{}, ErrNotConnected
	}

	name := channelKey(channel)
	res, err := c.write(ctx, "PART "+irc.FormatChannel(name))
	if err != nil {
		return res, fmt.Errorf("part %s: %w", name, err)
	}

	c.setChannel(name, ChannelParted)
	c.rooms.ClearKey(name)
	return res, nil
}

func (c *Chat) Say(ctx context.Context, channel, message string) (ports.WriteResult, error) {
	if c.State() != StateConnected {
		return ports.WriteResult{}, ErrNotConnected
	}
	if len([]rune(message)) >= maxMessageLength {
		return ports.WriteResult{}, ErrMessageTooLong
	}

	message = strings.NewReplacer("\r", " ", "\n", " ").Replace(message)
	return c.write(ctx, fmt.Sprintf("PRIVMSG %s :%s", irc.FormatChannel(channel), message))
}

// Close ends the session for good. It waits for the reader to stop, so it
// must not be called from a subscriber.
func (c *Chat) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.teardown()
	return nil
}

func (c *Chat) teardown() {
	c.mu.Lock()
	tr, cancel, done := c.transport, c.cancel, c.done
	c.transport, c.cancel, c.done = nil, nil, nil
	c.state = StateDisconnected
	clear(c.channels)
	c.mu.Unlock()

	metrics.Connected.Set(0)
	metrics.JoinedChannels.Set(0)

	if cancel != nil {
		cancel()
	}
	if tr != nil {
		if err := tr.Close(); err != nil {
			c.log.Warn("Failed to close transport", slog.String("error", err.Error()))
		}
	}
	if done != nil {
		<-done
	}
}

func (c *Chat) write(ctx context.Context, line string) (ports.WriteResult, error) {
	c.mu.RLock()
	tr := c.transport
	c.mu.RUnlock()

	if tr == nil {
		return ports.WriteResult{}, ErrNotConnected
	}

	cmd, _, _ := strings.Cut(line, " ")
	if cmd == "PASS" {
		c.log.Trace("> PASS ***")
	} else {
		c.log.Trace("> " + line)
	}

	res, err := tr.Write(ctx, line)
	if err != nil {
		c.log.Error("Failed to write line", err, slog.String("command", cmd))
		return res, err
	}

	metrics.LinesWritten.WithLabelValues(cmd).Inc()
	return res, nil
}

func (c *Chat) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	if s == StateConnected {
		metrics.Connected.Set(1)
	} else {
		metrics.Connected.Set(0)
	}
}

func (c *Chat) readLoop(ctx context.Context, tr ports.Transport, done chan struct{}) {
	defer close(done)

	framer := irc.NewFramer(c.parser)
	hctx := &handlerContext{c: c}

	for {
		chunk, err := tr.Read(ctx)
		if err != nil {
			if msg, ferr := framer.Flush(); ferr != nil {
				c.framingError(ferr)
			} else if msg != nil {
				c.dispatch(hctx, msg)
			}
			c.disconnected(ctx, tr, err)
			return
		}

		msgs, errs := framer.Feed(chunk)
		for _, err := range errs {
			c.framingError(err)
		}
		for _, msg := range msgs {
			c.dispatch(hctx, msg)
		}
	}
}

func (c *Chat) dispatch(hctx *handlerContext, msg *irc.Message) {
	c.log.Trace("< " + msg.Raw)

	start := time.Now()
	cmd := irc.Dispatch(hctx, msg)
	metrics.DispatchTime.Observe(float64(time.Since(start).Nanoseconds()) / 1e6)

	metrics.MessagesReceived.WithLabelValues(cmd.String()).Inc()
	if cmd == irc.CommandUnknown {
		metrics.UnknownCommands.WithLabelValues(msg.Command).Inc()
	}
}

func (c *Chat) framingError(err error) {
	metrics.FramingErrors.Inc()
	c.log.Error("Failed to frame line", err)
}

func (c *Chat) disconnected(ctx context.Context, tr ports.Transport, err error) {
	// Our own teardown cancelled the read.
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	if c.transport == tr {
		c.transport = nil
		c.state = StateDisconnected
		clear(c.channels)
	}
	c.mu.Unlock()

	metrics.Connected.Set(0)
	metrics.JoinedChannels.Set(0)
	_ = tr.Close()

	if errors.Is(err, io.EOF) {
		err = ErrConnectionClosed
	}
	c.log.Error("Connection lost", err)
	c.bus.Publish(irc.ErrorEvent{Cause: err})
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// handlerContext is what the dispatch table sees of the client.
type handlerContext struct {
	c *Chat
}

func (h *handlerContext) Identity() irc.Identity {
	return h.c.identity
}

func (h *handlerContext) Send(line string) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := h.c.write(ctx, line)
	return err
}

func (h *handlerContext) Publish(ev irc.Event) {
	metrics.EventsPublished.WithLabelValues(string(ev.Kind())).Inc()
	h.c.bus.Publish(ev)
}

func (h *handlerContext) Logger() logger.Logger {
	return h.c.log
}
