package irc

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"tmichat/pkg/logger"
)

type recorder struct {
	identity Identity
	sent     []string
	events   []Event
	sendErr  error
}

func (r *recorder) Identity() Identity { return r.identity }

func (r *recorder) Send(line string) error {
	r.sent = append(r.sent, line)
	return r.sendErr
}

func (r *recorder) Publish(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) Logger() logger.Logger { return logger.NewDiscard() }

func feed(t *testing.T, ctx Context, chunk string) []Command {
	t.Helper()

	msgs, errs := NewFramer(nil).Feed(chunk)
	require.Empty(t, errs)

	cmds := make([]Command, 0, len(msgs))
	for _, msg := range msgs {
		cmds = append(cmds, Dispatch(ctx, msg))
	}
	return cmds
}

func TestHandlers_EveryCommandHasHandler(t *testing.T) {
	for c := CommandUnknown; c < commandCount; c++ {
		assert.NotNil(t, handlers[c], "command %d has no handler", c)
		if c != CommandUnknown {
			assert.Equal(t, c, LookupCommand(c.String()))
		}
	}
}

func TestLookupCommand(t *testing.T) {
	assert.Equal(t, CommandEndOfMOTD, LookupCommand("376"))
	assert.Equal(t, CommandPrivmsg, LookupCommand("PRIVMSG"))
	assert.Equal(t, CommandUnknown, LookupCommand("privmsg"))
	assert.Equal(t, CommandUnknown, LookupCommand("421"))
	assert.Equal(t, CommandUnknown, LookupCommand(""))
	assert.Equal(t, "UNKNOWN", CommandUnknown.String())
}

func TestDispatch_ConnectedScenario(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	cmds := feed(t, r, ":tmi.twitch.tv 001 bot :Welcome\r\n:tmi.twitch.tv 376 bot :End of /MOTD\r\n")

	assert.Equal(t, []Command{CommandWelcome, CommandEndOfMOTD}, cmds)
	assert.Equal(t, []Event{ConnectedEvent{}}, r.events)
	assert.Empty(t, r.sent)
}

func TestDispatch_Ping(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	feed(t, r, "PING :tmi.twitch.tv\r\n")

	assert.Equal(t, []string{"PONG :tmi.twitch.tv"}, r.sent)
	assert.Empty(t, r.events)
}

func TestDispatch_PingSendError(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token"), sendErr: errors.New("closed")}

	feed(t, r, "PING :tmi.twitch.tv\r\n")

	assert.Len(t, r.sent, 1)
	assert.Empty(t, r.events)
}

func TestDispatch_Join(t *testing.T) {
	tests := []struct {
		name      string
		identity  Identity
		line      string
		wantEvent bool
		wantSelf  bool
	}{
		{
			name:      "own echo suppressed",
			identity:  Identity{User: "bot", Pass: "token"},
			line:      ":bot!bot@bot.tmi.twitch.tv JOIN #dallas\r\n",
			wantEvent: false,
		},
		{
			name:      "anonymous own echo",
			identity:  Identity{User: "justinfan12345", Pass: anonymousPass, Anonymous: true},
			line:      ":justinfan12345!justinfan12345@justinfan12345.tmi.twitch.tv JOIN #dallas\r\n",
			wantEvent: true,
			wantSelf:  true,
		},
		{
			name:      "other user",
			identity:  Identity{User: "bot", Pass: "token"},
			line:      ":ronni!ronni@ronni.tmi.twitch.tv JOIN #dallas\r\n",
			wantEvent: true,
			wantSelf:  false,
		},
		{
			name:      "other user anonymous session",
			identity:  Identity{User: "justinfan12345", Anonymous: true},
			line:      ":ronni!ronni@ronni.tmi.twitch.tv JOIN #dallas\r\n",
			wantEvent: true,
			wantSelf:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{identity: tt.identity}

			feed(t, r, tt.line)

			if !tt.wantEvent {
				assert.Empty(t, r.events)
				return
			}
			require.Len(t, r.events, 1)
			ev, ok := r.events[0].(JoinEvent)
			require.True(t, ok)
			assert.Equal(t, "dallas", ev.Channel)
			assert.Equal(t, tt.wantSelf, ev.Self)
			assert.NotNil(t, ev.Raw)
		})
	}
}

func TestDispatch_Part(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	feed(t, r, ":bot!bot@bot.tmi.twitch.tv PART #dallas\r\n:ronni!ronni@ronni.tmi.twitch.tv PART #dallas\r\n")

	require.Len(t, r.events, 2)
	self := r.events[0].(PartEvent)
	other := r.events[1].(PartEvent)
	assert.Equal(t, PartEvent{Channel: "dallas", User: "bot", Self: true, Raw: self.Raw}, self)
	assert.Equal(t, "ronni", other.User)
	assert.False(t, other.Self)
}

func TestDispatch_UserState(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	feed(t, r, "@badge-info=;badges=moderator/1;color=;display-name=bot;emote-sets=0;mod=1;subscriber=0;user-type=mod :tmi.twitch.tv USERSTATE #somechannel\r\n")

	require.Len(t, r.events, 2)

	join := r.events[0].(JoinEvent)
	assert.Equal(t, "somechannel", join.Channel)
	assert.Equal(t, "bot", join.User)
	assert.True(t, join.Self)

	state := r.events[1].(UserStateEvent)
	assert.Equal(t, "somechannel", state.Channel)
	assert.Equal(t, true, state.Tags["mod"])
	assert.Equal(t, "bot", state.Tags["displayName"])
	assert.Equal(t, ComplexTag{"moderator": "1"}, state.Tags["badges"])
}

func TestDispatch_PrivmsgAction(t *testing.T) {
	tests := []struct {
		name       string
		tail       string
		wantText   string
		wantAction bool
	}{
		{name: "action", tail: "\x01ACTION waves\x01", wantText: "waves", wantAction: true},
		{name: "plain", tail: "waves", wantText: "waves", wantAction: false},
		{name: "unterminated", tail: "\x01ACTION waves", wantText: "\x01ACTION waves", wantAction: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{identity: NewIdentity("bot", "token")}

			msgs, _ := NewFramer(nil).Feed("@id=1 :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :" + tt.tail + "\r\n")
			require.Len(t, msgs, 1)
			Dispatch(r, msgs[0])

			assert.Equal(t, tt.wantText, msgs[0].Text())
			assert.Equal(t, tt.wantAction, msgs[0].Tags[TagIsAction])

			require.Len(t, r.events, 1)
			ev := r.events[0].(MessageEvent)
			assert.Equal(t, "dallas", ev.Channel)
			assert.Equal(t, "ronni", ev.User)
			assert.Equal(t, tt.wantText, ev.Text)
			assert.Equal(t, tt.wantAction, ev.Action)
		})
	}
}

func TestDispatch_NoticeAuthFailure(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	feed(t, r, ":tmi.twitch.tv NOTICE * :Login authentication failed\r\n")

	require.Len(t, r.events, 2)
	errEv := r.events[0].(ErrorEvent)
	assert.ErrorIs(t, errEv.Cause, ErrAuthFailed)

	notice := r.events[1].(NoticeEvent)
	assert.Equal(t, "*", notice.Channel)
	assert.Equal(t, "Login authentication failed", notice.Text)
}

func TestDispatch_Notice(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	feed(t, r, "@msg-id=slow_off :tmi.twitch.tv NOTICE #dallas :This room is no longer in slow mode.\r\n")

	require.Len(t, r.events, 1)
	notice := r.events[0].(NoticeEvent)
	assert.Equal(t, "slow_off", notice.MsgID)
	assert.Equal(t, "dallas", notice.Channel)
}

func TestDispatch_ExtensionCommands(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, ev Event)
	}{
		{
			name: "clearchat user",
			line: "@ban-duration=600;room-id=1;target-user-id=2 :tmi.twitch.tv CLEARCHAT #dallas :ronni",
			check: func(t *testing.T, ev Event) {
				e := ev.(ClearChatEvent)
				assert.Equal(t, "dallas", e.Channel)
				assert.Equal(t, "ronni", e.Target)
				assert.Equal(t, "600", e.Tags["banDuration"])
			},
		},
		{
			name: "clearchat channel",
			line: "@room-id=1 :tmi.twitch.tv CLEARCHAT #dallas",
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, "", ev.(ClearChatEvent).Target)
			},
		},
		{
			name: "clearmsg",
			line: "@login=ronni;target-msg-id=abc-123 :tmi.twitch.tv CLEARMSG #dallas :HeyGuys",
			check: func(t *testing.T, ev Event) {
				e := ev.(ClearMsgEvent)
				assert.Equal(t, "ronni", e.Login)
				assert.Equal(t, "abc-123", e.TargetMsgID)
				assert.Equal(t, "HeyGuys", e.Text)
			},
		},
		{
			name: "globaluserstate",
			line: "@display-name=bot;user-id=42 :tmi.twitch.tv GLOBALUSERSTATE",
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, "42", ev.(GlobalUserStateEvent).Tags["userId"])
			},
		},
		{
			name: "hosttarget start",
			line: ":tmi.twitch.tv HOSTTARGET #dallas :ronni 12",
			check: func(t *testing.T, ev Event) {
				e := ev.(HostTargetEvent)
				assert.Equal(t, "ronni", e.Target)
				assert.Equal(t, 12, e.Viewers)
			},
		},
		{
			name: "hosttarget stop",
			line: ":tmi.twitch.tv HOSTTARGET #dallas :- 0",
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, "", ev.(HostTargetEvent).Target)
			},
		},
		{
			name: "reconnect",
			line: ":tmi.twitch.tv RECONNECT",
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, KindReconnect, ev.Kind())
			},
		},
		{
			name: "roomstate",
			line: "@emote-only=0;followers-only=10;r9k=1;room-id=1;slow=0;subs-only=0 :tmi.twitch.tv ROOMSTATE #dallas",
			check: func(t *testing.T, ev Event) {
				e := ev.(RoomStateEvent)
				assert.Equal(t, "dallas", e.Channel)
				assert.Equal(t, 10, e.Tags["followersOnly"])
				assert.Equal(t, true, e.Tags["r9k"])
				assert.Equal(t, false, e.Tags["emoteOnly"])
			},
		},
		{
			name: "usernotice",
			line: "@msg-id=resub;msg-param-cumulative-months=6 :tmi.twitch.tv USERNOTICE #dallas :Great stream",
			check: func(t *testing.T, ev Event) {
				e := ev.(UserNoticeEvent)
				assert.Equal(t, "resub", e.MsgID)
				assert.Equal(t, "6", e.Tags["msgParamCumulativeMonths"])
				assert.Equal(t, "Great stream", e.Text)
			},
		},
		{
			name: "whisper",
			line: "@message-id=1 :ronni!ronni@ronni.tmi.twitch.tv WHISPER bot :psst",
			check: func(t *testing.T, ev Event) {
				e := ev.(WhisperEvent)
				assert.Equal(t, "ronni", e.From)
				assert.Equal(t, "bot", e.To)
				assert.Equal(t, "psst", e.Text)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{identity: NewIdentity("bot", "token")}

			feed(t, r, tt.line+"\r\n")

			require.Len(t, r.events, 1)
			tt.check(t, r.events[0])
		})
	}
}

func TestDispatch_InertAndUnknown(t *testing.T) {
	r := &recorder{identity: NewIdentity("bot", "token")}

	cmds := feed(t, r, ":tmi.twitch.tv CAP * ACK :twitch.tv/tags\r\n"+
		":jtv MODE #dallas +o ronni\r\n"+
		":tmi.twitch.tv 421 bot WHO :Unknown command\r\n"+
		":bot.tmi.twitch.tv 353 bot = #dallas :ronni\r\n")

	assert.Equal(t, []Command{CommandCap, CommandMode, CommandUnknown, CommandNamReply}, cmds)
	assert.Empty(t, r.events)
	assert.Empty(t, r.sent)
}
