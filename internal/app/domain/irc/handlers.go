package irc

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	pongLine    = "PONG :tmi.twitch.tv"
	actionStart = "\x01ACTION "
	actionEnd   = "\x01"
)

var ErrAuthFailed = errors.New("authentication failed")

var authFailureNotices = []string{
	"Login authentication failed",
	"Improperly formatted auth",
}

// PING keeps the connection alive.
func handlePing(ctx Context, _ *Message) {
	if err := ctx.Send(pongLine); err != nil {
		ctx.Logger().Error("Failed to answer PING", err)
	}
}

// 376 is the end of the MOTD and the only sign that login succeeded.
func handleEndOfMOTD(ctx Context, _ *Message) {
	ctx.Publish(ConnectedEvent{})
}

// A non-anonymous client's own JOIN echo is dropped: USERSTATE confirms the
// join instead. Anonymous sessions get no USERSTATE, so their echo counts.
func handleJoin(ctx Context, msg *Message) {
	id := ctx.Identity()
	user := msg.Prefix.User
	isSameName := id.User == user
	if isSameName && !id.Anonymous {
		return
	}

	ctx.Publish(JoinEvent{
		Channel: msg.Channel(),
		User:    user,
		Self:    id.Anonymous && isSameName,
		Raw:     msg,
	})
}

func handlePart(ctx Context, msg *Message) {
	user := msg.Prefix.User
	ctx.Publish(PartEvent{
		Channel: msg.Channel(),
		User:    user,
		Self:    ctx.Identity().User == user,
		Raw:     msg,
	})
}

// USERSTATE arrives after a successful JOIN, so it also completes the join.
func handleUserState(ctx Context, msg *Message) {
	channel := msg.Channel()
	ctx.Logger().Debug("USERSTATE", slog.String("channel", channel), slog.String("raw", msg.Raw))

	ctx.Publish(JoinEvent{
		Channel: channel,
		User:    ctx.Identity().User,
		Self:    true,
		Raw:     msg,
	})
	ctx.Publish(UserStateEvent{
		Tags:    msg.Tags.Clone(),
		Channel: channel,
		Raw:     msg,
	})
}

func handlePrivmsg(ctx Context, msg *Message) {
	tail := msg.Text()
	isAction := len(tail) >= len(actionStart)+len(actionEnd) &&
		strings.HasPrefix(tail, actionStart) &&
		strings.HasSuffix(tail, actionEnd)

	msg.Tags[TagIsAction] = isAction
	if isAction {
		tail = tail[len(actionStart) : len(tail)-len(actionEnd)]
		msg.setTail(tail)
	}

	ctx.Publish(MessageEvent{
		Channel: msg.Channel(),
		User:    msg.Prefix.Name,
		Text:    tail,
		Action:  isAction,
		Tags:    msg.Tags,
		Raw:     msg,
	})
}

func handleNotice(ctx Context, msg *Message) {
	text := msg.Text()
	ctx.Logger().Debug("NOTICE", slog.String("raw", msg.Raw))

	for _, notice := range authFailureNotices {
		if strings.Contains(text, notice) {
			ctx.Logger().Error("Login authentication to IRC failed", nil, slog.String("line", msg.Raw))
			ctx.Publish(ErrorEvent{Cause: fmt.Errorf("%w: %s", ErrAuthFailed, text)})
			break
		}
	}

	ctx.Publish(NoticeEvent{
		Channel: msg.Channel(),
		MsgID:   msg.Tags.GetString("msgId"),
		Text:    text,
		Raw:     msg,
	})
}

func handleClearChat(ctx Context, msg *Message) {
	ctx.Logger().Debug("CLEARCHAT", slog.String("raw", msg.Raw))
	ctx.Publish(ClearChatEvent{
		Channel: msg.Channel(),
		Target:  msg.Text(),
		Tags:    msg.Tags,
		Raw:     msg,
	})
}

func handleClearMsg(ctx Context, msg *Message) {
	ctx.Logger().Debug("CLEARMSG", slog.String("raw", msg.Raw))
	ctx.Publish(ClearMsgEvent{
		Channel:     msg.Channel(),
		Login:       msg.Tags.GetString("login"),
		TargetMsgID: msg.Tags.GetString("targetMsgId"),
		Text:        msg.Text(),
		Raw:         msg,
	})
}

func handleGlobalUserState(ctx Context, msg *Message) {
	ctx.Logger().Debug("GLOBALUSERSTATE", slog.String("raw", msg.Raw))
	ctx.Publish(GlobalUserStateEvent{Tags: msg.Tags, Raw: msg})
}

// The tail is "<target> <viewers>", with "-" as the target when hosting ends.
func handleHostTarget(ctx Context, msg *Message) {
	ctx.Logger().Debug("HOSTTARGET", slog.String("raw", msg.Raw))

	ev := HostTargetEvent{Channel: msg.Channel(), Raw: msg}
	fields := strings.Fields(msg.Text())
	if len(fields) > 0 && fields[0] != "-" {
		ev.Target = fields[0]
	}
	if len(fields) > 1 {
		ev.Viewers, _ = strconv.Atoi(fields[1])
	}

	ctx.Publish(ev)
}

func handleReconnect(ctx Context, msg *Message) {
	ctx.Logger().Info("Server requested reconnect", slog.String("raw", msg.Raw))
	ctx.Publish(ReconnectEvent{})
}

func handleRoomState(ctx Context, msg *Message) {
	ctx.Logger().Debug("ROOMSTATE", slog.String("raw", msg.Raw))
	ctx.Publish(RoomStateEvent{
		Channel: msg.Channel(),
		Tags:    msg.Tags,
		Raw:     msg,
	})
}

func handleUserNotice(ctx Context, msg *Message) {
	ctx.Logger().Debug("USERNOTICE", slog.String("raw", msg.Raw))
	ctx.Publish(UserNoticeEvent{
		Channel: msg.Channel(),
		MsgID:   msg.Tags.GetString("msgId"),
		Text:    msg.Text(),
		Tags:    msg.Tags,
		Raw:     msg,
	})
}

func handleWhisper(ctx Context, msg *Message) {
	ctx.Logger().Debug("WHISPER", slog.String("raw", msg.Raw))
	ctx.Publish(WhisperEvent{
		From: msg.Prefix.Name,
		To:   msg.Param(0),
		Text: msg.Text(),
		Tags: msg.Tags,
		Raw:  msg,
	})
}
