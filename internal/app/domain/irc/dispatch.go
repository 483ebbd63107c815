package irc

import (
	"log/slog"
	"tmichat/pkg/logger"
)

// Context is what a handler may touch: the identity, the outgoing line
// writer and the event publisher.
type Context interface {
	Identity() Identity
	Send(line string) error
	Publish(ev Event)
	Logger() logger.Logger
}

type handler func(ctx Context, msg *Message)

var handlers = [commandCount]handler{
	CommandUnknown:         handleUnknown,
	CommandCap:             noop,
	CommandClearChat:       handleClearChat,
	CommandClearMsg:        handleClearMsg,
	CommandGlobalUserState: handleGlobalUserState,
	CommandHostTarget:      handleHostTarget,
	CommandJoin:            handleJoin,
	CommandMode:            noop,
	CommandNotice:          handleNotice,
	CommandPart:            handlePart,
	CommandPing:            handlePing,
	CommandPrivmsg:         handlePrivmsg,
	CommandReconnect:       handleReconnect,
	CommandRoomState:       handleRoomState,
	CommandUserNotice:      handleUserNotice,
	CommandUserState:       handleUserState,
	CommandWhisper:         handleWhisper,
	CommandWelcome:         noop,
	CommandYourHost:        noop,
	CommandCreated:         noop,
	CommandMyInfo:          noop,
	CommandNamReply:        noop,
	CommandEndOfNames:      noop,
	CommandMOTD:            noop,
	CommandMOTDStart:       noop,
	CommandEndOfMOTD:       handleEndOfMOTD,
}

// Dispatch runs the handler for msg and reports which command it resolved
// to. Unknown commands are logged and otherwise ignored.
func Dispatch(ctx Context, msg *Message) Command {
	cmd := LookupCommand(msg.Command)
	handlers[cmd](ctx, msg)
	return cmd
}

func noop(Context, *Message) {}

func handleUnknown(ctx Context, msg *Message) {
	ctx.Logger().Warn("Command does not exist",
		slog.String("command", msg.Command),
		slog.Any("params", msg.Params),
		slog.String("tail", msg.Text()),
		slog.String("raw", msg.Raw),
	)
}
