package irc

// Command is the closed set of commands the client understands.
type Command int

const (
	CommandUnknown Command = iota
	CommandCap
	CommandClearChat
	CommandClearMsg
	CommandGlobalUserState
	CommandHostTarget
	CommandJoin
	CommandMode
	CommandNotice
	CommandPart
	CommandPing
	CommandPrivmsg
	CommandReconnect
	CommandRoomState
	CommandUserNotice
	CommandUserState
	CommandWhisper
	CommandWelcome     // 001
	CommandYourHost    // 002
	CommandCreated     // 003
	CommandMyInfo      // 004
	CommandNamReply    // 353
	CommandEndOfNames  // 366
	CommandMOTD        // 372
	CommandMOTDStart   // 375
	CommandEndOfMOTD   // 376

	commandCount
)

var commandNames = [commandCount]string{
	CommandUnknown:         "",
	CommandCap:             "CAP",
	CommandClearChat:       "CLEARCHAT",
	CommandClearMsg:        "CLEARMSG",
	CommandGlobalUserState: "GLOBALUSERSTATE",
	CommandHostTarget:      "HOSTTARGET",
	CommandJoin:            "JOIN",
	CommandMode:            "MODE",
	CommandNotice:          "NOTICE",
	CommandPart:            "PART",
	CommandPing:            "PING",
	CommandPrivmsg:         "PRIVMSG",
	CommandReconnect:       "RECONNECT",
	CommandRoomState:       "ROOMSTATE",
	CommandUserNotice:      "USERNOTICE",
	CommandUserState:       "USERSTATE",
	CommandWhisper:         "WHISPER",
	CommandWelcome:         "001",
	CommandYourHost:        "002",
	CommandCreated:         "003",
	CommandMyInfo:          "004",
	CommandNamReply:        "353",
	CommandEndOfNames:      "366",
	CommandMOTD:            "372",
	CommandMOTDStart:       "375",
	CommandEndOfMOTD:       "376",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, commandCount)
	for c := CommandUnknown + 1; c < commandCount; c++ {
		m[commandNames[c]] = c
	}
	return m
}()

// LookupCommand matches the wire name exactly; numerics match their three
// digit form.
func LookupCommand(name string) Command {
	if c, ok := commandsByName[name]; ok {
		return c
	}
	return CommandUnknown
}

func (c Command) String() string {
	if c <= CommandUnknown || c >= commandCount {
		return "UNKNOWN"
	}
	return commandNames[c]
}
