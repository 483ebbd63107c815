package irc

type EventKind string

const (
	KindConnected       EventKind = "connected"
	KindJoin            EventKind = "join"
	KindPart            EventKind = "part"
	KindUserState       EventKind = "userstate"
	KindError           EventKind = "error"
	KindMessage         EventKind = "message"
	KindNotice          EventKind = "notice"
	KindRoomState       EventKind = "roomstate"
	KindClearChat       EventKind = "clearchat"
	KindClearMsg        EventKind = "clearmsg"
	KindGlobalUserState EventKind = "globaluserstate"
	KindHostTarget      EventKind = "hosttarget"
	KindReconnect       EventKind = "reconnect"
	KindUserNotice      EventKind = "usernotice"
	KindWhisper         EventKind = "whisper"
)

// Event is anything a handler publishes.
type Event interface {
	Kind() EventKind
}

// ConnectedEvent follows the end of the MOTD, i.e. a successful login.
type ConnectedEvent struct{}

type JoinEvent struct {
	Channel string   `json:"channel"`
	User    string   `json:"user"`
	Self    bool     `json:"self"`
	Raw     *Message `json:"raw"`
}

type PartEvent struct {
	Channel string   `json:"channel"`
	User    string   `json:"user"`
	Self    bool     `json:"self"`
	Raw     *Message `json:"raw"`
}

// UserStateEvent carries the client's own state in a channel.
type UserStateEvent struct {
	Tags    Tags     `json:"tags"`
	Channel string   `json:"channel"`
	Raw     *Message `json:"raw"`
}

type ErrorEvent struct {
	Cause error `json:"-"`
}

type MessageEvent struct {
	Channel string   `json:"channel"`
	User    string   `json:"user"`
	Text    string   `json:"text"`
	Action  bool     `json:"action"`
	Tags    Tags     `json:"tags"`
	Raw     *Message `json:"raw"`
}

type NoticeEvent struct {
	Channel string   `json:"channel"`
	MsgID   string   `json:"msg_id"`
	Text    string   `json:"text"`
	Raw     *Message `json:"raw"`
}

type RoomStateEvent struct {
	Channel string   `json:"channel"`
	Tags    Tags     `json:"tags"`
	Raw     *Message `json:"raw"`
}

// ClearChatEvent has an empty Target when the whole channel was cleared.
type ClearChatEvent struct {
	Channel string   `json:"channel"`
	Target  string   `json:"target"`
	Tags    Tags     `json:"tags"`
	Raw     *Message `json:"raw"`
}

type ClearMsgEvent struct {
	Channel     string   `json:"channel"`
	Login       string   `json:"login"`
	TargetMsgID string   `json:"target_msg_id"`
	Text        string   `json:"text"`
	Raw         *Message `json:"raw"`
}

type GlobalUserStateEvent struct {
	Tags Tags     `json:"tags"`
	Raw  *Message `json:"raw"`
}

// HostTargetEvent has an empty Target when hosting stopped.
type HostTargetEvent struct {
	Channel string   `json:"channel"`
	Target  string   `json:"target"`
	Viewers int      `json:"viewers"`
	Raw     *Message `json:"raw"`
}

type ReconnectEvent struct{}

type UserNoticeEvent struct {
	Channel string   `json:"channel"`
	MsgID   string   `json:"msg_id"`
	Text    string   `json:"text"`
	Tags    Tags     `json:"tags"`
	Raw     *Message `json:"raw"`
}

type WhisperEvent struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Text string   `json:"text"`
	Tags Tags     `json:"tags"`
	Raw  *Message `json:"raw"`
}

func (ConnectedEvent) Kind() EventKind       { return KindConnected }
func (JoinEvent) Kind() EventKind            { return KindJoin }
func (PartEvent) Kind() EventKind            { return KindPart }
func (UserStateEvent) Kind() EventKind       { return KindUserState }
func (ErrorEvent) Kind() EventKind           { return KindError }
func (MessageEvent) Kind() EventKind         { return KindMessage }
func (NoticeEvent) Kind() EventKind          { return KindNotice }
func (RoomStateEvent) Kind() EventKind       { return KindRoomState }
func (ClearChatEvent) Kind() EventKind       { return KindClearChat }
func (ClearMsgEvent) Kind() EventKind        { return KindClearMsg }
func (GlobalUserStateEvent) Kind() EventKind { return KindGlobalUserState }
func (HostTargetEvent) Kind() EventKind      { return KindHostTarget }
func (ReconnectEvent) Kind() EventKind       { return KindReconnect }
func (UserNoticeEvent) Kind() EventKind      { return KindUserNotice }
func (WhisperEvent) Kind() EventKind         { return KindWhisper }
