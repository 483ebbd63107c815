package config

type Config struct {
	App                 App      `json:"app"`
	Identity            Identity `json:"identity"`
	Server              Server   `json:"server"`
	Proxy               *Proxy   `json:"proxy"`
	Timeouts            Timeouts `json:"timeouts"`
	HTTP                HTTP     `json:"http"`
	Channels            []string `json:"channels"`
	RoomStateTTLSeconds int      `json:"room_state_ttl_seconds"`
}

type App struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
	GinMode  string `json:"gin_mode"`
}

// Identity is the chat login. An empty user means an anonymous session.
type Identity struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

type Server struct {
	Transport    string   `json:"transport"` // "tcp" or "ws"
	Address      string   `json:"address"`
	URL          string   `json:"url"`
	TLS          bool     `json:"tls"`
	Capabilities []string `json:"capabilities"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Timeouts are in seconds; 0 waits forever.
type Timeouts struct {
	ConnectSeconds int `json:"connect_seconds"`
	JoinSeconds    int `json:"join_seconds"`
}

type HTTP struct {
	Addr      string `json:"addr"`
	AuthToken string `json:"auth_token"`
}
