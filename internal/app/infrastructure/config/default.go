package config

const (
	TransportTCP = "tcp"
	TransportWS  = "ws"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			LogFile:  "logs/tmichat.log",
			GinMode:  "release",
		},
		Server: Server{
			Transport:    TransportTCP,
			Address:      "irc.chat.twitch.tv:6697",
			URL:          "wss://irc-ws.chat.twitch.tv:443",
			TLS:          true,
			Capabilities: []string{"twitch.tv/membership", "twitch.tv/tags", "twitch.tv/commands"},
		},
		Timeouts: Timeouts{
			ConnectSeconds: 30,
			JoinSeconds:    10,
		},
		Channels:            []string{},
		RoomStateTTLSeconds: 3600,
	}
}
