package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}
	validGinModes := map[string]bool{"debug": true, "release": true, "test": true}
	if cfg.App.GinMode != "" && !validGinModes[cfg.App.GinMode] {
		return fmt.Errorf("app.gin_mode must be one of debug, release, test; got %s", cfg.App.GinMode)
	}

	// identity
	if cfg.Identity.User == "" && cfg.Identity.Pass != "" {
		return errors.New("identity.pass is set without identity.user")
	}
	if strings.HasPrefix(cfg.Identity.Pass, "oauth:") {
		cfg.Identity.Pass = strings.TrimPrefix(cfg.Identity.Pass, "oauth:")
	}

	// server
	switch cfg.Server.Transport {
	case TransportTCP:
		if _, _, err := net.SplitHostPort(cfg.Server.Address); err != nil {
			return fmt.Errorf("server.address must be host:port: %w", err)
		}
	case TransportWS:
		u, err := url.Parse(cfg.Server.URL)
		if err != nil {
			return fmt.Errorf("server.url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("server.url scheme must be ws or wss; got %s", u.Scheme)
		}
	default:
		return fmt.Errorf("server.transport must be tcp or ws; got %s", cfg.Server.Transport)
	}

	// proxy
	if cfg.Proxy != nil && (cfg.Proxy.Address != "") != (cfg.Proxy.Port != 0) {
		return errors.New("proxy.address and proxy.port must both be set or both be empty")
	}

	// timeouts
	if cfg.Timeouts.ConnectSeconds < 0 || cfg.Timeouts.JoinSeconds < 0 {
		return errors.New("timeouts must not be negative")
	}

	if cfg.RoomStateTTLSeconds < 0 {
		return errors.New("room_state_ttl_seconds must not be negative")
	}

	for i, ch := range cfg.Channels {
		ch = strings.TrimSpace(ch)
		if ch == "" || ch == "#" {
			return fmt.Errorf("channels[%d] is empty", i)
		}
		if strings.ContainsAny(ch, " ,\r\n") {
			return fmt.Errorf("channels[%d] contains invalid characters: %q", i, ch)
		}
	}

	return nil
}
