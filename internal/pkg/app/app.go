package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"tmichat/internal/app/adapters/chat"
	router "tmichat/internal/app/adapters/http"
	"tmichat/internal/app/adapters/transport/tcp"
	"tmichat/internal/app/adapters/transport/ws"
	"tmichat/internal/app/domain/irc"
	"tmichat/internal/app/infrastructure/config"
	"tmichat/internal/app/infrastructure/storage"
	"tmichat/internal/app/ports"
	"tmichat/pkg/logger"
)

const roomStateCapacity = 1000

// Options override the config file from the command line.
type Options struct {
	ConfigPath string
	Join       []string
	Transport  string
	LogLevel   string
}

// Run connects, joins the configured channels and serves the status pages
// until ctx is done.
func Run(ctx context.Context, opts Options) error {
	manager, err := config.New(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()

	log := logger.New(cfg.App.LogFile)
	log.SetLogLevel(cfg.App.LogLevel)
	if opts.LogLevel != "" {
		log.SetLogLevel(opts.LogLevel)
	}
	gin.SetMode(cfg.App.GinMode)

	transport := cfg.Server.Transport
	if opts.Transport != "" {
		transport = opts.Transport
	}

	dialer, err := newDialer(log, cfg, transport)
	if err != nil {
		return err
	}

	idCfg := cfg.Identity.WithEnv()
	c := chat.New(log, chat.Options{
		Identity:       irc.NewIdentity(idCfg.User, idCfg.Pass),
		Dialer:         dialer,
		Capabilities:   cfg.Server.Capabilities,
		ConnectTimeout: cfg.Timeouts.Connect(),
		JoinTimeout:    cfg.Timeouts.Join(),
		RoomStates:     storage.NewCache[ports.RoomState](roomStateCapacity, cfg.RoomStateTTL()),
	})
	defer c.Close()

	c.Subscribe(func(ev irc.Event) {
		switch e := ev.(type) {
		case irc.ReconnectEvent:
			log.Warn("Server asked to reconnect")
		case irc.ErrorEvent:
			log.Error("Chat error", e.Cause)
		case irc.NoticeEvent:
			log.Info("Notice", slog.String("channel", e.Channel), slog.String("msg_id", e.MsgID), slog.String("text", e.Text))
		}
	})

	if err := c.Connect(ctx); err != nil {
		log.Error("Failed to connect to chat", err)
		return err
	}

	joinAll(ctx, log, c, slices.Concat(cfg.Channels, opts.Join))

	if cfg.HTTP.Addr == "" {
		<-ctx.Done()
		return nil
	}

	return router.NewRouter(log, cfg.HTTP, c).Run(ctx)
}

func newDialer(log logger.Logger, cfg *config.Config, transport string) (ports.Dialer, error) {
	var proxyAddr string
	if cfg.Proxy != nil && cfg.Proxy.Address != "" && cfg.Proxy.Port != 0 {
		proxyAddr = fmt.Sprintf("%s:%d", cfg.Proxy.Address, cfg.Proxy.Port)
	}

	switch transport {
	case config.TransportTCP:
		return tcp.NewDialer(logger.NewPrefixedLogger(log, "tcp"), cfg.Server.Address, cfg.Server.TLS, proxyAddr), nil
	case config.TransportWS:
		return ws.NewDialer(logger.NewPrefixedLogger(log, "ws"), cfg.Server.URL, proxyAddr), nil
	}
	return nil, fmt.Errorf("unknown transport %q", transport)
}

// joinAll joins every distinct channel concurrently; failures are logged.
func joinAll(ctx context.Context, log logger.Logger, c ports.ChatPort, channels []string) {
	seen := make(map[string]struct{}, len(channels))

	var wg sync.WaitGroup
	for _, channel := range channels {
		key := strings.ToLower(irc.CleanChannel(channel))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := c.Join(ctx, key); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Error("Failed to join channel", err, slog.String("channel", key))
			}
		}()
	}

	wg.Wait()
}
