package ws

import (
	"context"
	"fmt"
	"github.com/gorilla/websocket"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
	"tmichat/internal/app/ports"
	"tmichat/pkg/logger"
)

const closeTimeout = time.Second

// Dialer connects to the chat server over WebSocket. Every text frame may
// hold several CRLF-terminated lines.
type Dialer struct {
	log    logger.Logger
	url    string
	dialer *websocket.Dialer
}

// NewDialer builds a dialer for rawURL; proxyAddr, when set, is a SOCKS5
// proxy host:port.
func NewDialer(log logger.Logger, rawURL string, proxyAddr string) *Dialer {
	d := *websocket.DefaultDialer
	if proxyAddr != "" {
		d.Proxy = http.ProxyURL(&url.URL{Scheme: "socks5", Host: proxyAddr})
	}

	return &Dialer{
		log:    log,
		url:    rawURL,
		dialer: &d,
	}
}

func (d *Dialer) Dial(ctx context.Context) (ports.Transport, error) {
	conn, resp, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %d)", err, resp.StatusCode)
		}
		d.log.Error("Failed to connect to websocket chat", err, slog.String("url", d.url))
		return nil, err
	}

	d.log.Info("Websocket connected", slog.String("url", d.url))
	return NewConn(conn), nil
}

type Conn struct {
	conn *websocket.Conn

	wmu sync.Mutex
}

func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

func (c *Conn) Read(ctx context.Context) (string, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}
		if typ == websocket.TextMessage || typ == websocket.BinaryMessage {
			return string(data), nil
		}
	}
}

func (c *Conn) Write(ctx context.Context, line string) (ports.WriteResult, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n")); err != nil {
		return ports.WriteResult{}, err
	}
	return ports.WriteResult{Flushed: true}, nil
}

func (c *Conn) Close() error {
	c.wmu.Lock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeTimeout),
	)
	c.wmu.Unlock()

	return c.conn.Close()
}
