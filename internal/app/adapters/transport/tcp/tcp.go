package tcp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"golang.org/x/net/proxy"
	"log/slog"
	"net"
	"sync"
	"time"
	"tmichat/internal/app/ports"
	"tmichat/pkg/logger"
)

const readBufferSize = 16 * 1024

var errNoContextDialer = errors.New("proxy dialer does not support contexts")

// Dialer connects to the chat server over TCP, optionally through TLS and a
// SOCKS5 proxy.
type Dialer struct {
	log       logger.Logger
	address   string
	useTLS    bool
	proxyAddr string
}

func NewDialer(log logger.Logger, address string, useTLS bool, proxyAddr string) *Dialer {
	return &Dialer{
		log:       log,
		address:   address,
		useTLS:    useTLS,
		proxyAddr: proxyAddr,
	}
}

func (d *Dialer) Dial(ctx context.Context) (ports.Transport, error) {
	conn, err := d.dial(ctx)
	if err != nil {
		d.log.Error("Failed to connect to IRC chat Twitch", err, slog.String("address", d.address))
		return nil, err
	}

	if d.useTLS {
		host, _, err := net.SplitHostPort(d.address)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("split address: %w", err)
		}

		tlsConn := tls.Client(conn, &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			d.log.Error("TLS handshake failed", err, slog.String("address", d.address))
			return nil, fmt.Errorf("tls handshake: %w", err)
		}
		conn = tlsConn
	}

	d.log.Info("Socket connected", slog.String("address", conn.RemoteAddr().String()), slog.Bool("tls", d.useTLS))
	return NewConn(conn), nil
}

func (d *Dialer) dial(ctx context.Context) (net.Conn, error) {
	if d.proxyAddr == "" {
		var nd net.Dialer
		return nd.DialContext(ctx, "tcp", d.address)
	}

	dialer, err := proxy.SOCKS5("tcp", d.proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy: %w", err)
	}
	cd, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, errNoContextDialer
	}
	return cd.DialContext(ctx, "tcp", d.address)
}

// Conn is a chunk-oriented view of a net.Conn: every Read returns whatever
// the socket delivered.
type Conn struct {
	conn net.Conn
	buf  []byte

	wmu sync.Mutex
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		buf:  make([]byte, readBufferSize),
	}
}

func (c *Conn) Read(ctx context.Context) (string, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	n, err := c.conn.Read(c.buf)
	if n > 0 {
		return string(c.buf[:n]), nil
	}
	if err != nil && ctx.Err() != nil {
		return "", ctx.Err()
	}
	return "", err
}

func (c *Conn) Write(ctx context.Context, line string) (ports.WriteResult, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	if _, err := c.conn.Write([]byte(line + "\r\n")); err != nil {
		return ports.WriteResult{}, err
	}
	return ports.WriteResult{Flushed: true}, nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
