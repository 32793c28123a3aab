package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/gorilla/websocket"
)

// Backoff is a capped exponential reconnect schedule.
type Backoff struct {
	Base        time.Duration
	Max         time.Duration
	MaxAttempts int
}

// DefaultBackoff waits 1s, 2s, 4s, 8s, 16s and gives up after five attempts.
var DefaultBackoff = Backoff{Base: time.Second, Max: 30 * time.Second, MaxAttempts: 5}

// Delay returns the wait before reconnect attempt n (0-based).
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			return b.Max
		}
	}
	if d > b.Max {
		return b.Max
	}
	return d
}

// ErrGaveUp is returned by Client.Run after MaxAttempts failed reconnects.
var ErrGaveUp = errors.New("se agotaron los intentos de reconexión")

// Client is a viewer of a remote hub. After every successful connect it calls
// OnConnect so the caller can re-fetch state that may have been missed while
// disconnected; events are never replayed.
type Client struct {
	URL       string
	Header    http.Header
	Backoff   Backoff
	OnConnect func(ctx context.Context)
	OnEvent   func(ev Event)

	dialer websocket.Dialer
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client with the default backoff.
func NewClient(url string, header http.Header) *Client {
	return &Client{
		URL:     url,
		Header:  header,
		Backoff: DefaultBackoff,
		dialer:  websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run connects and reads events until ctx is done or reconnecting fails
// Backoff.MaxAttempts times in a row.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.URL, c.Header)
		if err == nil {
			attempt = 0
			logger.Success(fmt.Sprintf("Conectado a %s", c.URL), "Realtime")
			if c.OnConnect != nil {
				c.OnConnect(ctx)
			}
			err = c.readLoop(ctx, conn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn(fmt.Sprintf("Conexión perdida: %v", err), "Realtime")
		} else if ctx.Err() != nil {
			return ctx.Err()
		} else {
			logger.Error(fmt.Sprintf("Error al conectar con %s: %v", c.URL, err), "Realtime")
		}

		if attempt >= c.Backoff.MaxAttempts {
			return ErrGaveUp
		}
		delay := c.Backoff.Delay(attempt)
		attempt++
		logger.Info(fmt.Sprintf("Reintentando en %s (intento %d/%d)", delay, attempt, c.Backoff.MaxAttempts), "Realtime")
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := Decode(msg)
		if err != nil {
			logger.Warn(fmt.Sprintf("Evento descartado: %v", err), "Realtime")
			continue
		}
		if c.OnEvent != nil {
			c.OnEvent(ev)
		}
	}
}
