// Package mpv drives an mpv process over its JSON IPC socket and exposes it
// as a core.Media.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
	reelerrors "github.com/tessro/reel/internal/errors"
)

const maxLine = 1 << 20

// request is a command sent to mpv.
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// message is any line received from mpv: a command reply or an event.
type message struct {
	Event     string          `json:"event,omitempty"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Error     string          `json:"error,omitempty"`
	RequestID int64           `json:"request_id,omitempty"`
}

// conn is a persistent IPC connection. Replies are matched to requests by
// request_id; events are forwarded in arrival order.
type conn struct {
	nc  net.Conn
	log logrus.FieldLogger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan message

	events    chan message
	closed    chan struct{}
	closeOnce sync.Once
}

func dial(ctx context.Context, socket string, log logrus.FieldLogger) (*conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", socket, err)
	}
	c := &conn{
		nc:      nc,
		log:     log,
		pending: make(map[int64]chan message),
		events:  make(chan message, 64),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *conn) readLoop() {
	defer close(c.events)
	defer c.shutdown()

	sc := bufio.NewScanner(c.nc)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		var m message
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			c.log.WithError(err).Debug("skipping unparseable ipc line")
			continue
		}

		if m.Event != "" {
			select {
			case c.events <- m:
			case <-c.closed:
				return
			}
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[m.RequestID]
		delete(c.pending, m.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- m
		}
	}
	if err := sc.Err(); err != nil {
		c.log.WithError(err).Debug("ipc read loop stopped")
	}
}

// command sends args to mpv and waits for the reply.
func (c *conn) command(ctx context.Context, args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan message, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.nc.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		select {
		case <-c.closed:
			return nil, reelerrors.ErrIPCClosed
		default:
			return nil, fmt.Errorf("write: %w", err)
		}
	}

	select {
	case m := <-ch:
		if m.Error != "" && m.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], m.Error)
		}
		return m.Data, nil
	case <-ctx.Done():
		c.forget(id)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("mpv %v: %w", args[0], reelerrors.ErrIPCTimeout)
		}
		return nil, ctx.Err()
	case <-c.closed:
		return nil, reelerrors.ErrIPCClosed
	}
}

func (c *conn) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *conn) shutdown() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.nc.Close()
	})
}

// close tears down the connection. The event channel closes once the read
// loop has exited.
func (c *conn) close() error {
	c.shutdown()
	return nil
}
