// Package icbclient implements the ICB-side client: it owns the upstream
// socket, writes ICB frames, reads decoded frames, maintains per-session
// group state, and notifies listeners of every state change.
package icbclient

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/icb-irc/bridge/icbwire"
	"github.com/icb-irc/bridge/state"
)

// ICB frame type characters, per spec.md §6.
const (
	TypeLogin    byte = 'a'
	TypeOpen     byte = 'b'
	TypePersonal byte = 'c'
	TypeStatus   byte = 'd'
	TypeError    byte = 'e'
	TypeExit     byte = 'g'
	TypeCommand  byte = 'h'
	TypeOutput   byte = 'i'
	TypeProtocol byte = 'j'
	TypePing     byte = 'l'
	TypePong     byte = 'm'
)

// Client is a single session's upstream ICB connection. Read must be
// called from one goroutine at a time (the translator's readICB). The
// sending methods (Command, Open, Ping, ...) may run on another
// goroutine concurrently with Read, as the translator's session loop
// does in response to IRC input: each frame goes out in a single Write
// on the connection, and State guards itself with its own mutex.
type Client struct {
	conn   io.ReadWriteCloser
	reader *icbwire.Reader
	writer *icbwire.Writer

	State *state.GroupState
}

// New returns a Client wrapping an already-dialed connection (or, in
// tests, any io.ReadWriteCloser). Connect is the usual way to obtain
// one against a real upstream.
func New(conn io.ReadWriteCloser) *Client {
	return &Client{
		conn:   conn,
		reader: icbwire.NewReader(conn),
		writer: icbwire.NewWriter(conn),
		State:  state.NewGroupState(),
	}
}

// Connect opens the upstream ICB TCP socket. The returned Client's Read
// method blocks until the peer sends a message or closes the
// connection -- the channel-based realization of "a future that
// completes when the peer closes" lives one layer up, in the
// translator's ICB interaction task (see translate.Session), which
// spawns a goroutine around Read the same way the teacher's
// dispatchIncomingMessages spawns one around FLAP frame reads.
func Connect(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("icbclient: dial %s: %w", addr, err)
	}
	return New(conn), nil
}

// Login sends the type-a login packet, then locally records nick in
// State per spec.md §4.3.
func (c *Client) Login(loginID, nick, group, password, address string) error {
	if err := c.writer.WriteFrame(TypeLogin, loginID, nick, group, "login", password, "", address); err != nil {
		return fmt.Errorf("icbclient: login: %w", err)
	}
	c.State.SetNick(nick)
	return nil
}

// Command sends a type-h command packet with the given command and
// optional argument.
func (c *Client) Command(cmd, arg string) error {
	if err := c.writer.WriteFrame(TypeCommand, cmd, arg); err != nil {
		return fmt.Errorf("icbclient: command %q: %w", cmd, err)
	}
	return nil
}

// Send writes a pre-encoded raw frame verbatim.
func (c *Client) Send(raw []byte) error {
	return c.writer.WriteRaw(raw)
}

// Ping sends an empty type-l ping frame.
func (c *Client) Ping() error {
	return c.writer.WriteFrame(TypePing)
}

// Pong sends an empty type-m pong frame.
func (c *Client) Pong() error {
	return c.writer.WriteFrame(TypePong)
}

// Open sends a type-b open (broadcast) message.
func (c *Client) Open(text string) error {
	return c.writer.WriteFrame(TypeOpen, text)
}

// Quit closes the underlying socket.
func (c *Client) Quit() error {
	return c.conn.Close()
}

// Read returns the next decoded ICB message, after applying the
// built-in processing spec.md §4.3 requires on every message: auto-pong
// on ping, clearing the joining flag on pong, and delegating to the
// status/output processors, which mutate State and fire Listener
// callbacks synchronously before Read returns.
func (c *Client) Read() (icbwire.Frame, error) {
	frame, err := c.reader.ReadFrame()
	if err != nil {
		return icbwire.Frame{}, err
	}

	switch frame.Type {
	case TypePing:
		if err := c.Pong(); err != nil {
			return frame, fmt.Errorf("icbclient: auto-pong: %w", err)
		}
	case TypePong:
		c.State.SetJoining(false)
	case TypeStatus:
		processStatus(c, frame)
	case TypeOutput:
		processOutput(c, frame)
	case TypeExit:
		_ = c.conn.Close()
	}

	return frame, nil
}
