// Package translate implements the session translator spec.md §4.5
// describes: the stateful adapter that owns one IRC transport, one ICB
// client, and one session record, turning IRC commands into ICB
// commands and ICB events into IRC numerics and messages.
//
// The concurrency shape is grounded on the teacher's
// dispatchIncomingMessages (server/oscar/connection.go): a dedicated
// goroutine per socket feeding a buffered channel, consumed by a single
// select loop that is therefore the only writer to either transport.
package translate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"regexp"
	"strings"
	"time"

	"github.com/icb-irc/bridge/icbclient"
	"github.com/icb-irc/bridge/icbclient/parse"
	"github.com/icb-irc/bridge/icbwire"
	"github.com/icb-irc/bridge/ircwire"
	"github.com/icb-irc/bridge/state"
)

var (
	nickPattern    = regexp.MustCompile(`^[\w-]{1,12}$`)
	loginIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,12}$`)
)

// errSessionQuit is returned from the IRC dispatch path to unwind Run
// after a graceful QUIT; it is never logged as a failure.
var errSessionQuit = errors.New("translate: client quit")

// Registry is the subset of bridge.Registry the translator needs: one
// entry per live session_id, inserted at login and removed at session
// teardown. Declared here (rather than imported from bridge) so this
// package never depends on the acceptor that constructs it.
type Registry interface {
	Insert(sessionID string, addr netip.AddrPort)
	Delete(sessionID string)
}

// Session is the per-accepted-IRC-connection translator. One is
// constructed per connection by the acceptor.
type Session struct {
	conn       net.Conn
	dec        *ircwire.Decoder
	logger     *slog.Logger
	serverHost string
	icbAddr    string
	registry   Registry

	sess *state.Session
	icb  *icbclient.Client

	// dialICB opens the upstream ICB connection; overridable in tests
	// to avoid a real TCP dial, the same seam the teacher's AuthService
	// interfaces provide for its own external dependencies.
	dialICB func(ctx context.Context, addr string) (*icbclient.Client, error)

	pendingNick string
	pendingUser string
	pendingHost string

	dying bool

	parsers []parserEntry

	// memberLogins tracks nick -> loginid for IRC prefix construction
	// on PART/NICK, since GroupState.members is already mutated by the
	// time OnMemberRemoved/OnMemberRenamed fire.
	memberLogins map[string]string
}

// New constructs a Session for a freshly accepted IRC connection.
// serverHost is advertised in welcome numerics and PONG replies;
// icbAddr is the upstream ICB server's host:port.
func New(conn net.Conn, logger *slog.Logger, serverHost, icbAddr string, registry Registry) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		conn:         conn,
		dec:          ircwire.NewDecoder(logger),
		logger:       logger,
		serverHost:   serverHost,
		icbAddr:      icbAddr,
		registry:     registry,
		memberLogins: make(map[string]string),
		dialICB:      icbclient.Connect,
	}
}

// Run drives the session until either transport closes or ctx is
// cancelled. It always closes both transports and clears any registry
// entry before returning, per spec.md §5's resource-cleanup contract.
func (s *Session) Run(ctx context.Context) error {
	defer s.cleanup()

	ircMsgCh := make(chan ircwire.Event, 8)
	ircErrCh := make(chan error, 1)
	go s.readIRC(ircMsgCh, ircErrCh)

	var icbMsgCh chan icbwire.Frame
	var icbErrCh chan error

	for {
		select {
		case ev, ok := <-ircMsgCh:
			if !ok {
				ircMsgCh = nil
				continue
			}
			if s.dying {
				continue
			}
			if err := s.handleIRCEvent(ev); err != nil {
				if errors.Is(err, errSessionQuit) {
					return nil
				}
				return err
			}
			if icbMsgCh == nil && s.icb != nil {
				icbMsgCh = make(chan icbwire.Frame, 8)
				icbErrCh = make(chan error, 1)
				go s.readICB(icbMsgCh, icbErrCh)
			}

		case frame, ok := <-icbMsgCh:
			if !ok {
				icbMsgCh = nil
				continue
			}
			if err := s.handleICBFrame(frame); err != nil {
				return err
			}

		case err := <-ircErrCh:
			return err

		case err := <-icbErrCh:
			return err

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// readIRC feeds raw bytes from the IRC transport to the line decoder
// and forwards decoded events, mirroring the teacher's pattern of a
// read goroutine writing into a buffered channel that the session loop
// alone consumes.
func (s *Session) readIRC(out chan<- ircwire.Event, errCh chan<- error) {
	defer close(out)
	defer close(errCh)

	r := bufio.NewReaderSize(s.conn, 4096)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range s.dec.Feed(buf[:n]) {
				out <- ev
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

// readICB repeatedly calls Client.Read, forwarding every frame
// (including ping/pong, which the caller ignores) to the session loop.
func (s *Session) readICB(out chan<- icbwire.Frame, errCh chan<- error) {
	defer close(out)
	defer close(errCh)

	for {
		frame, err := s.icb.Read()
		if err != nil {
			errCh <- err
			return
		}
		out <- frame
	}
}

// cleanup closes both transports and removes the registry entry. Safe
// to call even if login never completed.
func (s *Session) cleanup() {
	_ = s.conn.Close()
	if s.icb != nil {
		_ = s.icb.Quit()
	}
	if s.sess != nil && s.registry != nil {
		s.registry.Delete(s.sess.SessionID)
	}
}

// currentNick returns the session's nick once logged in, or "*" before
// registration completes, matching what real ircds address unregistered
// clients as.
func (s *Session) currentNick() string {
	if s.sess == nil {
		return "*"
	}
	return s.sess.Nick
}

// fromServer builds a server-prefixed Event.
func (s *Session) fromServer(command string, params ...string) ircwire.Event {
	return ircwire.Event{Prefix: ":" + s.serverHost, Command: command, Params: params}
}

// sendEvent serializes and writes ev to the IRC transport. This is the
// only place that writes to s.conn, preserving the single-writer
// guarantee spec.md §5 requires.
func (s *Session) sendEvent(ev ircwire.Event) error {
	_, err := s.conn.Write([]byte(ev.Line() + "\r\n"))
	if err != nil {
		return fmt.Errorf("translate: write irc line: %w", err)
	}
	return nil
}

// die marks the session as shutting down and unwinds Run, closing both
// transports via the deferred cleanup. Subsequent queued IRC input is
// dropped by the dying check in Run's select loop.
func (s *Session) die(reason string) error {
	s.dying = true
	s.logger.Info("session ending", "reason", reason)
	return errSessionQuit
}

// selfPrefix builds the standard IRC "nick!~loginid@host" prefix used
// on messages and NICK changes attributed to this session's own user.
func (s *Session) selfPrefix() string {
	return fmt.Sprintf(":%s!~%s@%s", s.sess.Nick, s.sess.LoginID, s.sess.Host)
}

// resolveHost performs the reverse DNS lookup spec.md §5 calls out as a
// suspension point triggered when USER is received. Falls back to the
// bare IP on lookup failure, which is a common, tolerated degradation
// in IRC daemons rather than a fatal error.
func resolveHost(ctx context.Context, conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	r := &net.Resolver{}
	lctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	names, err := r.LookupAddr(lctx, host)
	if err != nil || len(names) == 0 {
		return host
	}
	return strings.TrimSuffix(names[0], ".")
}

// parserEntry pairs an ICB stream parser with an optional completion
// hook, invoked once when Feed first reports the parser inactive.
type parserEntry struct {
	p      parse.Parser
	onDone func()
}
