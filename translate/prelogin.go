package translate

import (
	"context"
	"net"
	"net/netip"
	"strings"

	"github.com/icb-irc/bridge/ircwire"
	"github.com/icb-irc/bridge/state"
)

// handlePreLoginEvent handles the pre-login phase spec.md §4.5
// describes: only NICK and USER are recognized, plus QUIT to end the
// session early; everything else is silently ignored until both NICK
// and USER have landed.
func (s *Session) handlePreLoginEvent(ev ircwire.Event) error {
	switch strings.ToUpper(ev.Command) {
	case "NICK":
		return s.handlePreLoginNick(ev)
	case "USER":
		return s.handlePreLoginUser(ev)
	case "QUIT":
		return s.die("quit before registration")
	}
	return nil
}

func (s *Session) handlePreLoginNick(ev ircwire.Event) error {
	if len(ev.Params) < 1 {
		return s.numeric(errNeedMoreParams, "NICK", "Not enough parameters")
	}
	nick := ev.Params[0]
	if !nickPattern.MatchString(nick) {
		return s.numeric(errErroneousNick, nick, "Erroneous nickname")
	}
	s.pendingNick = nick
	return s.maybeCompleteRegistration()
}

func (s *Session) handlePreLoginUser(ev ircwire.Event) error {
	if len(ev.Params) < 4 {
		s.numeric(errNeedMoreParams, "USER", "Not enough parameters")
		return s.die("malformed USER")
	}
	loginID := ev.Params[0]
	if !loginIDPattern.MatchString(loginID) {
		s.numeric(errNeedMoreParams, "USER", "Not enough parameters")
		return s.die("invalid loginid")
	}
	s.pendingUser = loginID
	s.pendingHost = resolveHost(context.Background(), s.conn)
	return s.maybeCompleteRegistration()
}

// maybeCompleteRegistration spawns the ICB connect/login task once both
// NICK and USER have landed, per spec.md §4.5's "once BOTH are set,
// spawn the ICB connect/login task."
func (s *Session) maybeCompleteRegistration() error {
	if s.pendingNick == "" || s.pendingUser == "" {
		return nil
	}

	sess := state.NewSession(s.pendingNick, s.pendingUser, s.pendingHost)
	s.sess = sess
	s.logger = s.logger.With("session_id", sess.SessionID)

	client, err := s.dialICB(context.Background(), s.icbAddr)
	if err != nil {
		s.logger.Error("icb connect failed", "err", err)
		return s.die("icb connect failed")
	}
	client.State.AddListener(s)
	s.icb = client

	if err := client.Login(s.pendingUser, s.pendingNick, "", "", s.pendingHost); err != nil {
		s.logger.Error("icb login failed", "err", err)
		return s.die("icb login failed")
	}

	if s.registry != nil {
		if tcpAddr, ok := s.conn.RemoteAddr().(*net.TCPAddr); ok {
			if ap, ok := netip.AddrFromSlice(tcpAddr.IP); ok {
				s.registry.Insert(sess.SessionID, netip.AddrPortFrom(ap, uint16(tcpAddr.Port)))
			}
		}
	}

	return nil
}
