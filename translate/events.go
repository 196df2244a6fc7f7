package translate

import (
	"strings"

	"github.com/icb-irc/bridge/icbclient"
	"github.com/icb-irc/bridge/icbwire"
	"github.com/icb-irc/bridge/ircwire"
)

// icbSenderEvent builds a PRIVMSG-shaped event attributed to an ICB
// sender who has no IRC-visible host.
func icbSenderEvent(sender, command, target, text string) ircwire.Event {
	return ircwire.Event{Prefix: memberPrefix(sender, ""), Command: command, Params: []string{target, text}}
}

// ircErrorEvent builds a raw ERROR line for unrecognized ICB errors.
func ircErrorEvent(text string) ircwire.Event {
	return ircwire.Event{Command: "ERROR", Params: []string{text}}
}

// handleICBFrame implements spec.md §4.5's "ICB-to-IRC event
// translation": every frame returned by Client.Read, after its
// built-in state processing, is translated into zero or more outbound
// IRC lines and fed to any active stream parsers.
func (s *Session) handleICBFrame(frame icbwire.Frame) error {
	s.feedParsers(frame)

	switch frame.Type {
	case icbclient.TypeProtocol:
		return s.emitWelcome()
	case icbclient.TypeOpen:
		return s.emitGroupMessage(frame)
	case icbclient.TypePersonal:
		return s.emitPersonalMessage(frame)
	case icbclient.TypeStatus:
		return s.handleStatusEvent(frame)
	case icbclient.TypeError:
		return s.handleErrorEvent(frame)
	case icbclient.TypeOutput:
		return s.handleOutputEvent(frame)
	}
	return nil
}

// emitWelcome sends the registration sequence spec.md §4.5 lists for
// ICB's type-j protocol hello.
func (s *Session) emitWelcome() error {
	nick := s.currentNick()
	if err := s.numeric(rplWelcome, "Welcome to the Internet Citizen Band, "+nick); err != nil {
		return err
	}
	if err := s.numeric(rplYourHost, "Your host is "+s.serverHost+", bridging to ICB"); err != nil {
		return err
	}
	if err := s.numeric(rplMyInfo, s.serverHost, "icb-irc-bridge", "", ""); err != nil {
		return err
	}
	if err := s.numeric(rplMotD, "Message of the day -"); err != nil {
		return err
	}
	if err := s.numeric(rplEndOfMotD, "End of MOTD command"); err != nil {
		return err
	}
	return s.numeric(rplUmodeIS, "+i")
}

func (s *Session) emitGroupMessage(frame icbwire.Frame) error {
	sender := frame.Field(0)
	text := frame.Field(1)
	channel := "#" + s.icb.State.Group()
	return s.sendEvent(icbSenderEvent(sender, "PRIVMSG", channel, text))
}

func (s *Session) emitPersonalMessage(frame icbwire.Frame) error {
	sender := frame.Field(0)
	text := frame.Field(1)
	return s.sendEvent(icbSenderEvent(sender, "PRIVMSG", s.currentNick(), text))
}

// handleStatusEvent covers the two status categories spec.md §4.5 gives
// translation-level meaning beyond the state updates icbclient already
// applied: nick collision and group invitations.
func (s *Session) handleStatusEvent(frame icbwire.Frame) error {
	category := frame.Field(0)
	text := frame.Field(1)

	switch {
	case category == "Register" && strings.Contains(text, "Nick already in use"):
		if err := s.numeric(errNickCollision, s.currentNick(), "Nickname is already in use"); err != nil {
			return err
		}
		return s.die("nick collision")
	case category == "FYI" && strings.HasPrefix(text, "You are invited to group "):
		group := strings.TrimPrefix(text, "You are invited to group ")
		return s.sendEvent(s.fromServer("INVITE", s.currentNick(), "#"+strings.TrimSpace(group)))
	case category == "RSVP" && strings.HasPrefix(text, "You can now talk in group "):
		group := strings.TrimPrefix(text, "You can now talk in group ")
		return s.sendEvent(s.fromServer("INVITE", s.currentNick(), "#"+strings.TrimSpace(group)))
	}
	return nil
}

// handleErrorEvent maps known ICB error prefixes onto IRC numerics,
// falling back to a raw ERROR line for anything unrecognized.
func (s *Session) handleErrorEvent(frame icbwire.Frame) error {
	text := frame.Field(0)
	switch {
	case strings.Contains(text, "admin"):
		return s.numeric(errNoPrivileges, "Permission Denied- You're not an IRC operator")
	case strings.Contains(text, "not moderator") || strings.Contains(text, "not a moderator"):
		return s.numeric(errChanOPrivsNeeded, "#"+s.icb.State.Group(), "You're not channel operator")
	case strings.Contains(text, "access denied") || strings.Contains(text, "not registered"):
		return s.numeric(errAccessDenied, "Access denied")
	}
	return s.sendEvent(ircErrorEvent(text))
}

func (s *Session) handleOutputEvent(frame icbwire.Frame) error {
	if frame.Field(0) == "co" && !s.icb.State.Joining() {
		return s.sendEvent(s.fromServer("NOTICE", s.currentNick(), frame.Field(1)))
	}
	return nil
}
