package translate

import (
	"strconv"
	"strings"

	"github.com/icb-irc/bridge/icbclient/parse"
	"github.com/icb-irc/bridge/ircwire"
)

// maxChunkLen is the per-message chunk size spec.md §4.5 mandates for
// PRIVMSG payloads, matching ICB's short-line wire convention.
const maxChunkLen = 200

// handleIRCEvent dispatches one decoded IRC line, branching on whether
// registration has completed.
func (s *Session) handleIRCEvent(ev ircwire.Event) error {
	if s.sess == nil {
		return s.handlePreLoginEvent(ev)
	}
	return s.handlePostLoginEvent(ev)
}

// handlePostLoginEvent implements the dispatch table spec.md §4.5 lists
// for the post-login phase. Unknown commands are silently ignored.
func (s *Session) handlePostLoginEvent(ev ircwire.Event) error {
	switch strings.ToUpper(ev.Command) {
	case "PING":
		return s.handlePing(ev)
	case "NICK":
		return s.handlePostLoginNick(ev)
	case "JOIN":
		return s.handleJoin(ev)
	case "PRIVMSG":
		return s.handlePrivmsg(ev)
	case "TOPIC":
		return s.handleTopicCmd(ev)
	case "MODE":
		return s.handleMode(ev)
	case "WHO":
		return s.handleWho(ev)
	case "WHOIS":
		return s.handleWhois(ev)
	case "QUIT":
		_ = s.icb.Quit()
		return s.die("client quit")
	}
	return nil
}

func (s *Session) handlePing(ev ircwire.Event) error {
	return s.sendEvent(s.fromServer("PONG", s.serverHost))
}

func (s *Session) handlePostLoginNick(ev ircwire.Event) error {
	if len(ev.Params) < 1 {
		return s.numeric(errNeedMoreParams, "NICK", "Not enough parameters")
	}
	nick := ev.Params[0]
	if !nickPattern.MatchString(nick) {
		return s.numeric(errErroneousNick, nick, "Erroneous nickname")
	}
	return s.icb.Command("name", nick)
}

func (s *Session) handleJoin(ev ircwire.Event) error {
	if len(ev.Params) < 1 {
		return s.numeric(errNeedMoreParams, "JOIN", "Not enough parameters")
	}
	group := strings.TrimPrefix(ev.Params[0], "#")
	if !nickPattern.MatchString(group) {
		return s.numeric(errNoSuchChannel, ev.Params[0], "No such channel")
	}
	return s.icb.Command("g", group)
}

func (s *Session) handlePrivmsg(ev ircwire.Event) error {
	if len(ev.Params) < 2 {
		return s.numeric(errNeedMoreParams, "PRIVMSG", "Not enough parameters")
	}
	target := ev.Params[0]
	text := ev.Params[1]

	for _, chunk := range chunkText(text, maxChunkLen) {
		if strings.HasPrefix(target, "#") {
			if err := s.icb.Open(chunk); err != nil {
				return err
			}
			continue
		}
		// spec.md §9: the intended behavior for a private PRIVMSG is to
		// send each chunk individually as `m <receiver> <chunk>`, not
		// the whole message repeated per chunk.
		if err := s.icb.Command("m", target+" "+chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) handleTopicCmd(ev ircwire.Event) error {
	if len(ev.Params) < 2 {
		return s.numeric(errNeedMoreParams, "TOPIC", "Not enough parameters")
	}
	return s.icb.Command("topic", ev.Params[1])
}

func (s *Session) handleMode(ev ircwire.Event) error {
	if len(ev.Params) < 1 {
		return s.numeric(errNeedMoreParams, "MODE", "Not enough parameters")
	}
	target := ev.Params[0]

	if !strings.HasPrefix(target, "#") {
		return s.handleUserMode(target, ev.Params[1:])
	}

	if len(ev.Params) < 2 {
		return s.numeric(rplChannelModeIS, target, mapGroupStatus(s.icb.State.GroupFlags()))
	}

	switch ev.Params[1] {
	case "+b":
		return s.numeric(rplEndOfBanList, target, "End of channel ban list")
	case "+e":
		return s.numeric(rplExceptList, target, "End of channel exception list")
	case "+I":
		return s.queryInviteList(target)
	}
	return nil
}

func (s *Session) handleUserMode(target string, rest []string) error {
	if target == s.currentNick() {
		return s.numeric(rplUmodeIS, "+i")
	}
	return s.numeric(errUsersDontMatch, "Cannot change mode for other users")
}

// queryInviteList installs a StatusDumpParser to answer MODE #chan +I,
// translating invitations/talkers into 346/347 per spec.md §6's
// outbound numeric set.
func (s *Session) queryInviteList(channel string) error {
	onEntry := func(name string, isAddress bool) {
		_ = s.numeric(rplInviteList, channel, name)
	}
	p := parse.NewStatusDumpParser(onEntry, onEntry)
	s.registerParser(parserEntry{
		p: p,
		onDone: func() {
			_ = s.numeric(rplEndOfInvite, channel, "End of channel invite list")
		},
	})
	return s.icb.Command("status", "")
}

func (s *Session) handleWho(ev ircwire.Event) error {
	pattern := "*"
	if len(ev.Params) > 0 {
		pattern = ev.Params[0]
	}
	return s.numeric(rplEndOfWho, pattern, "End of WHO list")
}

// handleWhois installs a FindUserParser atop a `w` command, reporting
// whois numerics on a match and an away check once found, per spec.md
// §4.5's WHOIS row.
func (s *Session) handleWhois(ev ircwire.Event) error {
	if len(ev.Params) < 1 {
		return s.numeric(errNeedMoreParams, "WHOIS", "Not enough parameters")
	}
	target := ev.Params[0]

	onFound := func(u parse.WhoUser) {
		_ = s.numeric(rplWhoisUser, u.Nick, "~"+u.LoginID, u.Host, "*", u.Nick)
		_ = s.numeric(rplWhoisServer, u.Nick, s.icbAddr, "ICB upstream server")
		if u.IsMod {
			_ = s.numeric(rplWhoisOperator, u.Nick, "is a channel moderator")
		}
		_ = s.numeric(rplWhoisIdle, u.Nick, strconv.Itoa(u.IdleSeconds), "seconds idle")
		if strings.Contains(u.StatusFlags, "aw") {
			s.checkAway(u.Nick)
			return
		}
		s.endOfWhois(u.Nick, "")
	}
	onNotFound := func() {
		_ = s.numeric(errNoSuchNick, target, "No such nick")
	}

	p := parse.NewFindUserParser(target, onFound, onNotFound)
	s.registerParser(parserEntry{p: p})
	return s.icb.Command("w", "")
}

// endOfWhois emits the 301 away reply, if text is set, then the
// terminal 318 -- the ordering spec.md §8 scenario 4 and the source's
// __end_of_whois__ both require, since 318 must only follow a resolved
// away check rather than race ahead of it.
func (s *Session) endOfWhois(nick, text string) {
	if text != "" {
		_ = s.numeric(rplAway, nick, text)
	}
	_ = s.numeric(rplEndOfWhois, nick, "End of WHOIS list")
}

// checkAway answers the away half of WHOIS, only called for a target
// whose status flags include "aw". A cache hit resolves immediately
// with no upstream traffic (spec.md §8 scenario 4); a miss pages the
// user with `beep` and installs an AwayParser that caches and reports
// whatever away notice ICB sends back in response. Either path ends by
// calling endOfWhois so 318 only follows a resolved away check.
func (s *Session) checkAway(nick string) {
	if text, ok := s.sess.AwayText(nick); ok {
		s.endOfWhois(nick, text)
		return
	}

	onFound := func(text string) {
		s.sess.CacheAwayText(nick, text)
		s.endOfWhois(nick, text)
	}
	p := parse.NewAwayParser(nick, onFound)
	s.registerParser(parserEntry{p: p})
	_ = s.icb.Command("beep", nick)
}

// chunkText splits text into runs of at most n bytes, matching the
// PRIVMSG chunking spec.md §4.5 requires for both open and personal
// messages.
func chunkText(text string, n int) []string {
	if text == "" {
		return []string{""}
	}
	var chunks []string
	for len(text) > n {
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
