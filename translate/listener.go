package translate

import "github.com/icb-irc/bridge/ircwire"

// This file implements state.Listener on *Session: the state-change
// fan-out spec.md §4.5 describes. The callbacks fire synchronously
// inside icbclient.Client.Read, before the caller (Session.readICB)
// observes the frame that triggered them, so IRC traffic produced here
// always precedes any downstream handling of the same ICB message.

// OnFieldChange implements state.Listener.
func (s *Session) OnFieldChange(field, old, new string) {
	switch field {
	case "group":
		if old != "" {
			s.emitPart(old)
		}
	case "joining":
		if old == "true" && new == "false" {
			s.emitPostJoinSequence()
		}
	case "topic":
		if !s.icb.State.Joining() {
			s.emitTopic(new)
		}
	case "nick":
		if !s.icb.State.Joining() && old != "" {
			s.emitNickChange(old, new)
		}
	case "group_status":
		if !s.icb.State.Joining() {
			s.emitModeDiff(old, new)
		}
	case "moderator":
		if !s.icb.State.Joining() {
			s.emitModeratorDiff(old, new)
		}
	}
}

// OnMemberAdded implements state.Listener.
func (s *Session) OnMemberAdded(nick, loginID string) {
	s.memberLogins[nick] = loginID
	if s.icb.State.Joining() || nick == s.icb.State.Nick() {
		return
	}
	s.emitJoin(nick, loginID)
}

// OnMemberRemoved implements state.Listener.
func (s *Session) OnMemberRemoved(nick string) {
	loginID := s.memberLogins[nick]
	delete(s.memberLogins, nick)
	if s.icb.State.Joining() || nick == s.icb.State.Nick() {
		return
	}
	s.emitPartMember(nick, loginID)
}

// OnMemberRenamed implements state.Listener. Self-renames are already
// reported via OnFieldChange("nick", ...); this only covers other
// members.
func (s *Session) OnMemberRenamed(oldNick, newNick string) {
	loginID := s.memberLogins[oldNick]
	delete(s.memberLogins, oldNick)
	s.memberLogins[newNick] = loginID
	// A self-rename has already set the state nick to newNick by now.
	if s.icb.State.Joining() || newNick == s.icb.State.Nick() {
		return
	}
	s.emitMemberNickChange(oldNick, newNick, loginID)
}

// OnMembersCleared implements state.Listener. spec.md §4.5 names no IRC
// effect for a bulk clear: the group change that triggers it already
// produced a PART for the whole old channel.
func (s *Session) OnMembersCleared() {}

func (s *Session) emitPart(group string) {
	_ = s.sendEvent(ircwire.Event{Prefix: s.selfPrefix(), Command: "PART", Params: []string{"#" + group}})
}

func (s *Session) emitPartMember(nick, loginID string) {
	_ = s.sendEvent(ircwire.Event{Prefix: memberPrefix(nick, loginID), Command: "PART", Params: []string{"#" + s.icb.State.Group()}})
}

func (s *Session) emitJoin(nick, loginID string) {
	_ = s.sendEvent(ircwire.Event{Prefix: memberPrefix(nick, loginID), Command: "JOIN", Params: []string{"#" + s.icb.State.Group()}})
}

func (s *Session) emitMemberNickChange(oldNick, newNick, loginID string) {
	_ = s.sendEvent(ircwire.Event{Prefix: memberPrefix(oldNick, loginID), Command: "NICK", Params: []string{newNick}})
}

func (s *Session) emitNickChange(oldNick, newNick string) {
	prefix := memberPrefix(oldNick, s.sess.LoginID)
	s.sess.Nick = newNick
	_ = s.sendEvent(ircwire.Event{Prefix: prefix, Command: "NICK", Params: []string{newNick}})
}

func (s *Session) emitTopic(topic string) {
	if topic == "" {
		_ = s.numeric(rplNoTopic, "#"+s.icb.State.Group(), "No topic is set")
		return
	}
	_ = s.numeric(rplTopic, "#"+s.icb.State.Group(), topic)
}

func (s *Session) emitModeDiff(oldFlags, newFlags string) {
	for _, diff := range diffGroupStatusModes(oldFlags, newFlags) {
		_ = s.sendEvent(s.fromServer("MODE", "#"+s.icb.State.Group(), diff))
	}
}

func (s *Session) emitModeratorDiff(old, new string) {
	channel := "#" + s.icb.State.Group()
	if old != "" {
		_ = s.sendEvent(s.fromServer("MODE", channel, "-o", old))
	}
	if new != "" {
		_ = s.sendEvent(s.fromServer("MODE", channel, "+o", new))
	}
}

// emitPostJoinSequence reproduces spec.md §4.5's post-join sequence: a
// JOIN for the newly completed group, the topic numeral, one 353 line
// per member (channel-type field from group visibility, per-nick "@"
// for the moderator only), and the terminating 366.
func (s *Session) emitPostJoinSequence() {
	group := s.icb.State.Group()
	channel := "#" + group

	_ = s.sendEvent(ircwire.Event{Prefix: s.selfPrefix(), Command: "JOIN", Params: []string{channel}})
	s.emitTopic(s.icb.State.Topic())

	moderator := s.icb.State.Moderator()
	channelType := namesChannelType(s.icb.State.GroupFlags())

	for nick := range s.icb.State.Members() {
		p := ""
		if nick == moderator {
			p = "@"
		}
		_ = s.numeric(rplNamReply, channelType, channel, p+nick)
	}
	_ = s.numeric(rplEndOfNames, channel, "End of NAMES list")
}

// namesChannelType returns the 353 channel-type field spec.md §4.5
// derives from group visibility: "@" for invisible ('i'), "*" for
// secret ('s'), else "=" -- constant across every member line, distinct
// from the per-nick "@" moderator prefix.
func namesChannelType(flags string) string {
	if len(flags) != 3 {
		return "="
	}
	switch flags[1] {
	case 'i':
		return "@"
	case 's':
		return "*"
	default:
		return "="
	}
}

// memberPrefix builds a "nick!~loginid@icb" prefix for a member whose
// real host ICB never reports; "icb" stands in for the unknown host the
// way anonymous ICB members have no network-visible address.
func memberPrefix(nick, loginID string) string {
	if loginID == "" {
		return ":" + nick + "!~unknown@icb"
	}
	return ":" + nick + "!~" + loginID + "@icb"
}
