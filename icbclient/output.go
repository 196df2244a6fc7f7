package icbclient

import (
	"regexp"

	"github.com/icb-irc/bridge/icbwire"
)

var reGroupStatusLine = regexp.MustCompile(`^Group: (\S+)\s+\((\w{3})\) Mod: (\S+)\s+Topic: (.*)$`)

// processOutput applies the built-in handling for type-i output messages
// described in spec.md §4.3: the "co" status-dump line and "wl"
// who-list lines are only consumed here while a group change is in
// flight (State.Joining()); once the snapshot is complete (the type-m
// pong that follows the who-list), further output is left untouched for
// the translator and any registered stream parsers to consume.
func processOutput(c *Client, frame icbwire.Frame) {
	if !c.State.Joining() {
		return
	}

	switch frame.Field(0) {
	case "co":
		m := reGroupStatusLine.FindStringSubmatch(frame.Field(1))
		if m == nil {
			return
		}
		c.State.SetGroupFlags(m[2])
		mod := m[3]
		if mod == "(None)" {
			mod = ""
		}
		c.State.SetModerator(mod)
		topic := m[4]
		if topic == "(None)" {
			topic = ""
		}
		c.State.SetTopic(topic)
	case "wl":
		nick := frame.Field(2)
		if nick == "" {
			return
		}
		loginID := frame.Field(6) + "@" + frame.Field(7)
		c.State.AddMember(nick, loginID)
	}
}
