package icbclient

import (
	"regexp"
	"strings"

	"github.com/icb-irc/bridge/icbwire"
)

// statusRule is one row of the regex-driven status table spec.md §9
// calls out as "the protocol contract, fragile and worth isolating":
// ICB embeds structured state-change notifications in human-readable
// status text, and each category gets its own handler here rather than
// a generic parser.
type statusRule struct {
	category string
	handle   func(c *Client, text string)
}

var (
	reYouAreNowInGroup  = regexp.MustCompile(`^You are now in group (.+)$`)
	reChangedNickname   = regexp.MustCompile(`^(\S+) changed nickname to (\S+)$`)
	reChangedTopic      = regexp.MustCompile(`changed the topic to "(.*)"$`)
	reSignOnArrive      = regexp.MustCompile(`^(\S+) \((.+)\)`)
	rePassedModeration  = regexp.MustCompile(`^(\S+) has passed moderation to (\S+)`)
	reIsNowMod          = regexp.MustCompile(`^(\S+) is now mod`)
	reMadeGroup         = regexp.MustCompile(`made group (\w+)`)
	reIsNow             = regexp.MustCompile(`is now (\w+)`)
)

var statusRules = []statusRule{
	{"Status", handleStatus},
	{"Name", handleName},
	{"Topic", handleTopic},
	{"Sign-on", handleArrive},
	{"Arrive", handleArrive},
	{"Sign-off", handleDepart},
	{"Depart", handleDepart},
	{"Pass", handlePass},
	{"Register", handleRegister},
	{"Change", handleChange},
}

// processStatus dispatches a type-d status message to its category's
// handler, matched against fields[0].
func processStatus(c *Client, frame icbwire.Frame) {
	category := frame.Field(0)
	text := frame.Field(1)
	for _, rule := range statusRules {
		if rule.category == category {
			rule.handle(c, text)
			return
		}
	}
}

func handleStatus(c *Client, text string) {
	m := reYouAreNowInGroup.FindStringSubmatch(text)
	if m == nil {
		return
	}
	c.State.SetGroup(m[1])
	c.State.ClearMembers()
	_ = c.Command("w", ".")
	_ = c.Ping()
	c.State.SetJoining(true)
}

func handleName(c *Client, text string) {
	m := reChangedNickname.FindStringSubmatch(text)
	if m == nil {
		return
	}
	oldNick, newNick := m[1], m[2]
	if oldNick == c.State.Nick() {
		c.State.SetNick(newNick)
		c.State.SetRegistered(false)
	}
	c.State.RenameMember(oldNick, newNick)
}

func handleTopic(c *Client, text string) {
	m := reChangedTopic.FindStringSubmatch(text)
	if m == nil {
		return
	}
	c.State.SetTopic(m[1])
}

func handleArrive(c *Client, text string) {
	m := reSignOnArrive.FindStringSubmatch(text)
	if m == nil {
		return
	}
	c.State.AddMember(m[1], m[2])
}

func handleDepart(c *Client, text string) {
	if strings.HasPrefix(text, "Your moderator") {
		if mod := c.State.Moderator(); mod != "" {
			c.State.RemoveMember(mod)
		}
		c.State.SetModerator("")
		return
	}
	fields := strings.Fields(text)
	if len(fields) > 0 {
		c.State.RemoveMember(fields[0])
	}
}

func handlePass(c *Client, text string) {
	if m := rePassedModeration.FindStringSubmatch(text); m != nil {
		c.State.SetModerator(m[2])
		return
	}
	if m := reIsNowMod.FindStringSubmatch(text); m != nil {
		c.State.SetModerator(m[1])
		return
	}
	c.State.SetModerator("")
}

func handleRegister(c *Client, text string) {
	if strings.HasPrefix(text, "Nick registered") {
		c.State.SetRegistered(true)
	}
}

// flagPosition reports which slot of the 3-char <control><visibility><volume>
// group status string the flag letter c belongs to, and whether it is a
// recognized flag letter at all.
func flagPosition(c byte) (pos int, ok bool) {
	switch c {
	case 'v', 's', 'i':
		return 1, true
	case 'p', 'm', 'r', 'c':
		return 0, true
	case 'q', 'n', 'l':
		return 2, true
	default:
		return 0, false
	}
}

func handleChange(c *Client, text string) {
	var word string
	switch {
	case strings.Contains(text, "now public"):
		word = "public"
	default:
		if m := reMadeGroup.FindStringSubmatch(text); m != nil {
			word = m[1]
		} else if m := reIsNow.FindStringSubmatch(text); m != nil {
			word = m[1]
		}
	}
	if word != "" {
		if pos, ok := flagPosition(word[0]); ok {
			c.State.SetGroupFlagChar(pos, word[0])
		}
	}
	if strings.Contains(text, "just relinquished moderation") {
		c.State.SetModerator("")
	}
}
