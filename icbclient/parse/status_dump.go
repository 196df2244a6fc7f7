package parse

import (
	"regexp"
	"strings"

	"github.com/icb-irc/bridge/icbwire"
)

var reStatusDumpName = regexp.MustCompile(`^Name: \S+ Mod:`)

// StatusDumpParser reassembles the multi-line "d Status" dump ICB sends
// over consecutive "i co" messages in response to a status query: a
// header line, then an invited-nicks or invited-addresses line, then a
// talkers line. A fresh "Name:" header restarts a new group block (ICB
// can report on several groups in one status query); any non-"i co"
// message ends the parser.
type StatusDumpParser struct {
	state State
	// isAddress remembers the label of the list currently being read,
	// since a wrapped continuation line carries no label of its own.
	isAddress bool

	onInvitation func(name string, isAddress bool)
	onTalker     func(name string, isAddress bool)
}

// NewStatusDumpParser returns a parser that calls onInvitation for each
// invited nick/address and onTalker for each talker nick/address found
// in the dump.
func NewStatusDumpParser(onInvitation, onTalker func(name string, isAddress bool)) *StatusDumpParser {
	return &StatusDumpParser{onInvitation: onInvitation, onTalker: onTalker}
}

func (p *StatusDumpParser) Feed(frame icbwire.Frame) bool {
	if p.state == Completed {
		return false
	}
	if frame.Type != outputType || frame.Field(0) != "co" {
		p.state = Completed
		return false
	}

	text := frame.Field(1)
	switch {
	case reStatusDumpName.MatchString(text):
		p.state = Started
	case strings.HasPrefix(text, "Addresses invited"):
		p.state = ReadingInvitations
		p.isAddress = true
		emitNames(text, true, p.onInvitation)
	case strings.HasPrefix(text, "Nicks invited"):
		p.state = ReadingInvitations
		p.isAddress = false
		emitNames(text, false, p.onInvitation)
	case strings.HasPrefix(text, "Talkers (addresses)"):
		p.state = ReadingTalkers
		p.isAddress = true
		emitNames(text, true, p.onTalker)
	case strings.HasPrefix(text, "Talkers"):
		p.state = ReadingTalkers
		p.isAddress = false
		emitNames(text, false, p.onTalker)
	case p.state == ReadingInvitations:
		// ICB wraps long invitation lists across several "i co"
		// messages; a line that matches none of the labels above while
		// still reading invitations is a bare continuation of the
		// current comma-separated list.
		emitNames(":"+text, p.isAddress, p.onInvitation)
	case p.state == ReadingTalkers:
		emitNames(":"+text, p.isAddress, p.onTalker)
	}
	return true
}

func (p *StatusDumpParser) Stop() {
	p.state = Completed
}

// emitNames splits the comma-separated name list that follows the first
// colon in a "Nicks invited: alice, bob" style line and invokes emit for
// each.
func emitNames(text string, isAddress bool, emit func(name string, isAddress bool)) {
	if emit == nil {
		return
	}
	i := strings.IndexByte(text, ':')
	if i < 0 {
		return
	}
	for _, name := range strings.Split(text[i+1:], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			emit(name, isAddress)
		}
	}
}
