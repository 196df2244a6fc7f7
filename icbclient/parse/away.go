package parse

import (
	"regexp"

	"github.com/icb-irc/bridge/icbwire"
)

var reAwayNotice = regexp.MustCompile(`^(\S+) is away(?:: (.*))?$`)

// AwayParser scans status messages for an away notification for a
// single target nick, calling onFound with the away text (possibly
// empty) the first time it appears, then terminating. It ignores
// status messages about other nicks rather than treating them as
// terminal, since away notices can be interleaved with unrelated
// status chatter while the query is outstanding.
type AwayParser struct {
	target  string
	done    bool
	onFound func(text string)
}

// NewAwayParser returns a parser watching for target's away notice.
func NewAwayParser(target string, onFound func(text string)) *AwayParser {
	return &AwayParser{target: target, onFound: onFound}
}

func (p *AwayParser) Feed(frame icbwire.Frame) bool {
	if p.done {
		return false
	}
	if frame.Type != statusType {
		return true
	}
	m := reAwayNotice.FindStringSubmatch(frame.Field(1))
	if m == nil || m[1] != p.target {
		return true
	}
	p.done = true
	if p.onFound != nil {
		p.onFound(m[2])
	}
	return false
}

func (p *AwayParser) Stop() {
	p.done = true
}
