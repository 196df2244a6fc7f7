package parse

import "github.com/icb-irc/bridge/icbwire"

// FindUserParser scans a who-list reply for a single target nick,
// calling onFound and stopping as soon as it appears, or calling
// onNotFound if the list ends without a match. It composes
// WhoListParser rather than duplicating its wire parsing.
type FindUserParser struct {
	inner     *WhoListParser
	target    string
	found     bool
	onFound   func(WhoUser)
	onNotFound func()
}

// NewFindUserParser returns a parser searching for target within a
// who-list reply.
func NewFindUserParser(target string, onFound func(WhoUser), onNotFound func()) *FindUserParser {
	f := &FindUserParser{target: target, onFound: onFound, onNotFound: onNotFound}
	f.inner = NewWhoListParser(f.handleUser, f.handleEnd)
	return f
}

func (f *FindUserParser) handleUser(u WhoUser) {
	if u.Nick != f.target {
		return
	}
	f.found = true
	if f.onFound != nil {
		f.onFound(u)
	}
	f.inner.Stop()
}

func (f *FindUserParser) handleEnd() {
	if !f.found && f.onNotFound != nil {
		f.onNotFound()
	}
}

func (f *FindUserParser) Feed(frame icbwire.Frame) bool {
	return f.inner.Feed(frame)
}

func (f *FindUserParser) Stop() {
	f.inner.Stop()
}
