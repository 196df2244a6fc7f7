package translate

import "github.com/icb-irc/bridge/icbwire"

// registerParser appends a new stream parser to the FIFO registry
// spec.md §4.4 describes, with an optional completion hook run exactly
// once when the parser first reports itself inactive.
func (s *Session) registerParser(entry parserEntry) {
	s.parsers = append(s.parsers, entry)
}

// feedParsers delivers frame to every active parser, in registration
// order, removing any that report completion and firing their
// completion hook.
func (s *Session) feedParsers(frame icbwire.Frame) {
	if len(s.parsers) == 0 {
		return
	}
	current := s.parsers
	s.parsers = nil
	var live []parserEntry
	for _, entry := range current {
		if entry.p.Feed(frame) {
			live = append(live, entry)
			continue
		}
		if entry.onDone != nil {
			entry.onDone()
		}
	}
	// Parsers registered by a callback during this pass (e.g. the away
	// check a WHOIS match installs) queue behind the surviving ones.
	s.parsers = append(live, s.parsers...)
}
