// Package parse implements the composable ICB stream parsers spec.md
// §4.4 describes: short-lived state machines fed successive ICB output
// (type i) and status (type d) messages that reassemble a multi-line
// reply into one structured result.
//
// Per spec.md §9 ("Stream parsers as tagged state machines"), each
// parser is an explicit enum-tagged state machine rather than a
// duck-typed subclass, and a parser registry is just a FIFO slice of
// Parser values the translator owns.
package parse

import "github.com/icb-irc/bridge/icbwire"

// ICB frame type characters the parsers in this package match against.
// Mirrors icbclient's constants of the same names; duplicated here (as
// plain bytes, not re-exported) so this package has no import-cycle
// dependency back on icbclient.
const (
	outputType byte = 'i'
	statusType byte = 'd'
)

// Parser is fed every ICB output/status message in order. Feed returns
// true while the parser is still active; once it returns false the
// translator removes it from its FIFO registry.
type Parser interface {
	Feed(frame icbwire.Frame) bool
	// Stop forces immediate termination, e.g. once a WHOIS target has
	// been found and the rest of a who-list reply can be discarded.
	Stop()
}

// State tags a parser's position in its lifecycle.
type State int

const (
	Waiting State = iota
	Started
	ReadingInvitations
	ReadingTalkers
	Completed
)
