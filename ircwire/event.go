// Package ircwire implements the subset of the IRC line protocol this
// bridge speaks: a CRLF-terminated line decoder/encoder producing and
// consuming (prefix, command, params) events.
package ircwire

import (
	"strings"
)

// Event is a single decoded IRC line.
type Event struct {
	Prefix  string // includes the leading ':' when present, else "".
	Command string
	Params  []string
}

// ParseLine parses a single IRC line (without the trailing CRLF) into an
// Event. Leading whitespace has already been stripped by the caller
// (Decoder.Feed). Returns false if the line is empty after trimming.
func ParseLine(line string) (Event, bool) {
	line = strings.TrimLeft(line, " ")
	if line == "" {
		return Event{}, false
	}

	var e Event

	if line[0] == ':' {
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			e.Prefix = line
			line = ""
		} else {
			e.Prefix = line[:sp]
			line = strings.TrimLeft(line[sp+1:], " ")
		}
	}

	if line == "" {
		return Event{}, false
	}

	sp := strings.IndexByte(line, ' ')
	if sp < 0 {
		e.Command = line
		return e, true
	}
	e.Command = line[:sp]
	rest := strings.TrimLeft(line[sp+1:], " ")

	for rest != "" {
		if rest[0] == ':' {
			e.Params = append(e.Params, rest[1:])
			break
		}
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			e.Params = append(e.Params, rest)
			break
		}
		e.Params = append(e.Params, rest[:sp])
		rest = strings.TrimLeft(rest[sp+1:], " ")
	}

	return e, true
}

// Line renders an Event as a wire-ready line, without the trailing CRLF.
// The last param is sent as a trailing (':'-prefixed) parameter if it is
// empty, contains a space, or starts with ':', matching what real IRC
// servers emit.
func (e Event) Line() string {
	var b strings.Builder
	if e.Prefix != "" {
		b.WriteString(e.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(e.Command)
	for i, p := range e.Params {
		b.WriteByte(' ')
		last := i == len(e.Params)-1
		if last && (p == "" || strings.ContainsRune(p, ' ') || strings.HasPrefix(p, ":")) {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}
	return b.String()
}
