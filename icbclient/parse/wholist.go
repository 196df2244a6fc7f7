package parse

import (
	"strconv"

	"github.com/icb-irc/bridge/icbwire"
)

// WhoUser is one entry of a who-list reply.
type WhoUser struct {
	IsMod       bool
	Nick        string
	IdleSeconds int
	LoginID     string
	Host        string
	StatusFlags string
}

// WhoListParser wraps repeated "i wl" messages, the reply to an ICB `w`
// command, emitting one WhoUser per line and calling onEnd once a
// non-"wl" message arrives. The contract is inferred from its use in
// WHOIS handling (through FindUserParser), per spec.md §9's open
// question about the unseen ListParser base this was adapted from.
type WhoListParser struct {
	done    bool
	onUser  func(WhoUser)
	onEnd   func()
}

// NewWhoListParser returns a parser that calls onUser per who-list
// entry and onEnd when the list is exhausted.
func NewWhoListParser(onUser func(WhoUser), onEnd func()) *WhoListParser {
	return &WhoListParser{onUser: onUser, onEnd: onEnd}
}

func (p *WhoListParser) Feed(frame icbwire.Frame) bool {
	if p.done {
		return false
	}
	if frame.Type != outputType || frame.Field(0) != "wl" {
		p.end()
		return false
	}

	nick := frame.Field(2)
	if nick == "" {
		p.end()
		return false
	}

	idle, _ := strconv.Atoi(frame.Field(3))
	user := WhoUser{
		IsMod:       frame.Field(1) == "*",
		Nick:        nick,
		IdleSeconds: idle,
		LoginID:     frame.Field(6),
		Host:        frame.Field(7),
		StatusFlags: frame.Field(8),
	}
	if p.onUser != nil {
		p.onUser(user)
	}
	// onUser may have stopped the parser (FindUserParser does once its
	// target is found); report it inactive in that case.
	return !p.done
}

func (p *WhoListParser) Stop() {
	p.end()
}

func (p *WhoListParser) end() {
	if p.done {
		return
	}
	p.done = true
	if p.onEnd != nil {
		p.onEnd()
	}
}
