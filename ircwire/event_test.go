package ircwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Event
	}{
		{
			name: "simple command no params",
			in:   "PING",
			want: Event{Command: "PING"},
		},
		{
			name: "command with params",
			in:   "JOIN #chat",
			want: Event{Command: "JOIN", Params: []string{"#chat"}},
		},
		{
			name: "prefix and trailing param",
			in:   ":alice!~alice@host PRIVMSG #chat :hello there friend",
			want: Event{
				Prefix:  ":alice!~alice@host",
				Command: "PRIVMSG",
				Params:  []string{"#chat", "hello there friend"},
			},
		},
		{
			name: "trailing param that starts with colon content",
			in:   "USER alice 0 * :Alice Anderson",
			want: Event{
				Command: "USER",
				Params:  []string{"alice", "0", "*", "Alice Anderson"},
			},
		},
		{
			name: "leading whitespace stripped",
			in:   "  NICK bob",
			want: Event{Command: "NICK", Params: []string{"bob"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLine(tc.in)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLineEmpty(t *testing.T) {
	_, ok := ParseLine("")
	assert.False(t, ok)

	_, ok = ParseLine("   ")
	assert.False(t, ok)
}

func TestDecoderFeedAcrossWrites(t *testing.T) {
	d := NewDecoder(nil)

	var got []Event
	got = append(got, d.Feed([]byte("NICK ali"))...)
	got = append(got, d.Feed([]byte("ce\r\nUSER alice 0 * :a\r\n"))...)

	assert.Len(t, got, 2)
	assert.Equal(t, "NICK", got[0].Command)
	assert.Equal(t, []string{"alice"}, got[0].Params)
	assert.Equal(t, "USER", got[1].Command)
}

func TestDecoderDropsEmptyLines(t *testing.T) {
	d := NewDecoder(nil)
	got := d.Feed([]byte("\r\n\r\nPING\r\n"))
	assert.Len(t, got, 1)
	assert.Equal(t, "PING", got[0].Command)
}

func TestDecoderDropsInvalidUTF8(t *testing.T) {
	d := NewDecoder(nil)
	bad := append([]byte("PRIVMSG #chat :"), 0xff, 0xfe)
	got := d.Feed(append(bad, []byte("\r\nPING\r\n")...))
	assert.Len(t, got, 1)
	assert.Equal(t, "PING", got[0].Command)
}

func TestEventLineRoundTrip(t *testing.T) {
	e := Event{Prefix: ":server", Command: "001", Params: []string{"alice", "Welcome"}}
	line := e.Line()
	reparsed, ok := ParseLine(line)
	assert.True(t, ok)
	assert.Equal(t, e, reparsed)
}
