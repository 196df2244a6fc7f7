package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icb-irc/bridge/icbwire"
)

func coFrame(text string) icbwire.Frame {
	return icbwire.Frame{Type: 'i', Fields: []string{"co", text}}
}

func TestStatusDumpParserInvitationsAndTalkers(t *testing.T) {
	var invites, talkers []string
	p := NewStatusDumpParser(
		func(name string, isAddress bool) {
			if isAddress {
				invites = append(invites, "addr:"+name)
			} else {
				invites = append(invites, name)
			}
		},
		func(name string, isAddress bool) {
			if isAddress {
				talkers = append(talkers, "addr:"+name)
			} else {
				talkers = append(talkers, name)
			}
		},
	)

	assert.True(t, p.Feed(coFrame("Name: chat Mod: bob")))
	assert.True(t, p.Feed(coFrame("Nicks invited: alice, carol")))
	assert.True(t, p.Feed(coFrame("Talkers: alice, bob")))

	assert.Equal(t, []string{"alice", "carol"}, invites)
	assert.Equal(t, []string{"alice", "bob"}, talkers)

	assert.False(t, p.Feed(icbwire.Frame{Type: 'i', Fields: []string{"wl", "x"}}))
}

func TestStatusDumpParserAddressVariants(t *testing.T) {
	var invites, talkers []string
	p := NewStatusDumpParser(
		func(name string, isAddress bool) { invites = append(invites, name) },
		func(name string, isAddress bool) { talkers = append(talkers, name) },
	)

	p.Feed(coFrame("Addresses invited: 1.2.3.4, 5.6.7.8"))
	p.Feed(coFrame("Talkers (addresses): 1.2.3.4"))

	assert.Equal(t, []string{"1.2.3.4", "5.6.7.8"}, invites)
	assert.Equal(t, []string{"1.2.3.4"}, talkers)
}

func TestStatusDumpParserWrappedContinuationLine(t *testing.T) {
	var invites, talkers []string
	p := NewStatusDumpParser(
		func(name string, isAddress bool) { invites = append(invites, name) },
		func(name string, isAddress bool) { talkers = append(talkers, name) },
	)

	assert.True(t, p.Feed(coFrame("Name: chat Mod: bob")))
	assert.True(t, p.Feed(coFrame("Nicks invited: alice, carol")))
	assert.True(t, p.Feed(coFrame("dave, erin")))
	assert.True(t, p.Feed(coFrame("Talkers: alice")))
	assert.True(t, p.Feed(coFrame("bob, carol")))

	assert.Equal(t, []string{"alice", "carol", "dave", "erin"}, invites)
	assert.Equal(t, []string{"alice", "bob", "carol"}, talkers)
}

func TestStatusDumpParserStop(t *testing.T) {
	p := NewStatusDumpParser(nil, nil)
	p.Stop()
	assert.False(t, p.Feed(coFrame("Name: chat Mod: bob")))
}
