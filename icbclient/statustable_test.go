package icbclient

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icb-irc/bridge/icbwire"
)

func newUnconnectedClient() *Client {
	a, _ := net.Pipe()
	return New(a)
}

func TestHandleStatusGroupChange(t *testing.T) {
	clientSide, peerSide := net.Pipe()
	defer peerSide.Close()
	c := New(clientSide)
	c.State.AddMember("stale", "stale@host")

	done := make(chan struct{})
	go func() {
		r := icbwire.NewReader(peerSide)
		_, _ = r.ReadFrame() // command "w ."
		_, _ = r.ReadFrame() // ping
		close(done)
	}()

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Status", "You are now in group chat"}})
	<-done

	assert.Equal(t, "chat", c.State.Group())
	assert.Empty(t, c.State.Members())
	assert.True(t, c.State.Joining())
}

func TestHandleNameRenamesSelf(t *testing.T) {
	c := newUnconnectedClient()
	c.State.SetNick("alice")
	c.State.SetRegistered(true)
	c.State.AddMember("alice", "alice@host")

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Name", "alice changed nickname to alyssa"}})

	assert.Equal(t, "alyssa", c.State.Nick())
	assert.False(t, c.State.Registered())
	assert.Equal(t, map[string]string{"alyssa": "alice@host"}, c.State.Members())
}

func TestHandleNameIgnoresOthers(t *testing.T) {
	c := newUnconnectedClient()
	c.State.SetNick("alice")
	c.State.AddMember("bob", "bob@host")

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Name", "bob changed nickname to bobby"}})

	assert.Equal(t, "alice", c.State.Nick())
	assert.Equal(t, map[string]string{"bobby": "bob@host"}, c.State.Members())
}

func TestHandleTopic(t *testing.T) {
	c := newUnconnectedClient()
	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Topic", `alice changed the topic to "lunch plans"`}})
	assert.Equal(t, "lunch plans", c.State.Topic())
}

func TestHandleArrive(t *testing.T) {
	c := newUnconnectedClient()
	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Arrive", "carol (carol@somehost) entered group"}})
	assert.Equal(t, map[string]string{"carol": "carol@somehost"}, c.State.Members())
}

func TestHandleDepartRemovesModeratorOnYourModerator(t *testing.T) {
	c := newUnconnectedClient()
	c.State.SetModerator("bob")
	c.State.AddMember("bob", "bob@host")

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Depart", "Your moderator, bob, has departed"}})

	assert.Equal(t, "", c.State.Moderator())
	assert.NotContains(t, c.State.Members(), "bob")
}

func TestHandleDepartRemovesFirstWordNick(t *testing.T) {
	c := newUnconnectedClient()
	c.State.AddMember("carol", "carol@host")

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Depart", "carol has left"}})

	assert.NotContains(t, c.State.Members(), "carol")
}

func TestHandlePassVariants(t *testing.T) {
	c := newUnconnectedClient()
	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Pass", "alice has passed moderation to bob"}})
	assert.Equal(t, "bob", c.State.Moderator())

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Pass", "carol is now mod"}})
	assert.Equal(t, "carol", c.State.Moderator())

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Pass", "moderation was relinquished"}})
	assert.Equal(t, "", c.State.Moderator())
}

func TestHandleRegister(t *testing.T) {
	c := newUnconnectedClient()
	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Register", "Nick registered successfully"}})
	assert.True(t, c.State.Registered())
}

func TestHandleChangeFlagPositionsAreIsolated(t *testing.T) {
	c := newUnconnectedClient()
	c.State.SetGroupFlags("pvn")

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Change", "bob made group moderated"}})
	assert.Equal(t, "mvn", c.State.GroupFlags())

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Change", "group is now secret"}})
	assert.Equal(t, "msn", c.State.GroupFlags())

	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Change", "group is now public"}})
	assert.Equal(t, "psn", c.State.GroupFlags())
}

func TestHandleChangeRelinquishModeration(t *testing.T) {
	c := newUnconnectedClient()
	c.State.SetModerator("alice")
	processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Change", "alice just relinquished moderation"}})
	assert.Equal(t, "", c.State.Moderator())
}

func TestUnknownCategoryIsIgnored(t *testing.T) {
	c := newUnconnectedClient()
	assert.NotPanics(t, func() {
		processStatus(c, icbwire.Frame{Type: TypeStatus, Fields: []string{"Beep", "boop"}})
	})
}
