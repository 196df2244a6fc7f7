package icbclient

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icb-irc/bridge/icbwire"
)

// newTestClient wraps a net.Pipe half so Client can be driven against an
// in-process peer without a real socket.
func newTestClient(t *testing.T) (*Client, net.Conn) {
	t.Helper()
	clientSide, peerSide := net.Pipe()
	return New(clientSide), peerSide
}

func writeFrame(t *testing.T, w io.Writer, typ byte, fields ...string) {
	t.Helper()
	raw, err := icbwire.Encode(typ, fields...)
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
}

func TestLoginSetsNickAndSendsLoginFrame(t *testing.T) {
	c, peer := newTestClient(t)
	defer peer.Close()

	done := make(chan icbwire.Frame, 1)
	go func() {
		r := icbwire.NewReader(peer)
		f, _ := r.ReadFrame()
		done <- f
	}()

	require.NoError(t, c.Login("alice", "alice", "", "", "1.2.3.4"))

	select {
	case f := <-done:
		assert.Equal(t, TypeLogin, f.Type)
		assert.Equal(t, []string{"alice", "alice", "", "login", "", "", "1.2.3.4"}, f.Fields)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for login frame")
	}

	assert.Equal(t, "alice", c.State.Nick())
}

func TestReadAutoPongsOnPing(t *testing.T) {
	c, peer := newTestClient(t)
	defer peer.Close()

	go writeFrame(t, peer, TypePing)

	peerReader := icbwire.NewReader(peer)
	go func() {
		_, _ = c.Read()
	}()

	pong, err := peerReader.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, TypePong, pong.Type)
}

func TestReadClearsJoiningOnPong(t *testing.T) {
	c, peer := newTestClient(t)
	defer peer.Close()

	c.State.SetJoining(true)
	go writeFrame(t, peer, TypePong)

	frame, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, TypePong, frame.Type)
	assert.False(t, c.State.Joining())
}

func TestReadDelegatesStatusAndOutput(t *testing.T) {
	c, peer := newTestClient(t)
	defer peer.Close()

	// The group change makes the client send "w ." and a ping; drain
	// them so the unbuffered pipe does not block Read.
	go func() {
		r := icbwire.NewReader(peer)
		for {
			if _, err := r.ReadFrame(); err != nil {
				return
			}
		}
	}()

	go writeFrame(t, peer, TypeStatus, "Status", "You are now in group chat")

	frame, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeStatus, frame.Type)
	assert.Equal(t, "chat", c.State.Group())
	assert.True(t, c.State.Joining())

	go writeFrame(t, peer, TypeOutput, "co", "Group: chat (prv) Mod: bob   Topic: (None)")

	frame, err = c.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeOutput, frame.Type)
	assert.Equal(t, "prv", c.State.GroupFlags())
}
