package bridge

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icb-irc/bridge/config"
)

func TestIcbDialAddrStripsScheme(t *testing.T) {
	assert.Equal(t, "icb.example.org:7326", icbDialAddr("tcp://icb.example.org:7326"))
	assert.Equal(t, "icb.example.org:7326", icbDialAddr("icb.example.org:7326"))
}

func TestServerListenTCP(t *testing.T) {
	s := NewServer(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ln, err := s.listen(config.Binding{Scheme: "tcp", Address: "127.0.0.1:0"})
	require.NoError(t, err)
	defer ln.Close()
	assert.NotEmpty(t, ln.Addr().String())
}

func TestServerListenTLSMissingCertFails(t *testing.T) {
	s := NewServer(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := s.listen(config.Binding{Scheme: "tcps", Address: "127.0.0.1:0", Cert: "/no/such/cert.pem", Key: "/no/such/key.pem"})
	assert.Error(t, err)
}

func TestServerAcceptsAndShutsDownGracefully(t *testing.T) {
	icbLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer icbLn.Close()
	go func() {
		for {
			conn, err := icbLn.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	cfg := &config.Config{
		ServerHostname: "irc.example.org",
		Bindings:       []string{"tcp://127.0.0.1:0"},
		ICBEndpoint:    "tcp://" + icbLn.Addr().String(),
	}
	s := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- s.ListenAndServe() }()

	// Give the accept loop a moment to start before shutting down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-serveErrCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe did not return after Shutdown")
	}
}
