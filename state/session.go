package state

import (
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// AwayTTL is the lifetime of a cached away-text entry before a fresh
// WHOIS must re-query the upstream.
const AwayTTL = 120 * time.Second

// AwayEntry is a cached away-text result for a single nick.
type AwayEntry struct {
	At   time.Time
	Text string
}

// Session is the per-IRC-connection record: the negotiated identity plus
// a short-lived away-text cache. It is created once NICK+USER both land
// and torn down when either socket closes.
type Session struct {
	Nick      string
	LoginID   string
	Host      string
	SessionID string

	away *cache.Cache
}

// NewSession returns a Session with a freshly minted opaque session_id
// and an empty away cache, mirroring the teacher's use of
// github.com/patrickmn/go-cache for other short-TTL lookups (auth
// cookies, ICBM conversation windows).
func NewSession(nick, loginID, host string) *Session {
	return &Session{
		Nick:      nick,
		LoginID:   loginID,
		Host:      host,
		SessionID: uuid.NewString(),
		away:      cache.New(AwayTTL, 2*AwayTTL),
	}
}

// AwayText returns the cached away text for nick if it was stored within
// the last AwayTTL, and whether it was found.
func (s *Session) AwayText(nick string) (string, bool) {
	v, ok := s.away.Get(nick)
	if !ok {
		return "", false
	}
	entry := v.(AwayEntry)
	return entry.Text, true
}

// CacheAwayText records away text for nick with the standard TTL.
func (s *Session) CacheAwayText(nick, text string) {
	s.away.Set(nick, AwayEntry{At: time.Now(), Text: text}, AwayTTL)
}
