package state

import "sync"

// GroupState is the per-session ICB state owned by the ICB client: current
// group, group flags, moderator, topic, membership, and self nick. It
// fans out every mutation to its registered Listeners.
//
// GroupState does not retain its listeners beyond the lifetime callers
// give it: listeners are stored as plain interface values, not owned
// objects, so the translator that both owns the ICB client and listens
// to it does not create a reference cycle that matters to a garbage
// collected runtime -- unlike the reference-counted source this was
// adapted from, there's nothing to break here. Listeners cannot be
// removed once added.
type GroupState struct {
	mu sync.RWMutex

	nick       string
	registered bool
	joining    bool
	group      string
	groupFlags string // 3-char <control><visibility><volume>, or "" if unset
	moderator  string
	topic      string
	members    map[string]string // nick -> loginid

	listeners []Listener
}

// NewGroupState returns an empty GroupState.
func NewGroupState() *GroupState {
	return &GroupState{
		members: make(map[string]string),
	}
}

// AddListener registers a listener for future state changes.
func (g *GroupState) AddListener(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

func (g *GroupState) notifyField(field, old, newVal string) {
	if old == newVal {
		return
	}
	for _, l := range g.listeners {
		l.OnFieldChange(field, old, newVal)
	}
}

// Nick returns the current ICB nickname.
func (g *GroupState) Nick() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nick
}

// SetNick sets the ICB nickname, firing OnFieldChange("nick", ...) if it
// changed.
func (g *GroupState) SetNick(nick string) {
	g.mu.Lock()
	old := g.nick
	g.nick = nick
	g.mu.Unlock()
	g.notifyField("nick", old, nick)
}

// Registered reports whether the current nick is registered server-side.
func (g *GroupState) Registered() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.registered
}

// SetRegistered sets the registration flag.
func (g *GroupState) SetRegistered(v bool) {
	g.mu.Lock()
	old := g.registered
	g.registered = v
	g.mu.Unlock()
	g.notifyField("registered", boolStr(old), boolStr(v))
}

// Joining reports whether a group snapshot is currently in flight.
func (g *GroupState) Joining() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.joining
}

// SetJoining sets the joining flag.
func (g *GroupState) SetJoining(v bool) {
	g.mu.Lock()
	old := g.joining
	g.joining = v
	g.mu.Unlock()
	g.notifyField("joining", boolStr(old), boolStr(v))
}

// Group returns the current group name, or "" if none.
func (g *GroupState) Group() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.group
}

// SetGroup sets the current group name.
func (g *GroupState) SetGroup(name string) {
	g.mu.Lock()
	old := g.group
	g.group = name
	g.mu.Unlock()
	g.notifyField("group", old, name)
}

// GroupFlags returns the 3-character group status string, or "" if
// unset.
func (g *GroupState) GroupFlags() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.groupFlags
}

// SetGroupFlags overwrites the whole 3-character group status string.
// Panics if flags is non-empty and not exactly 3 characters, preserving
// the invariant in spec.md §3.
func (g *GroupState) SetGroupFlags(flags string) {
	if flags != "" && len(flags) != 3 {
		panic("state: group_status must be exactly 3 characters")
	}
	g.mu.Lock()
	old := g.groupFlags
	g.groupFlags = flags
	g.mu.Unlock()
	g.notifyField("group_status", old, flags)
}

// SetGroupFlagChar replaces one character of the 3-character group
// status string by position (0=control, 1=visibility, 2=volume),
// initializing the string to "???" first if it is unset.
func (g *GroupState) SetGroupFlagChar(pos int, c byte) {
	g.mu.Lock()
	old := g.groupFlags
	buf := []byte(g.groupFlags)
	if len(buf) != 3 {
		buf = []byte("???")
	}
	buf[pos] = c
	g.groupFlags = string(buf)
	newVal := g.groupFlags
	g.mu.Unlock()
	g.notifyField("group_status", old, newVal)
}

// Moderator returns the current moderator's nick, or "" if none.
func (g *GroupState) Moderator() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.moderator
}

// SetModerator sets the current moderator.
func (g *GroupState) SetModerator(nick string) {
	g.mu.Lock()
	old := g.moderator
	g.moderator = nick
	g.mu.Unlock()
	g.notifyField("moderator", old, nick)
}

// Topic returns the current group topic, or "" if none.
func (g *GroupState) Topic() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.topic
}

// SetTopic sets the current group topic.
func (g *GroupState) SetTopic(topic string) {
	g.mu.Lock()
	old := g.topic
	g.topic = topic
	g.mu.Unlock()
	g.notifyField("topic", old, topic)
}

// Members returns a snapshot copy of the nick -> loginid membership map.
func (g *GroupState) Members() map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]string, len(g.members))
	for k, v := range g.members {
		out[k] = v
	}
	return out
}

// AddMember adds or overwrites a member, firing OnMemberAdded if nick was
// not already present.
func (g *GroupState) AddMember(nick, loginID string) {
	g.mu.Lock()
	_, existed := g.members[nick]
	g.members[nick] = loginID
	listeners := g.listeners
	g.mu.Unlock()

	if !existed {
		for _, l := range listeners {
			l.OnMemberAdded(nick, loginID)
		}
	}
}

// RemoveMember removes a member by nick, firing OnMemberRemoved if it was
// present.
func (g *GroupState) RemoveMember(nick string) {
	g.mu.Lock()
	_, existed := g.members[nick]
	delete(g.members, nick)
	listeners := g.listeners
	g.mu.Unlock()

	if existed {
		for _, l := range listeners {
			l.OnMemberRemoved(nick)
		}
	}
}

// RenameMember re-keys a member from oldNick to newNick, preserving its
// loginid. No-op if oldNick is not a member.
func (g *GroupState) RenameMember(oldNick, newNick string) {
	g.mu.Lock()
	loginID, existed := g.members[oldNick]
	if existed {
		delete(g.members, oldNick)
		g.members[newNick] = loginID
	}
	listeners := g.listeners
	g.mu.Unlock()

	if existed {
		for _, l := range listeners {
			l.OnMemberRenamed(oldNick, newNick)
		}
	}
}

// ClearMembers empties the membership map, firing OnMembersCleared if it
// was non-empty.
func (g *GroupState) ClearMembers() {
	g.mu.Lock()
	hadMembers := len(g.members) > 0
	g.members = make(map[string]string)
	listeners := g.listeners
	g.mu.Unlock()

	if hadMembers {
		for _, l := range listeners {
			l.OnMembersCleared()
		}
	}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
