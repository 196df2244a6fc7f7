package translate

// IRC numeric reply codes this bridge produces, per spec.md §6's
// enumerated outbound numeric set.
const (
	rplWelcome       = "001"
	rplYourHost      = "002"
	rplMyInfo        = "004"
	rplUmodeIS       = "221"
	rplAway          = "301"
	rplWhoisUser     = "311"
	rplWhoisServer   = "312"
	rplWhoisOperator = "313"
	rplEndOfWho      = "315"
	rplWhoisIdle     = "317"
	rplEndOfWhois    = "318"
	rplChannelModeIS = "324"
	rplNoTopic       = "331"
	rplTopic         = "332"
	rplInviteList    = "346"
	rplEndOfInvite   = "347"
	rplExceptList    = "349"
	rplNamReply      = "353"
	rplEndOfNames    = "366"
	rplEndOfBanList  = "368"
	rplMotD          = "375"
	rplEndOfMotD     = "376"
	errNoSuchNick    = "401"
	errNoSuchChannel = "403"
	errErroneousNick = "432"
	errNickCollision = "436"
	errNeedMoreParams = "461"
	errAlreadyRegistered = "462"
	errNoPrivileges  = "481"
	errChanOPrivsNeeded = "482"
	errAccessDenied  = "465"
	errUsersDontMatch = "502"
)

// numeric sends a single numeric reply, prefixed from the server and
// addressed to the session's current nick, with params appended after
// the nick the way real ircds format replies.
func (s *Session) numeric(code string, params ...string) error {
	all := append([]string{s.currentNick()}, params...)
	return s.sendEvent(s.fromServer(code, all...))
}
