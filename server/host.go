package main

// HostAuthority tracks the one session allowed to control the match
type HostAuthority struct {
	hostID string
}

// Current returns the host session id, "" when nobody holds authority
func (h *HostAuthority) Current() string {
	return h.hostID
}

// IsHost reports whether id currently holds authority
func (h *HostAuthority) IsHost(id string) bool {
	return h.hostID != "" && id == h.hostID
}

// Claim grants authority to id if nobody holds it. Returns true when id is
// now the host.
func (h *HostAuthority) Claim(id string) bool {
	if h.hostID == "" {
		h.hostID = id
	}
	return h.hostID == id
}

// Release handles the departure of id. If it was the host, authority moves to
// the first of remaining (earliest connected first) or becomes unset.
// Returns the new host and whether authority changed hands.
func (h *HostAuthority) Release(id string, remaining []string) (string, bool) {
	if !h.IsHost(id) {
		return h.hostID, false
	}
	h.hostID = ""
	for _, next := range remaining {
		if next != id {
			h.hostID = next
			break
		}
	}
	return h.hostID, true
}

// Authorize checks a privileged command. The connection itself must be the
// host, and a player id written into the message, if any, must agree.
func (h *HostAuthority) Authorize(sessionID, claimed string) bool {
	if !h.IsHost(sessionID) {
		return false
	}
	return claimed == "" || claimed == sessionID
}

// privilegedClaim returns the player id a host-only intent names. ok is false
// for intents any session may send.
func privilegedClaim(in Intent) (claimed string, ok bool) {
	switch v := in.(type) {
	case RestartIntent:
		return v.PlayerID, true
	case StartIntent:
		return v.PlayerID, true
	case AddBotIntent:
		return v.PlayerID, true
	case RemoveBotIntent:
		return v.PlayerID, true
	case JoinIntent, InputIntent:
		return "", false
	}
	return "", false
}

// electHost runs the first-connect rule for a newly opened session and tells
// it where authority lies.
func (g *Game) electHost(s Session) {
	if g.host.Claim(s.ID()) {
		g.log.Info().Str("session", s.ID()).Msg("session is the new host")
		g.sendTo(s, hostStatusMsg(true, ""))
		return
	}
	g.sendTo(s, hostStatusMsg(false, g.host.Current()))
}

// failoverHost moves authority away from a departing session
func (g *Game) failoverHost(leaving string) {
	newHost, changed := g.host.Release(leaving, g.sessionOrder)
	if !changed {
		return
	}
	if newHost == "" {
		g.log.Info().Str("previous", leaving).Msg("no session left to hold host authority")
		return
	}
	name := ""
	if p := g.roster.Get(newHost); p != nil {
		name = p.Name
	}
	g.log.Info().Str("previous", leaving).Str("host", newHost).Msg("host authority transferred")
	if s, ok := g.sessions[newHost]; ok {
		g.sendTo(s, hostStatusMsg(true, ""))
	}
	g.broadcast(hostChangedMsg(newHost, name))
}
