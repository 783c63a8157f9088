package domain

// Session is resolved once per request and handed to every renderer.
// An empty token means "not authenticated"; the backend is authoritative
// about whether a present token is still valid.
type Session struct {
	Token string
}

func (s Session) Authenticated() bool { return s.Token != "" }
