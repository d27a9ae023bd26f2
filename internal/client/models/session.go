package models

// Session is the client's in-memory view of its authenticated identity.
// A nil User with a non-empty Token means the token has not been
// confirmed against the server yet.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether the session holds a confirmed identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}
