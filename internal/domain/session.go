package domain

// Session is the identity attached to a session token. It is never mutated
// after creation.
type Session struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Role   string `json:"role"`
}

// HandshakeRecord is the cached state behind a handshake token.
type HandshakeRecord struct {
	User Session `json:"user"`
	Used bool    `json:"used"`
}
