package domain

// Session is the single active proof-of-login: an opaque signed token plus
// the authenticated user's identity. At most one session exists at a time;
// a new login overwrites the previous one.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
