// Package domain contains entity without logic, just meta-data
package domain

type UserID string

// DefaultUsername is used when the transport supplies no display name.
const DefaultUsername = "guest"

// User is the display identity of one connection. Names are trusted client
// input: no uniqueness, length or content checks.
type User struct {
	ID       UserID
	Username string
}

func NewUser(id UserID, username string) *User {
	if username == "" {
		username = DefaultUsername
	}
	return &User{ID: id, Username: username}
}
