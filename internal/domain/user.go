package domain

// User represents an account that owns inventory items.
//
// PasswordHash carries the hex-encoded SHA-256 digest of the password,
// never the plaintext. It travels over the wire under the passwordHash
// key because the remote store round-trips whole users; the plaintext
// itself never leaves the login prompt.
type User struct {
	// ID is the store-assigned identifier. 0 means not yet persisted.
	ID int64 `json:"id"`

	// Username is the login name. Matching is exact and case sensitive.
	Username string `json:"username"`

	// PasswordHash is the hex-encoded SHA-256 digest of the password.
	PasswordHash string `json:"passwordHash"`
}

// NewUser creates a User from a username and an already-computed
// password digest. Pass the digest, not the plaintext.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
}

// Equal reports whether both users carry the same username and password
// digest. IDs are ignored so a candidate built from login input can be
// compared against a stored row. Either side may be nil.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.Username == other.Username && u.PasswordHash == other.PasswordHash
}
