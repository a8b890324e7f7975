// internal/domain/cart/owner.go
package cart

// Owner identifies who a cart belongs to: either an authenticated user or an
// anonymous browser session, never both. The zero value is invalid and is
// rejected by every service method that takes an Owner.
type Owner struct {
	userID    uint
	sessionID string
	isUser    bool
}

// UserOwner returns an Owner for an authenticated user
func UserOwner(userID uint) Owner {
	return Owner{userID: userID, isUser: true}
}

// GuestOwner returns an Owner for an anonymous session
func GuestOwner(sessionID string) Owner {
	return Owner{sessionID: sessionID}
}

// IsGuest reports whether the owner is an anonymous session
func (o Owner) IsGuest() bool {
	return !o.isUser && o.sessionID != ""
}

// UserID returns the user ID when the owner is an authenticated user
func (o Owner) UserID() (uint, bool) {
	if o.isUser {
		return o.userID, true
	}
	return 0, false
}

// SessionID returns the session ID when the owner is a guest
func (o Owner) SessionID() (string, bool) {
	if !o.isUser && o.sessionID != "" {
		return o.sessionID, true
	}
	return "", false
}

// Valid reports whether the owner identifies anyone at all
func (o Owner) Valid() bool {
	return o.isUser || o.sessionID != ""
}
