package domain

// Role resolved by the external identity service.
type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
)

// User is the caller identity attached to every mutating request.
type User struct {
	Id   UserId
	Role Role
}

func (u User) IsModerator() bool {
	return u.Role == RoleModerator
}

// UserRef is the display projection returned in populated like sets.
type UserRef struct {
	Id          UserId `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// UserDirectory resolves user ids to display projections. Implemented by the
// external identity service; the fallback implementation returns bare ids.
type UserDirectory interface {
	Resolve(ids []UserId) ([]UserRef, error)
}
