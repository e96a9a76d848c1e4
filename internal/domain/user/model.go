package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID        int
	Login     string
	Password  string // bcrypt hash
	Role      Role
	CreatedAt time.Time
}

// Actor is the resolved identity of the current request: who acts and
// with which role. Built once per request by the auth middleware and
// threaded through every authorization decision instead of re-querying
// role or ownership ad hoc.
type Actor struct {
	ID   int  `json:"id"`
	Role Role `json:"role"`
}
