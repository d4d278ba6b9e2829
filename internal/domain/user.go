package domain

import "time"

// Role is a coarse-grained permission tag used for static endpoint gating.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleFormateur Role = "formateur"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFormateur
}

// Socials groups public profile links.
type Socials struct {
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	GitHub   string `json:"github"`
	Bio      string `json:"bio"`
}

// User is an account able to sign in to the dashboard.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Address      string
	Active       bool
	Role         Role
	Socials      Socials
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
