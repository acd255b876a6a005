package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	// Admin
	RoleAdmin        = "admin:"
	RoleAdminOwner   = "admin:owner"
	RoleAdminPastor  = "admin:pastor"
	RoleAdminProgram = "admin:program"

	// Mentor
	RoleMentor = "mentor:"

	// Member
	RoleMember = "member:"
)

var (
	AdminRoles  = []string{RoleAdmin, RoleAdminOwner, RoleAdminPastor, RoleAdminProgram}
	MentorRoles = []string{RoleMentor}
	MemberRoles = []string{RoleMember}
	AllRoles    = getAllRoles()

	rolePriorities = map[string]int{
		// Admins: 30 - 21
		RoleAdminOwner:   30,
		RoleAdminPastor:  29,
		RoleAdminProgram: 28,
		RoleAdmin:        21,

		// Mentors: 20 - 11
		RoleMentor: 11,

		// Members: 10 - 1
		RoleMember: 1,
	}

	Roles = []Role{
		{Name: "Member", Value: RoleMember},
		{Name: "Mentor", Value: RoleMentor},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Admin Program Lead", Value: RoleAdminProgram},
		{Name: "Admin Pastor", Value: RoleAdminPastor},
		{Name: "Admin Owner", Value: RoleAdminOwner},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 6)
	all = append(all, AdminRoles...)
	all = append(all, MentorRoles...)
	all = append(all, MemberRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.RoleStartsWith(RoleAdmin)
}

func (u *User) IsMentor() bool {
	return u.IsAdmin() || u.RoleStartsWith(RoleMentor)
}

func (u *User) IsMember() bool {
	return u.RoleStartsWith(RoleMember)
}
