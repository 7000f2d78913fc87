package user

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Roles
const (
	RoleAdmin     = "Admin"
	RoleDosen     = "Dosen"
	RoleMahasiswa = "Mahasiswa"
	RoleAlumni    = "Alumni"
	RoleMitra     = "Mitra"
	RolePakar     = "Pakar"
)

var (
	AllRoles = []string{RoleAdmin, RoleDosen, RoleMahasiswa, RoleAlumni, RoleMitra, RolePakar}

	// InternalRoles belong to the campus itself.
	InternalRoles = []string{RoleAdmin, RoleDosen, RoleMahasiswa}

	// ExternalRoles joined the platform from outside the campus and only see
	// the communities they are a member of.
	ExternalRoles = []string{RoleAlumni, RoleMitra, RolePakar}
)

func ValidRole(role string) bool {
	return roleIn(role, AllRoles)
}

func roleIn(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the session snapshot of the authenticated account as reported by
// the remote API's /me endpoint.
type User struct {
	ID                      int         `json:"id"`
	Name                    string      `json:"name"`
	Username                string      `json:"username"`
	Email                   string      `json:"email"`
	Role                    string      `json:"role"`
	IsActive                bool        `json:"is_active"`
	AvatarURL               null.String `json:"avatar_url"`
	EstimatedGraduationYear null.Int    `json:"estimated_graduation_year"`
	UnreadNotifications     int         `json:"unread_notifications_count"`
	CreatedAt               time.Time   `json:"created_at"` // UTC
	UpdatedAt               time.Time   `json:"updated_at"` // UTC
}

func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }
func (u *User) IsMahasiswa() bool { return u.Role == RoleMahasiswa }
func (u *User) IsExternal() bool  { return roleIn(u.Role, ExternalRoles) }

// GraduationExpired reports whether a Mahasiswa account is past its
// estimated graduation year. Accounts without a recorded year never expire.
func (u *User) GraduationExpired(now time.Time) bool {
	if !u.IsMahasiswa() || !u.EstimatedGraduationYear.Valid {
		return false
	}
	return now.Year() > int(u.EstimatedGraduationYear.Int)
}

// Credentials is the login form payload forwarded to the remote API.
type Credentials struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required"`
	CaptchaCode string `json:"captcha_code" form:"captcha_code" validate:"required"`
}

// RegistrationRequest asks the backend to send a registration OTP.
type RegistrationRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Username string `json:"username" form:"username" validate:"required,min=6,alphanum_"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// OTPVerification confirms a registration OTP.
type OTPVerification struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Code  string `json:"otp" form:"otp" validate:"required,len=6,numeric"`
}

// ExternalActivation activates an invited external account (Alumni, Mitra,
// Pakar) from the emailed token.
type ExternalActivation struct {
	Token           string `json:"token" form:"token" validate:"required"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

// Lifecycle OTP types for expired Mahasiswa accounts.
const (
	LifecycleExtendStudent = "extend_student"
	LifecycleConvertAlumni = "convert_alumni"
)

// LifecycleRequest asks for an account-lifecycle OTP (extend the student
// account or convert it to Alumni, optionally onto a personal email).
type LifecycleRequest struct {
	Type     string      `json:"type" form:"type" validate:"required,oneof=extend_student convert_alumni"`
	NewEmail null.String `json:"new_email,omitempty" form:"new_email"`
}

// LifecycleVerification confirms a lifecycle OTP.
type LifecycleVerification struct {
	Type     string      `json:"type" form:"type" validate:"required,oneof=extend_student convert_alumni"`
	OTP      string      `json:"otp" form:"otp" validate:"required,len=6,numeric"`
	NewEmail null.String `json:"new_email,omitempty" form:"new_email"`
}
