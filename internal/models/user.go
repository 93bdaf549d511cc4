package models

type Role string

const (
	RoleAdmin     Role = "ROLE_ADMIN"
	RoleCollector Role = "ROLE_COLLECTOR"
	RoleBinOwner  Role = "ROLE_BIN_OWNER"
)

// Label is the human name used in tabs and titles.
func (r Role) Label() string {
	switch r {
	case RoleCollector:
		return "Collector"
	case RoleBinOwner:
		return "Bin User"
	case RoleAdmin:
		return "Admin"
	default:
		return "User"
	}
}

// RoleForSubject maps the "add user" subject to the role it creates.
func RoleForSubject(subject string) Role {
	switch subject {
	case "Collector":
		return RoleCollector
	case "Bin User":
		return RoleBinOwner
	default:
		return RoleAdmin
	}
}

type User struct {
	ID           string `json:"id" db:"id"`
	Role         Role   `json:"role" db:"role"`
	Username     string `json:"username" db:"username"`
	FullName     string `json:"fullName" db:"full_name"`
	PasswordHash string `json:"-" db:"password_hash"` // Never return password in JSON
	Address      string `json:"address,omitempty" db:"address"`
	MobileNumber string `json:"mobileNumber,omitempty" db:"mobile_number"`
	FCMToken     string `json:"-" db:"fcm_token"`
	CreatedAt    string `json:"createdAt" db:"created_at"`
}

func (u User) EntityID() string { return u.ID }

func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Entity is a server-owned record that can be the target of a row action.
type Entity interface {
	EntityID() string
	DisplayName() string
}

type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticationData struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// RegisterRequest is the bin-owner self registration body.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	MobileNumber string `json:"mobileNumber"`
}

type CollectorCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type ProfileUpdateRequest struct {
	Name string `json:"name"`
}

type FCMTokenRequest struct {
	Token string `json:"token"`
}
