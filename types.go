package goSession

import (
	"time"

	"github.com/MrEthical07/goSession/token"
)

// AuthStatus is the tag of the session state machine. The client starts
// Uninitialized, passes through Loading exactly once during bootstrap, and
// then holds Authenticated or Anonymous for the rest of its lifetime.
type AuthStatus uint8

const (
	// StatusUninitialized is an exported constant or variable used by the session client.
	StatusUninitialized AuthStatus = iota
	// StatusLoading is an exported constant or variable used by the session client.
	StatusLoading
	// StatusAuthenticated is an exported constant or variable used by the session client.
	StatusAuthenticated
	// StatusAnonymous is an exported constant or variable used by the session client.
	StatusAnonymous
)

// String describes the string operation and its observable behavior.
func (s AuthStatus) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// AuthState is an immutable snapshot of the session. User is non-nil exactly
// when Status is [StatusAuthenticated].
type AuthState struct {
	Status      AuthStatus
	User        *User
	Initialized bool
}

// IsAuthenticated describes the isauthenticated operation and its observable behavior.
func (s AuthState) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// IsLoading describes the isloading operation and its observable behavior.
func (s AuthState) IsLoading() bool {
	return s.Status == StatusLoading
}

const (
	// RoleAdmin is an exported constant or variable used by the session client.
	RoleAdmin = "admin"
	// RoleUser is an exported constant or variable used by the session client.
	RoleUser = "user"
	// RoleViewer is an exported constant or variable used by the session client.
	RoleViewer = "viewer"
)

// User is the identity-service account record as the client sees it.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	Role             string    `json:"role"`
	EmailVerified    bool      `json:"email_verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Credentials is the input for [Client.SignIn].
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpDetails is the input for [Client.SignUp].
type SignUpDetails struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// UserUpdate is a partial profile update. Nil fields are left untouched by
// the identity service; the client never applies an update optimistically and
// only adopts what the server echoes back.
type UserUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// TwoFactorSetup is the provisioning material returned by
// [Client.BeginTwoFactorSetup]. BackupCodes are shown to the user exactly
// once and cannot be fetched again.
type TwoFactorSetup struct {
	Secret      string   `json:"secret"`
	QRCode      string   `json:"qr_code"`
	BackupCodes []string `json:"backup_codes"`
}

// Session is one entry in the account's active-session registry.
type Session struct {
	ID         string    `json:"id"`
	UserAgent  string    `json:"user_agent,omitempty"`
	IP         string    `json:"ip,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Current    bool      `json:"current"`
}

// NotificationKind defines a public type used by goSession APIs.
//
// NotificationKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NotificationKind uint8

const (
	// NotifyInfo is an exported constant or variable used by the session client.
	NotifyInfo NotificationKind = iota
	// NotifyWarning is an exported constant or variable used by the session client.
	NotifyWarning
	// NotifyError is an exported constant or variable used by the session client.
	NotifyError
)

// Notifier receives user-facing lifecycle messages (forced sign-out, rate
// limiting). The client never renders anything itself; implementations must
// not block.
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// TokenPair is the access/refresh credential pair held by the configured
// [token.Store].
type TokenPair = token.Pair
