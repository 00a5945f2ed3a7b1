package model

import "time"

// UserType classifies an account for role-based access checks.  The value is
// stored on the user's profile row and carried in the JWT role claim.  New
// accounts always start as customers; staff and admin are assigned manually.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeStaff    UserType = "staff"
	UserTypeAdmin    UserType = "admin"
)

// ValidUserType reports whether s is one of the recognised account types.
func ValidUserType(s string) bool {
	switch UserType(s) {
	case UserTypeCustomer, UserTypeStaff, UserTypeAdmin:
		return true
	}
	return false
}

// User represents a row in the `users` table.  Only credentials and
// timestamps live here; everything else belongs to the profile.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// UserProfile extends a user with booking-site specific data.  Exactly one
// profile exists per user; it is created together with the user at
// registration time.
//
// Fields:
//  UserID      – owning user (also the primary key).
//  UserType    – account role (customer, staff, admin).
//  Phone       – optional contact phone number.
//  Address     – optional postal address.
//  DateOfBirth – optional date of birth.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type UserProfile struct {
	UserID      uint64     // user_profiles.user_id
	UserType    UserType   // user_profiles.user_type
	Phone       *string    // user_profiles.phone (nullable)
	Address     *string    // user_profiles.address (nullable)
	DateOfBirth *time.Time // user_profiles.date_of_birth (nullable)
	CreatedAt   time.Time  // user_profiles.created_at
	UpdatedAt   time.Time  // user_profiles.updated_at
}

// IsStaffOrAdmin reports whether the profile may use the administrative
// endpoints.  The check is an explicit enum comparison; handlers must never
// infer roles from anything other than this field.
func (p *UserProfile) IsStaffOrAdmin() bool {
	return p.UserType == UserTypeStaff || p.UserType == UserTypeAdmin
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
