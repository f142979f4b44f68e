package models

import "time"

// User mirrors auth_user, the table shared with the external identity system.
type User struct {
	ID          int64      `json:"id"`
	Password    string     `json:"-"`
	LastLogin   *time.Time `json:"last_login"`
	IsSuperuser bool       `json:"is_superuser"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	IsStaff     bool       `json:"is_staff"`
	IsActive    bool       `json:"is_active"`
	DateJoined  time.Time  `json:"date_joined"`
}

// Customer mirrors booking_customer (one row per auth_user row).
type Customer struct {
	ID                 int64 `json:"id"`
	BirthDate          *Date `json:"birth_date"`
	HasLargeFamily     bool  `json:"has_large_family"`
	HasReducedMobility bool  `json:"has_reduced_mobility"`
	UserID             int64 `json:"user_id"`
}

// UserPublic is the profile returned to the account owner.
type UserPublic struct {
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	BirthDate          *Date   `json:"birth_date"`
	HasLargeFamily     bool    `json:"has_large_family"`
	HasReducedMobility bool    `json:"has_reduced_mobility"`
}

// ToPublic projects a user and its customer row to the public profile.
func ToPublic(u User, c Customer) UserPublic {
	return UserPublic{
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          optional(u.FirstName),
		LastName:           optional(u.LastName),
		BirthDate:          c.BirthDate,
		HasLargeFamily:     c.HasLargeFamily,
		HasReducedMobility: c.HasReducedMobility,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// UserCreate carries a registration request.
type UserCreate struct {
	Username           string  `json:"username" binding:"required,max=150"`
	Email              string  `json:"email" binding:"required,email,max=254"`
	Password           string  `json:"not_hashed_password" binding:"required,max=128"`
	PasswordRepeat     string  `json:"not_hashed_password_repeat" binding:"required,max=128"`
	FirstName          *string `json:"first_name" binding:"omitempty,max=150"`
	LastName           *string `json:"last_name" binding:"omitempty,max=150"`
	BirthDate          *Date   `json:"birth_date"`
	HasLargeFamily     bool    `json:"has_large_family"`
	HasReducedMobility bool    `json:"has_reduced_mobility"`
}

// UserUpdate supports PATCH-style updates via pointer presence.
type UserUpdate struct {
	Username           *string `json:"username" binding:"omitempty,min=1,max=150"`
	Email              *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName          *string `json:"first_name" binding:"omitempty,max=150"`
	LastName           *string `json:"last_name" binding:"omitempty,max=150"`
	BirthDate          *Date   `json:"birth_date"`
	HasLargeFamily     *bool   `json:"has_large_family"`
	HasReducedMobility *bool   `json:"has_reduced_mobility"`
}

// TouchesUser reports whether any auth_user column is present.
func (u UserUpdate) TouchesUser() bool {
	return u.Username != nil || u.Email != nil || u.FirstName != nil || u.LastName != nil
}

// TouchesCustomer reports whether any booking_customer column is present.
func (u UserUpdate) TouchesCustomer() bool {
	return u.BirthDate != nil || u.HasLargeFamily != nil || u.HasReducedMobility != nil
}

// PasswordChange carries a change-password request.
type PasswordChange struct {
	OldPassword       string `json:"old_password" binding:"required,max=128"`
	NewPassword       string `json:"not_hashed_password" binding:"required,max=128"`
	NewPasswordRepeat string `json:"not_hashed_password_repeat" binding:"required,max=128"`
}
