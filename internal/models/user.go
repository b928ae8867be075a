package models

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID                      string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Email                   string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password                *string    `gorm:"column:password" json:"-"` // Never expose password hash in JSON
	FirstName               *string    `gorm:"column:first_name" json:"firstName"`
	LastName                *string    `gorm:"column:last_name" json:"lastName"`
	GoogleID                *string    `gorm:"column:google_id" json:"googleId,omitempty"`
	ProfilePicture          *string    `gorm:"column:profile_picture" json:"profilePicture"`
	IsConfirmed             bool       `gorm:"column:is_confirmed" json:"isConfirmed"`
	Lang                    *string    `gorm:"column:lang" json:"lang"`
	Theme                   *string    `gorm:"column:theme" json:"theme"`
	LastPasswordResetAt     *time.Time `gorm:"column:last_password_reset_at" json:"lastPasswordResetAt"`
	LastEmailConfirmationAt *time.Time `gorm:"column:last_email_confirmation_at" json:"lastEmailConfirmationAt"`
	CreatedByID             *string    `gorm:"column:created_by_id" json:"createdById"`
	UpdatedByID             *string    `gorm:"column:updated_by_id" json:"updatedById"`
	Role                    Role       `gorm:"column:role" json:"role"`
	CreatedAt               time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt               time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

// UserColumns maps the logical user fields to their physical columns.
var UserColumns = map[string]string{
	"id":                      "id",
	"email":                   "email",
	"password":                "password",
	"firstName":               "first_name",
	"lastName":                "last_name",
	"googleId":                "google_id",
	"profilePicture":          "profile_picture",
	"isConfirmed":             "is_confirmed",
	"lang":                    "lang",
	"theme":                   "theme",
	"lastPasswordResetAt":     "last_password_reset_at",
	"lastEmailConfirmationAt": "last_email_confirmation_at",
	"createdById":             "created_by_id",
	"updatedById":             "updated_by_id",
	"role":                    "role",
	"createdAt":               "created_at",
	"updatedAt":               "updated_at",
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// UserSummary is the only user shape ever embedded in another record.
type UserSummary struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	ProfilePicture *string `json:"profilePicture"`
	Role           Role    `json:"role"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
	}
}
