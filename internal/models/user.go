package models

import "time"

type User struct {
	ID                 string    `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	Email              string    `json:"email" yaml:"email"`
	Password           string    `json:"-" yaml:"password"` // mock auth only, never serialized out
	Role               string    `json:"role" yaml:"role"`
	Phone              string    `json:"phone,omitempty" yaml:"phone"`
	CompanyName        string    `json:"company_name,omitempty" yaml:"company_name"`
	VerificationStatus string    `json:"verification_status" yaml:"verification_status"`
	RejectionReason    string    `json:"rejection_reason,omitempty" yaml:"rejection_reason"`
	IsBlocked          bool      `json:"is_blocked" yaml:"is_blocked"`
	Language           string    `json:"language" yaml:"language"`
	City               string    `json:"city,omitempty" yaml:"city"`
	Bio                string    `json:"bio,omitempty" yaml:"bio"`
	Favorites          []string  `json:"favorites,omitempty" yaml:"favorites"` // vendor ids
	CreatedAt          time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" yaml:"updated_at"`
}

// Vendor reports whether the user owns a bookable calendar.
func (u *User) Vendor() bool {
	return u.Role != RoleClient && u.Role != RoleAdmin
}
