package models

import (
	"time"
)

// Address represents a user's address for delivery
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipcode" json:"zipcode"`
}

// Role values for User.Role
const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User represents a user in the system. Email is expected to be unique
// within the users collection; the seeding and provisioning tooling
// relies on that convention.
type User struct {
	ID                 string     `bson:"_id,omitempty" json:"id,omitempty"`
	Username           string     `bson:"username" json:"username"`
	Email              string     `bson:"email" json:"email"`
	Password           string     `bson:"password,omitempty" json:"-"`
	Phone              string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Address            Address    `bson:"address" json:"address"`
	Role               string     `bson:"role" json:"role"` // "customer", "employee" or "admin"
	IsActive           bool       `bson:"is_active" json:"is_active"`
	IsEmailVerified    bool       `bson:"is_email_verified" json:"is_email_verified"`
	MustChangePassword bool       `bson:"must_change_password" json:"must_change_password"`
	VerificationToken  string     `bson:"verification_token,omitempty" json:"-"`
	ResetToken         string     `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpires  *time.Time `bson:"reset_token_expires,omitempty" json:"-"`

	// Employment fields, set only for employee/admin accounts.
	EmployeeID   string     `bson:"employee_id,omitempty" json:"employee_id,omitempty"`
	Department   string     `bson:"department,omitempty" json:"department,omitempty"`
	Position     string     `bson:"position,omitempty" json:"position,omitempty"`
	HireDate     *time.Time `bson:"hire_date,omitempty" json:"hire_date,omitempty"`
	SupervisorID string     `bson:"supervisor_id,omitempty" json:"supervisor_id,omitempty"`
	Permissions  []string   `bson:"permissions,omitempty" json:"permissions,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Sanitize clears credential material before the record is returned to a client.
func (u *User) Sanitize() {
	u.Password = ""
	u.VerificationToken = ""
	u.ResetToken = ""
	u.ResetTokenExpires = nil
}
