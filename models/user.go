// user.go - Defines the User model for the database

package models // Declares the package name

import "time"

// Roles a user can hold.
const (
	RoleMember = "member" // Default role for self-registered users
	RoleAdmin  = "admin"  // Seeded through config only
)

type User struct { // User struct represents a user in the database
	ID        uint      `gorm:"primaryKey" json:"id"`                 // Unique user ID (primary key)
	Name      string    `gorm:"not null" json:"name"`                 // Display name
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`    // User's email (must be unique, cannot be null)
	Password  string    `gorm:"not null" json:"-"`                    // Hashed password, never serialized
	Role      string    `gorm:"not null;default:member" json:"role"` // User role (member/admin)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
