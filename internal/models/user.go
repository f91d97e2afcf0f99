// Package models contains data structures for the wishlist domain models.
package models

import "time"

// User is owned by the identity collaborator; the store only references it.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Credential string    `gorm:"not null" json:"-"`
	Picture    *string   `json:"picture,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserRef is the credential-free part of a user that the store caches.
type UserRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
