// Package models contains the marketplace's persistent entities and its error taxonomy.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a marketplace account. A user can both sell and buy.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email      string         `gorm:"size:255;uniqueIndex;not null" json:"email,omitempty"`
	Password   string         `gorm:"not null" json:"-"`
	Address    string         `gorm:"type:text" json:"address,omitempty"`
	ProfilePic string         `json:"profile_pic"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserSummary is the public owner view rendered with listings.
type UserSummary struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePic: u.ProfilePic}
}
