package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string     `json:"id" bson:"_id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Name         string     `json:"name" bson:"name"`
	Username     *string    `json:"username,omitempty" bson:"username,omitempty" gorm:"uniqueIndex"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash string     `json:"-" bson:"passwordHash" gorm:"not null"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// UsernameValue returns the username or "" when none was chosen.
func (u *User) UsernameValue() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return
}
