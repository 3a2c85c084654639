package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance records a user's presence at a dated liturgy. Records start
// unapproved unless the bulk endpoint approves them in the same call.
type Attendance struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	UserID      uint           `json:"userId" gorm:"index"`
	Username    string         `json:"username,omitempty" gorm:"-"`
	Date        string         `json:"date" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	Coins       int            `json:"coins"`
	Approved    bool           `json:"approved"`
}
