package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOstaz Role = "OSTAZ"
)

// SchoolYear is the "Osra" grouping users and admins belong to. It is a
// label used for filtering and display only.
type SchoolYear struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;unique"`
}

type User struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	CreatedAt          time.Time      `json:"-"`
	UpdatedAt          time.Time      `json:"-"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
	Username           string         `json:"username" gorm:"not null;uniqueIndex"`
	Password           string         `json:"-" gorm:"not null"`
	Coins              int            `json:"coins"`
	CardRating         int            `json:"cardRating"`
	LineupRating       int            `json:"lineupRating"`
	LeaderboardBoolean bool           `json:"leaderboardBoolean" gorm:"default:true"`
	ImageKey           string         `json:"imageKey"`
	ImageURL           string         `json:"imageUrl"`
	SelectedIcon       string         `json:"selectedIcon"`
	Confirmed          bool           `json:"confirmed"`
	SchoolYearID       *uint          `json:"-"`
	SchoolYear         *SchoolYear    `json:"schoolYear,omitempty"`
	Attendances        []Attendance   `json:"attendances,omitempty" gorm:"foreignKey:UserID"`
}

type Admin struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"-"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Username     string         `json:"username" gorm:"not null;uniqueIndex"`
	Password     string         `json:"-" gorm:"not null"`
	Role         Role           `json:"role" gorm:"not null"`
	SchoolYearID *uint          `json:"-"`
	SchoolYear   *SchoolYear    `json:"schoolYear,omitempty"`
}
