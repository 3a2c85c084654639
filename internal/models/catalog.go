package models

import (
	"time"

	"gorm.io/gorm"
)

// Icon is a purchasable profile icon shown in the shop.
type Icon struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Name      string         `json:"name" gorm:"not null"`
	ImageKey  string         `json:"imageKey"`
	ImageURL  string         `json:"imageUrl"`
	Price     int            `json:"price"`
	Available bool           `json:"available"`
}

// Player is a purchasable lineup card.
type Player struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Name      string         `json:"name" gorm:"not null"`
	ImageKey  string         `json:"imageKey"`
	ImageURL  string         `json:"imageUrl"`
	Position  string         `json:"position"`
	Rating    int            `json:"rating"`
	Price     int            `json:"price"`
	Available bool           `json:"available"`
}

// Price is the coin value awarded for a named liturgy.
type Price struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	Coins     int            `json:"coins"`
}

// Control is a named visibility flag toggled from the controls screen.
type Control struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;uniqueIndex"`
	Visible bool   `json:"visible"`
	Role    Role   `json:"role"`
}
