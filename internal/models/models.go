package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `                                json:"created_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Name        string    `gorm:"not null"                                  json:"name"`
	Description string    `gorm:"type:text"                                 json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null"               json:"price"`
	Detail      string    `gorm:"column:product_detail;type:text"           json:"product_detail"`
	UserID      uint      `gorm:"index;not null"                            json:"user_id"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `                                                 json:"created_at"`
	UpdatedAt   time.Time `                                                 json:"updated_at"`
}
