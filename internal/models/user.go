package models

import "time"

// User is an operator account (responsable du mentorat, secrétariat).
// Every application route requires a logged-in user.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"unique;not null;index"`
	Password string `gorm:"not null"` // hashé (bcrypt)
	Name     string `gorm:"size:50"`

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}
