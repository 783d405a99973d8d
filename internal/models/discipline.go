package models

import "time"

// Discipline (branche d'enseignement), ex. "Maths", "Allemand".
type Discipline struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:20;uniqueIndex;not null"`

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}
