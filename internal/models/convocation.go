package models

import "time"

// DefaultConvocationPlace is where meetings happen unless stated otherwise.
const DefaultConvocationPlace = "devant la salle des maîtres"

// Convocation is a scheduled meeting notice tied to a contract. Several
// convocations may exist per contract; it is the only entity with a
// user-facing delete flow.
type Convocation struct {
	ID         uint     `gorm:"primaryKey"`
	ContractID uint     `gorm:"not null;index"`
	Contract   Contract `gorm:"foreignKey:ContractID"`

	Date    time.Time `gorm:"type:date;not null"`
	Time    string    `gorm:"size:5;not null"` // heure du rendez-vous, "HH:MM"
	Place   string    `gorm:"size:100;not null"`
	Message string

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}
