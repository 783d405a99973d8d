package models

import "time"

// Contract pairs one EDA with one mentor for a discipline and a program
// year. EndDate == nil means the contract is open; setting it closes the
// contract for good. A renewal is a new contract pointing at the old one
// via ContractParentID.
type Contract struct {
	ID       uint `gorm:"primaryKey"`
	EDAID    uint `gorm:"column:eda_id;not null;index"`
	EDA      EDA  `gorm:"foreignKey:EDAID"`
	MentorID uint `gorm:"not null;index"`
	Mentor   Mentor `gorm:"foreignKey:MentorID"`

	DisciplineID uint       `gorm:"not null"`
	Discipline   Discipline `gorm:"foreignKey:DisciplineID"`

	ContractParentID *uint     `gorm:"index"`
	ContractParent   *Contract `gorm:"foreignKey:ContractParentID"`

	Year      int        `gorm:"not null;index"`
	BeginDate time.Time  `gorm:"type:date;not null"`
	EndDate   *time.Time `gorm:"type:date"` // nil tant que le contrat court
	Remark    string

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}

// Open reports whether the contract is still running.
func (c Contract) Open() bool { return c.EndDate == nil }
