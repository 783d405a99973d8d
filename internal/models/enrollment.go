package models

import "time"

// Mentor is the yearly enrollment of a student as a peer tutor for one
// discipline. At most one row per (student, discipline, year): the rule is
// checked by the validation layer so the user gets a form error, and backed
// by the composite unique index for the concurrent case.
type Mentor struct {
	ID           uint       `gorm:"primaryKey"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_mentor_enrollment"`
	Student      Student    `gorm:"foreignKey:StudentID"`
	DisciplineID uint       `gorm:"not null;uniqueIndex:idx_mentor_enrollment"`
	Discipline   Discipline `gorm:"foreignKey:DisciplineID"`
	TeacherID    uint       `gorm:"not null"` // maître qui a signalé l'élève
	Teacher      Teacher    `gorm:"foreignKey:TeacherID"`
	Year         int        `gorm:"not null;uniqueIndex:idx_mentor_enrollment"`

	InscriptionDate time.Time `gorm:"type:date;not null"`
	Remark          string
	IsActive        bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}

// EDA is the yearly enrollment of a student as a help seeker
// (élève demandeur d'aide). Same shape and same uniqueness rule as Mentor.
type EDA struct {
	ID           uint       `gorm:"primaryKey"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_eda_enrollment"`
	Student      Student    `gorm:"foreignKey:StudentID"`
	DisciplineID uint       `gorm:"not null;uniqueIndex:idx_eda_enrollment"`
	Discipline   Discipline `gorm:"foreignKey:DisciplineID"`
	TeacherID    uint       `gorm:"not null"`
	Teacher      Teacher    `gorm:"foreignKey:TeacherID"`
	Year         int        `gorm:"not null;uniqueIndex:idx_eda_enrollment"`

	InscriptionDate time.Time `gorm:"type:date;not null"`
	Remark          string
	IsActive        bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}

func (EDA) TableName() string { return "edas" }
