package models

import "time"

// Student is long-lived reference data, imported from the school registry
// (fichier OD) or entered by hand. Name, Vorname and IDOD identify the
// student and are read-only after creation; contact fields stay editable.
type Student struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:50;not null;index"`
	Vorname  string `gorm:"size:50;not null"`
	Email    string `gorm:"size:254"`
	Tel      string `gorm:"size:13"`
	Portable string `gorm:"size:13"` // numéro de natel
	IDOD     string `gorm:"column:id_od;size:12;uniqueIndex;not null"`
	Classe   string `gorm:"size:12"` // classe actuelle, ex. "2M3"

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}

// FullName renders "Name Vorname" the way lists and PDFs display students.
func (s Student) FullName() string {
	return s.Name + " " + s.Vorname
}
