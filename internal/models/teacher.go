package models

import "time"

// Teacher (maître) referenced by enrollments as the signaling teacher.
// IDOD is unique but optional: teachers added manually have none.
type Teacher struct {
	ID      uint    `gorm:"primaryKey"`
	Name    string  `gorm:"size:50;not null;index"`
	Vorname string  `gorm:"size:50;not null"`
	IDOD    *string `gorm:"column:id_od;size:12;uniqueIndex"`

	CreatedAt time.Time `gorm:"column:creation_date"`
	UpdatedAt time.Time `gorm:"column:modification_date"`
}

func (t Teacher) FullName() string {
	return t.Name + " " + t.Vorname
}

// IDODString avoids dereferencing a nil IDOD in templates.
func (t Teacher) IDODString() string {
	if t.IDOD == nil {
		return ""
	}
	return *t.IDOD
}
