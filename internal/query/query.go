// Package query builds the filtered, ordered list views. Every filter
// composes with AND, an empty parameter means no restriction, and every
// ordering ends on the primary key so listings are stable.
package query

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

// like builds a case-insensitive contains pattern. lower() keeps the
// behaviour identical on sqlite and postgres.
func like(fragment string) string {
	return "%" + strings.ToLower(strings.TrimSpace(fragment)) + "%"
}

// PersonFilter filters people lists on name fragments.
type PersonFilter struct {
	Name    string
	Vorname string
}

// Students lists all students, filtered by name/vorname fragments,
// ordered by name.
func Students(db *gorm.DB, f PersonFilter) *gorm.DB {
	q := db.Model(&models.Student{})
	if f.Name != "" {
		q = q.Where("lower(students.name) LIKE ?", like(f.Name))
	}
	if f.Vorname != "" {
		q = q.Where("lower(students.vorname) LIKE ?", like(f.Vorname))
	}
	return q.Order("students.name").Order("students.id")
}

// Teachers mirrors Students for the teacher list.
func Teachers(db *gorm.DB, f PersonFilter) *gorm.DB {
	q := db.Model(&models.Teacher{})
	if f.Name != "" {
		q = q.Where("lower(teachers.name) LIKE ?", like(f.Name))
	}
	if f.Vorname != "" {
		q = q.Where("lower(teachers.vorname) LIKE ?", like(f.Vorname))
	}
	return q.Order("teachers.name").Order("teachers.id")
}

// EnrollmentFilter filters mentor/EDA listings.
type EnrollmentFilter struct {
	StudentName  string
	DisciplineID uint
}

// Mentors scopes to active enrollments of the given program year, ordered
// by student name.
func Mentors(db *gorm.DB, year int, f EnrollmentFilter) *gorm.DB {
	q := db.Model(&models.Mentor{}).
		Joins("JOIN students ON students.id = mentors.student_id").
		Where("mentors.year = ? AND mentors.is_active = ?", year, true)
	if f.StudentName != "" {
		q = q.Where("lower(students.name) LIKE ?", like(f.StudentName))
	}
	if f.DisciplineID != 0 {
		q = q.Where("mentors.discipline_id = ?", f.DisciplineID)
	}
	return q.Order("students.name").Order("mentors.id")
}

// EDAs scopes to active enrollments of the given program year, ordered by
// inscription date (oldest requests first).
func EDAs(db *gorm.DB, year int, f EnrollmentFilter) *gorm.DB {
	q := db.Model(&models.EDA{}).
		Joins("JOIN students ON students.id = edas.student_id").
		Where("edas.year = ? AND edas.is_active = ?", year, true)
	if f.StudentName != "" {
		q = q.Where("lower(students.name) LIKE ?", like(f.StudentName))
	}
	if f.DisciplineID != 0 {
		q = q.Where("edas.discipline_id = ?", f.DisciplineID)
	}
	return q.Order("edas.inscription_date").Order("edas.id")
}

// EDAsWithoutOpenContract restricts EDAs to those still waiting for a
// mentor: no contract of theirs is currently open.
func EDAsWithoutOpenContract(db *gorm.DB, year int, f EnrollmentFilter) *gorm.DB {
	return EDAs(db, year, f).
		Where("NOT EXISTS (SELECT 1 FROM contracts WHERE contracts.eda_id = edas.id AND contracts.end_date IS NULL)")
}

// ContractFilter filters the contract listing.
type ContractFilter struct {
	EDAName      string
	MentorName   string
	DisciplineID uint
	BeginAfter   *time.Time
	EndBefore    *time.Time
}

// Contracts scopes to the given program year, ordered by begin date.
func Contracts(db *gorm.DB, year int, f ContractFilter) *gorm.DB {
	q := db.Model(&models.Contract{}).
		Joins("JOIN edas ON edas.id = contracts.eda_id").
		Joins("JOIN students AS eda_students ON eda_students.id = edas.student_id").
		Joins("JOIN mentors ON mentors.id = contracts.mentor_id").
		Joins("JOIN students AS mentor_students ON mentor_students.id = mentors.student_id").
		Where("contracts.year = ?", year)
	if f.EDAName != "" {
		q = q.Where("lower(eda_students.name) LIKE ?", like(f.EDAName))
	}
	if f.MentorName != "" {
		q = q.Where("lower(mentor_students.name) LIKE ?", like(f.MentorName))
	}
	if f.DisciplineID != 0 {
		q = q.Where("contracts.discipline_id = ?", f.DisciplineID)
	}
	if f.BeginAfter != nil {
		q = q.Where("contracts.begin_date > ?", *f.BeginAfter)
	}
	if f.EndBefore != nil {
		q = q.Where("contracts.end_date < ?", *f.EndBefore)
	}
	return q.Order("contracts.begin_date").Order("contracts.id")
}

// OpenContracts lists the currently running contracts of a program year,
// grouped by discipline for the dashboard.
func OpenContracts(db *gorm.DB, year int) *gorm.DB {
	return db.Model(&models.Contract{}).
		Where("contracts.year = ? AND contracts.end_date IS NULL", year).
		Order("contracts.discipline_id").Order("contracts.id")
}

// OpenContractsForEDA lists the open contracts of one EDA; closing a
// contract removes it from this set but not from the year listing.
func OpenContractsForEDA(db *gorm.DB, edaID uint) *gorm.DB {
	return db.Model(&models.Contract{}).
		Where("contracts.eda_id = ? AND contracts.end_date IS NULL", edaID).
		Order("contracts.begin_date").Order("contracts.id")
}

// ContractsForStudent collects the year's contracts where the student is on
// either side of the pairing (detail page).
func ContractsForStudent(db *gorm.DB, year int, studentID uint) *gorm.DB {
	return db.Model(&models.Contract{}).
		Joins("JOIN edas ON edas.id = contracts.eda_id").
		Joins("JOIN mentors ON mentors.id = contracts.mentor_id").
		Where("contracts.year = ?", year).
		Where("edas.student_id = ? OR mentors.student_id = ?", studentID, studentID).
		Order("contracts.begin_date").Order("contracts.id")
}

// UpcomingConvocations lists meetings scheduled after the given day.
func UpcomingConvocations(db *gorm.DB, today time.Time) *gorm.DB {
	return db.Model(&models.Convocation{}).
		Where("convocations.date > ?", today).
		Order("convocations.date").Order("convocations.time").Order("convocations.id")
}
