package validation

import (
	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

// ValidateMentor rejects a second mentor enrollment for the same
// (student, discipline, year). excludeID skips the candidate's own row on
// update. Runs inside the write transaction so validation-then-write is
// all-or-nothing; the composite unique index covers the remaining
// concurrent window.
func ValidateMentor(tx *gorm.DB, m *models.Mentor) (Violations, error) {
	return checkDuplicate(tx, &models.Mentor{}, m.StudentID, m.DisciplineID, m.Year, m.ID)
}

// ValidateEDA applies the same uniqueness rule to EDA enrollments.
func ValidateEDA(tx *gorm.DB, e *models.EDA) (Violations, error) {
	return checkDuplicate(tx, &models.EDA{}, e.StudentID, e.DisciplineID, e.Year, e.ID)
}

func checkDuplicate(tx *gorm.DB, model any, studentID, disciplineID uint, year int, excludeID uint) (Violations, error) {
	v := Violations{}
	q := tx.Model(model).
		Where("student_id = ? AND discipline_id = ? AND year = ?", studentID, disciplineID, year)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		v.Add("student", CodeDuplicateEnrollment)
	}
	return v, nil
}
