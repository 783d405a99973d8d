package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Discipline{}, &models.Student{}, &models.Teacher{},
		&models.Mentor{}, &models.EDA{}, &models.Contract{},
	))
	return db
}

type fixtures struct {
	maths, allemand models.Discipline
	dupont, ana     models.Student
	prof            models.Teacher
}

func seed(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{
		maths:    models.Discipline{Name: "Maths"},
		allemand: models.Discipline{Name: "Allemand"},
		dupont:   models.Student{Name: "Dupont", Vorname: "Marie", IDOD: "OD001", Classe: "2M1"},
		ana:      models.Student{Name: "Silva", Vorname: "Ana", IDOD: "OD002", Classe: "1C2"},
		prof:     models.Teacher{Name: "Muller", Vorname: "Jean"},
	}
	for _, m := range []any{&f.maths, &f.allemand, &f.dupont, &f.ana, &f.prof} {
		require.NoError(t, db.Create(m).Error)
	}
	return f
}

func mentorOf(f fixtures, student models.Student, discipline models.Discipline, year int) models.Mentor {
	return models.Mentor{
		StudentID:       student.ID,
		DisciplineID:    discipline.ID,
		TeacherID:       f.prof.ID,
		Year:            year,
		InscriptionDate: time.Date(year, 9, 15, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
}

func edaOf(f fixtures, student models.Student, discipline models.Discipline, year int) models.EDA {
	return models.EDA{
		StudentID:       student.ID,
		DisciplineID:    discipline.ID,
		TeacherID:       f.prof.ID,
		Year:            year,
		InscriptionDate: time.Date(year, 9, 20, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
}

func TestValidateMentorRejectsDuplicate(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	first := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&first).Error)

	dup := mentorOf(f, f.dupont, f.maths, 2025)
	v, err := ValidateMentor(db, &dup)
	require.NoError(t, err)
	require.Equal(t, CodeDuplicateEnrollment, v.Get("student"))
}

func TestValidateMentorAllowsDistinctKey(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	first := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&first).Error)

	cases := map[string]models.Mentor{
		"other discipline": mentorOf(f, f.dupont, f.allemand, 2025),
		"other year":       mentorOf(f, f.dupont, f.maths, 2026),
		"other student":    mentorOf(f, f.ana, f.maths, 2025),
	}
	for name, m := range cases {
		m := m
		t.Run(name, func(t *testing.T) {
			v, err := ValidateMentor(db, &m)
			require.NoError(t, err)
			require.True(t, v.Empty(), "unexpected violations: %v", v)
		})
	}
}

func TestValidateMentorUpdateSkipsOwnRow(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	m := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&m).Error)

	m.Remark = "disponible le mardi"
	v, err := ValidateMentor(db, &m)
	require.NoError(t, err)
	require.True(t, v.Empty())
}

func TestValidateEDARejectsDuplicate(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	first := edaOf(f, f.ana, f.maths, 2025)
	require.NoError(t, db.Create(&first).Error)

	dup := edaOf(f, f.ana, f.maths, 2025)
	v, err := ValidateEDA(db, &dup)
	require.NoError(t, err)
	require.Equal(t, CodeDuplicateEnrollment, v.Get("student"))

	// A mentor enrollment for the same key is a different role, not a
	// duplicate.
	asMentor := mentorOf(f, f.ana, f.maths, 2025)
	mv, err := ValidateMentor(db, &asMentor)
	require.NoError(t, err)
	require.True(t, mv.Empty())
}

func contractBetween(eda models.EDA, mentor models.Mentor, disciplineID uint, year int) models.Contract {
	return models.Contract{
		EDAID:        eda.ID,
		MentorID:     mentor.ID,
		DisciplineID: disciplineID,
		Year:         year,
		BeginDate:    time.Date(year, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateContractConsistent(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	eda := edaOf(f, f.ana, f.maths, 2025)
	mentor := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&eda).Error)
	require.NoError(t, db.Create(&mentor).Error)

	c := contractBetween(eda, mentor, f.maths.ID, 2025)
	v, err := ValidateContract(db, &c)
	require.NoError(t, err)
	require.True(t, v.Empty(), "unexpected violations: %v", v)
}

func TestValidateContractDisciplineMismatchWinsOverYear(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	eda := edaOf(f, f.ana, f.maths, 2025)
	mentor := mentorOf(f, f.dupont, f.allemand, 2024)
	require.NoError(t, db.Create(&eda).Error)
	require.NoError(t, db.Create(&mentor).Error)

	// Both the discipline and the year disagree; only the discipline is
	// reported, the year check waits until disciplines line up.
	c := contractBetween(eda, mentor, f.maths.ID, 2025)
	v, err := ValidateContract(db, &c)
	require.NoError(t, err)
	require.Equal(t, CodeInconsistentDiscipline, v.Get("discipline"))
	require.Empty(t, v.Get("year"))
}

func TestValidateContractYearMismatch(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	eda := edaOf(f, f.ana, f.maths, 2025)
	mentor := mentorOf(f, f.dupont, f.maths, 2024)
	require.NoError(t, db.Create(&eda).Error)
	require.NoError(t, db.Create(&mentor).Error)

	c := contractBetween(eda, mentor, f.maths.ID, 2025)
	v, err := ValidateContract(db, &c)
	require.NoError(t, err)
	require.Equal(t, CodeInconsistentYear, v.Get("year"))
	require.Empty(t, v.Get("discipline"))
}

func TestValidateContractEndBeforeBegin(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	eda := edaOf(f, f.ana, f.maths, 2025)
	mentor := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&eda).Error)
	require.NoError(t, db.Create(&mentor).Error)

	c := contractBetween(eda, mentor, f.maths.ID, 2025)
	end := c.BeginDate.AddDate(0, 0, -7)
	c.EndDate = &end
	v, err := ValidateContract(db, &c)
	require.NoError(t, err)
	require.Equal(t, CodeEndBeforeBegin, v.Get("end_date"))
}

func TestValidateContractMissingReferences(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	mentor := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&mentor).Error)

	c := models.Contract{EDAID: 999, MentorID: mentor.ID, DisciplineID: f.maths.ID, Year: 2025, BeginDate: time.Now()}
	v, err := ValidateContract(db, &c)
	require.NoError(t, err)
	require.Equal(t, CodeNotFound, v.Get("eda"))
}

func TestValidateContractParentChain(t *testing.T) {
	db := setupDB(t)
	f := seed(t, db)

	eda := edaOf(f, f.ana, f.maths, 2025)
	mentor := mentorOf(f, f.dupont, f.maths, 2025)
	require.NoError(t, db.Create(&eda).Error)
	require.NoError(t, db.Create(&mentor).Error)

	parent := contractBetween(eda, mentor, f.maths.ID, 2025)
	require.NoError(t, db.Create(&parent).Error)

	renewal := contractBetween(eda, mentor, f.maths.ID, 2025)
	renewal.ContractParentID = &parent.ID
	v, err := ValidateContract(db, &renewal)
	require.NoError(t, err)
	require.True(t, v.Empty(), "unexpected violations: %v", v)

	// Dangling parent reference.
	missing := uint(4242)
	renewal.ContractParentID = &missing
	v, err = ValidateContract(db, &renewal)
	require.NoError(t, err)
	require.Equal(t, CodeNotFound, v.Get("contract_parent"))

	// Cycle: the renewal exists and the parent is made to point back at it.
	renewal.ContractParentID = &parent.ID
	require.NoError(t, db.Create(&renewal).Error)
	require.NoError(t, db.Model(&parent).Update("contract_parent_id", renewal.ID).Error)
	v, err = ValidateContract(db, &renewal)
	require.NoError(t, err)
	require.Equal(t, CodeParentCycle, v.Get("contract_parent"))
}

func TestStructReportsFormFieldNames(t *testing.T) {
	type sample struct {
		DisciplineID uint   `form:"discipline" validate:"required"`
		Email        string `form:"email" validate:"omitempty,email"`
	}
	v := Struct(sample{Email: "pas-un-email"})
	require.Equal(t, CodeRequired, v.Get("discipline"))
	require.Equal(t, CodeInvalid, v.Get("email"))
}
