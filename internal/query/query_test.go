package query

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

func setupQueryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Discipline{}, &models.Student{}, &models.Teacher{},
		&models.Mentor{}, &models.EDA{}, &models.Contract{}, &models.Convocation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, m any) {
	t.Helper()
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create %T: %v", m, err)
	}
}

func day(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

// One discipline, three students: Dupont mentors, Ana and Basile ask for
// help. The fixture covers both enrollment tables and a contract.
type queryFixture struct {
	maths, allemand models.Discipline
	dupont, ana     models.Student
	basile          models.Student
	prof            models.Teacher
	mentor          models.Mentor
	edaAna          models.EDA
	edaBasile       models.EDA
}

func seedQueryFixture(t *testing.T, db *gorm.DB) queryFixture {
	t.Helper()
	f := queryFixture{
		maths:    models.Discipline{Name: "Maths"},
		allemand: models.Discipline{Name: "Allemand"},
		dupont:   models.Student{Name: "Dupont", Vorname: "Marie", IDOD: "OD001", Classe: "3M1"},
		ana:      models.Student{Name: "Silva", Vorname: "Ana", IDOD: "OD002", Classe: "1C2"},
		basile:   models.Student{Name: "Rochat", Vorname: "Basile", IDOD: "OD003", Classe: "2M2"},
		prof:     models.Teacher{Name: "Muller", Vorname: "Jean"},
	}
	mustCreate(t, db, &f.maths)
	mustCreate(t, db, &f.allemand)
	mustCreate(t, db, &f.dupont)
	mustCreate(t, db, &f.ana)
	mustCreate(t, db, &f.basile)
	mustCreate(t, db, &f.prof)

	f.mentor = models.Mentor{
		StudentID: f.dupont.ID, DisciplineID: f.maths.ID, TeacherID: f.prof.ID,
		Year: 2025, InscriptionDate: day(2025, 9, 10), IsActive: true,
	}
	mustCreate(t, db, &f.mentor)
	f.edaAna = models.EDA{
		StudentID: f.ana.ID, DisciplineID: f.maths.ID, TeacherID: f.prof.ID,
		Year: 2025, InscriptionDate: day(2025, 9, 20), IsActive: true,
	}
	mustCreate(t, db, &f.edaAna)
	f.edaBasile = models.EDA{
		StudentID: f.basile.ID, DisciplineID: f.allemand.ID, TeacherID: f.prof.ID,
		Year: 2025, InscriptionDate: day(2025, 9, 12), IsActive: true,
	}
	mustCreate(t, db, &f.edaBasile)
	return f
}

func TestStudentsFilterComposesAND(t *testing.T) {
	db := setupQueryDB(t)
	seedQueryFixture(t, db)

	var got []models.Student
	if err := Students(db, PersonFilter{Name: "sil", Vorname: "ana"}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Silva" {
		t.Fatalf("expected the single Silva/Ana row, got %v", got)
	}

	// Both fragments must match: right name, wrong vorname yields nothing.
	if err := Students(db, PersonFilter{Name: "sil", Vorname: "marie"}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %v", got)
	}
}

func TestMentorsScopeYearAndActive(t *testing.T) {
	db := setupQueryDB(t)
	f := seedQueryFixture(t, db)

	// Inactive and other-year enrollments stay out of the listing.
	inactive := models.Mentor{
		StudentID: f.ana.ID, DisciplineID: f.maths.ID, TeacherID: f.prof.ID,
		Year: 2025, InscriptionDate: day(2025, 9, 11), IsActive: false,
	}
	mustCreate(t, db, &inactive)
	lastYear := models.Mentor{
		StudentID: f.basile.ID, DisciplineID: f.maths.ID, TeacherID: f.prof.ID,
		Year: 2024, InscriptionDate: day(2024, 9, 11), IsActive: true,
	}
	mustCreate(t, db, &lastYear)

	var got []models.Mentor
	if err := Mentors(db, 2025, EnrollmentFilter{}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != f.mentor.ID {
		t.Fatalf("expected only the active 2025 mentor, got %v", got)
	}
}

func TestEDAsOrderedByInscriptionDate(t *testing.T) {
	db := setupQueryDB(t)
	f := seedQueryFixture(t, db)

	var got []models.EDA
	if err := EDAs(db, 2025, EnrollmentFilter{}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 EDAs, got %d", len(got))
	}
	// Basile asked on the 12th, Ana on the 20th: oldest request first.
	if got[0].ID != f.edaBasile.ID || got[1].ID != f.edaAna.ID {
		t.Fatalf("wrong order: %v", got)
	}
}

func TestEDAsWithoutOpenContract(t *testing.T) {
	db := setupQueryDB(t)
	f := seedQueryFixture(t, db)

	contract := models.Contract{
		EDAID: f.edaAna.ID, MentorID: f.mentor.ID, DisciplineID: f.maths.ID,
		Year: 2025, BeginDate: day(2025, 10, 1),
	}
	mustCreate(t, db, &contract)

	var waiting []models.EDA
	if err := EDAsWithoutOpenContract(db, 2025, EnrollmentFilter{}).Find(&waiting).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(waiting) != 1 || waiting[0].ID != f.edaBasile.ID {
		t.Fatalf("expected only Basile waiting, got %v", waiting)
	}

	// Closing the contract puts Ana back in the waiting list.
	end := day(2025, 12, 15)
	if err := db.Model(&contract).Update("end_date", end).Error; err != nil {
		t.Fatalf("close contract: %v", err)
	}
	if err := EDAsWithoutOpenContract(db, 2025, EnrollmentFilter{}).Find(&waiting).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(waiting) != 2 {
		t.Fatalf("expected both EDAs waiting after closure, got %v", waiting)
	}
}

func TestContractsFilters(t *testing.T) {
	db := setupQueryDB(t)
	f := seedQueryFixture(t, db)

	c1 := models.Contract{
		EDAID: f.edaAna.ID, MentorID: f.mentor.ID, DisciplineID: f.maths.ID,
		Year: 2025, BeginDate: day(2025, 10, 1),
	}
	mustCreate(t, db, &c1)
	end := day(2025, 11, 30)
	c2 := models.Contract{
		EDAID: f.edaBasile.ID, MentorID: f.mentor.ID, DisciplineID: f.allemand.ID,
		Year: 2025, BeginDate: day(2025, 10, 15), EndDate: &end,
	}
	mustCreate(t, db, &c2)

	var got []models.Contract
	if err := Contracts(db, 2025, ContractFilter{EDAName: "sil"}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != c1.ID {
		t.Fatalf("eda name filter: got %v", got)
	}

	// begin_after is strict: a contract starting exactly on the bound is
	// excluded.
	bound := day(2025, 10, 1)
	if err := Contracts(db, 2025, ContractFilter{BeginAfter: &bound}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != c2.ID {
		t.Fatalf("begin_after filter: got %v", got)
	}

	before := day(2025, 12, 1)
	if err := Contracts(db, 2025, ContractFilter{EndBefore: &before}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != c2.ID {
		t.Fatalf("end_before filter: got %v", got)
	}
}

func TestOpenContractsForEDA(t *testing.T) {
	db := setupQueryDB(t)
	f := seedQueryFixture(t, db)

	c := models.Contract{
		EDAID: f.edaAna.ID, MentorID: f.mentor.ID, DisciplineID: f.maths.ID,
		Year: 2025, BeginDate: day(2025, 10, 1),
	}
	mustCreate(t, db, &c)

	var got []models.Contract
	if err := OpenContractsForEDA(db, f.edaAna.ID).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 open contract, got %d", len(got))
	}

	end := day(2026, 1, 10)
	if err := db.Model(&c).Update("end_date", end).Error; err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := OpenContractsForEDA(db, f.edaAna.ID).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("closed contract still listed as open: %v", got)
	}

	// The year listing keeps it.
	if err := Contracts(db, 2025, ContractFilter{}).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("closed contract missing from year listing: %v", got)
	}
}

func TestUpcomingConvocations(t *testing.T) {
	db := setupQueryDB(t)
	f := seedQueryFixture(t, db)

	c := models.Contract{
		EDAID: f.edaAna.ID, MentorID: f.mentor.ID, DisciplineID: f.maths.ID,
		Year: 2025, BeginDate: day(2025, 10, 1),
	}
	mustCreate(t, db, &c)
	past := models.Convocation{ContractID: c.ID, Date: day(2025, 10, 5), Time: "12:15", Place: "B123"}
	future := models.Convocation{ContractID: c.ID, Date: day(2025, 11, 5), Time: "12:15", Place: "B123"}
	mustCreate(t, db, &past)
	mustCreate(t, db, &future)

	var got []models.Convocation
	if err := UpcomingConvocations(db, day(2025, 10, 20)).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != future.ID {
		t.Fatalf("expected only the future convocation, got %v", got)
	}
}
