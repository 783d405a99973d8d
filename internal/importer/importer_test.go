package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

func setupImportDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Teacher{}))
	return db
}

func TestStudentsImportCreatesAndRefreshes(t *testing.T) {
	db := setupImportDB(t)

	first := strings.Join([]string{
		"id_OD,Name,Vorname,Classe,Email",
		"OD001,Dupont,Marie,1M1,marie@eleves.ch",
		"OD002,Silva,Ana,1C2,ana@eleves.ch",
	}, "\n")
	rep, err := Students(db, strings.NewReader(first))
	require.NoError(t, err)
	require.Equal(t, Report{Created: 2}, rep)

	// Next year's export: Marie moved up a class, Ana unchanged, one new
	// student. Identity fields of known students are never touched.
	second := strings.Join([]string{
		"id_OD,Name,Vorname,Classe,Email",
		"OD001,DUPONT-RENAMED,Marie,2M1,marie@eleves.ch",
		"OD002,Silva,Ana,1C2,ana@eleves.ch",
		"OD003,Rochat,Basile,1M2,basile@eleves.ch",
	}, "\n")
	rep, err = Students(db, strings.NewReader(second))
	require.NoError(t, err)
	require.Equal(t, Report{Created: 1, Updated: 1, Skipped: 1}, rep)

	var marie models.Student
	require.NoError(t, db.Where("id_od = ?", "OD001").First(&marie).Error)
	require.Equal(t, "Dupont", marie.Name)
	require.Equal(t, "2M1", marie.Classe)
}

func TestStudentsImportSkipsIncompleteRows(t *testing.T) {
	db := setupImportDB(t)

	csv := strings.Join([]string{
		"id_OD,Name,Vorname,Classe",
		",Dupont,Marie,1M1",
		"OD009,,Marie,1M1",
	}, "\n")
	rep, err := Students(db, strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, Report{Skipped: 2}, rep)
}

func TestStudentsImportRejectsMissingIDColumn(t *testing.T) {
	db := setupImportDB(t)
	_, err := Students(db, strings.NewReader("Name,Vorname\nDupont,Marie"))
	require.ErrorIs(t, err, ErrMissingHeader)

	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTeachersImportCreateOnly(t *testing.T) {
	db := setupImportDB(t)

	csv := "id_OD,Name,Vorname\nP100,Muller,Jean\nP101,Favre,Claire"
	rep, err := Teachers(db, strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, Report{Created: 2}, rep)

	// Re-importing the same file changes nothing.
	rep, err = Teachers(db, strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, Report{Skipped: 2}, rep)
}
