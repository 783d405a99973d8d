package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/query"
)

// DashboardHandler renders the home page: disciplines, the active
// enrollments of the program year, the running contracts and the upcoming
// convocations.
type DashboardHandler struct {
	DB   *gorm.DB
	Year int
}

func NewDashboardHandler(db *gorm.DB, year int) *DashboardHandler {
	return &DashboardHandler{DB: db, Year: year}
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFound(w)
		return
	}

	var disciplines []models.Discipline
	if err := h.DB.Order("name").Find(&disciplines).Error; err != nil {
		serverError(w, err)
		return
	}
	var mentors []models.Mentor
	if err := query.Mentors(h.DB, h.Year, query.EnrollmentFilter{}).
		Preload("Student").Preload("Discipline").Find(&mentors).Error; err != nil {
		serverError(w, err)
		return
	}
	var edas []models.EDA
	if err := query.EDAs(h.DB, h.Year, query.EnrollmentFilter{}).
		Preload("Student").Preload("Discipline").Find(&edas).Error; err != nil {
		serverError(w, err)
		return
	}
	var contracts []models.Contract
	if err := query.OpenContracts(h.DB, h.Year).
		Preload("EDA.Student").Preload("Mentor.Student").Preload("Discipline").
		Find(&contracts).Error; err != nil {
		serverError(w, err)
		return
	}
	var convocations []models.Convocation
	if err := query.UpcomingConvocations(h.DB, time.Now()).
		Preload("Contract.EDA.Student").Preload("Contract.Mentor.Student").
		Find(&convocations).Error; err != nil {
		serverError(w, err)
		return
	}

	renderOr500(w, "index.html", map[string]any{
		"Disciplines":    disciplines,
		"Mentors":        mentors,
		"NbMentors":      len(mentors),
		"EDAs":           edas,
		"NbEDAs":         len(edas),
		"Contracts":      contracts,
		"NbContracts":    len(contracts),
		"Convocations":   convocations,
		"NbConvocations": len(convocations),
		"ProgramYear":    h.Year,
	})
}
