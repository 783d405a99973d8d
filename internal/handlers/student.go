package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/importer"
	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/query"
	"github.com/gybn/mentorat/internal/validation"
)

type StudentHandler struct {
	DB   *gorm.DB
	Year int
}

func NewStudentHandler(db *gorm.DB, year int) *StudentHandler {
	return &StudentHandler{DB: db, Year: year}
}

// studentForm edits contact fields only; identity (name, vorname, id_OD)
// is locked after creation.
type studentForm struct {
	Email    string `form:"email" validate:"omitempty,email,max=254"`
	Tel      string `form:"tel" validate:"max=13"`
	Portable string `form:"portable" validate:"max=13"`
	Classe   string `form:"classe" validate:"max=12"`
}

// List: GET /students?name=&vorname=
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	f := query.PersonFilter{
		Name:    r.URL.Query().Get("name"),
		Vorname: r.URL.Query().Get("vorname"),
	}
	var students []models.Student
	if err := query.Students(h.DB, f).Find(&students).Error; err != nil {
		serverError(w, err)
		return
	}
	renderOr500(w, "student_list.html", map[string]any{
		"Students": students,
		"Filter":   f,
	})
}

// Details: GET /students/details?id=. The student with their enrollments
// and this year's contracts on either side.
func (h *StudentHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var student models.Student
	if err := h.DB.First(&student, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	var contracts []models.Contract
	if err := query.ContractsForStudent(h.DB, h.Year, id).
		Preload("EDA.Student").Preload("Mentor.Student").Preload("Discipline").
		Find(&contracts).Error; err != nil {
		serverError(w, err)
		return
	}
	var mentors []models.Mentor
	if err := h.DB.Where("student_id = ? AND year = ?", id, h.Year).
		Preload("Discipline").Preload("Teacher").Find(&mentors).Error; err != nil {
		serverError(w, err)
		return
	}
	var edas []models.EDA
	if err := h.DB.Where("student_id = ? AND year = ?", id, h.Year).
		Preload("Discipline").Preload("Teacher").Find(&edas).Error; err != nil {
		serverError(w, err)
		return
	}
	renderOr500(w, "student_details.html", map[string]any{
		"Student":   student,
		"Contracts": contracts,
		"Mentors":   mentors,
		"EDAs":      edas,
	})
}

// Update: GET|POST /students/update?id=
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var student models.Student
	if err := h.DB.First(&student, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "student_form.html", map[string]any{"Student": student})
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulaire invalide", http.StatusBadRequest)
		return
	}
	form := studentForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Tel:      strings.TrimSpace(r.FormValue("tel")),
		Portable: strings.TrimSpace(r.FormValue("portable")),
		Classe:   strings.TrimSpace(r.FormValue("classe")),
	}
	if v := validation.Struct(form); !v.Empty() {
		renderOr500(w, "student_form.html", map[string]any{
			"Student": student, "Form": form, "Errors": v,
		})
		return
	}
	updates := map[string]any{
		"email": form.Email, "tel": form.Tel,
		"portable": form.Portable, "classe": form.Classe,
	}
	if err := h.DB.Model(&student).Updates(updates).Error; err != nil {
		serverError(w, err)
		return
	}
	http.Redirect(w, r, "/students/details?id="+r.URL.Query().Get("id"), http.StatusSeeOther)
}

// Import: GET|POST /students/import. CSV upload from the school registry.
func (h *StudentHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderOr500(w, "import_form.html", map[string]any{"Kind": "students"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		renderOr500(w, "import_form.html", map[string]any{
			"Kind": "students", "Error": "Fichier manquant.",
		})
		return
	}
	defer file.Close()
	rep, err := importer.Students(h.DB, file)
	if err != nil {
		renderOr500(w, "import_form.html", map[string]any{
			"Kind": "students", "Error": err.Error(),
		})
		return
	}
	renderOr500(w, "import_form.html", map[string]any{
		"Kind": "students", "Report": rep,
	})
}
