package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/query"
	"github.com/gybn/mentorat/internal/validation"
)

// errRejected aborts a write transaction after a rule violation; the
// violations themselves travel in the handler-scoped map.
var errRejected = errors.New("validation rejected")

type MentorHandler struct {
	DB   *gorm.DB
	Year int
}

func NewMentorHandler(db *gorm.DB, year int) *MentorHandler {
	return &MentorHandler{DB: db, Year: year}
}

// enrollmentForm covers Mentor and EDA creation/update: same shape, same
// rules. The student is seeded from the detail page and locked in the form.
type enrollmentForm struct {
	DisciplineID uint   `form:"discipline" validate:"required"`
	TeacherID    uint   `form:"teacher" validate:"required"`
	Year         int    `form:"year" validate:"required"`
	Remark       string `form:"remark"`
	IsActive     bool   `form:"is_active"`
}

func parseEnrollmentForm(r *http.Request, defaultYear int) (enrollmentForm, validation.Violations) {
	_ = r.ParseForm()
	form := enrollmentForm{
		DisciplineID: formUint(r, "discipline"),
		TeacherID:    formUint(r, "teacher"),
		Year:         formInt(r, "year"),
		Remark:       strings.TrimSpace(r.FormValue("remark")),
		IsActive:     r.FormValue("is_active") != "",
	}
	if form.Year == 0 {
		form.Year = defaultYear
	}
	if r.Method == http.MethodGet {
		form.IsActive = true
	}
	return form, validation.Struct(form)
}

// formChoices loads the select-box options shared by the enrollment forms.
func formChoices(db *gorm.DB) (map[string]any, error) {
	var disciplines []models.Discipline
	if err := db.Order("name").Find(&disciplines).Error; err != nil {
		return nil, err
	}
	var teachers []models.Teacher
	if err := db.Order("name").Find(&teachers).Error; err != nil {
		return nil, err
	}
	return map[string]any{"Disciplines": disciplines, "Teachers": teachers}, nil
}

// List: GET /mentors?student=&discipline=. Active mentors of the year.
func (h *MentorHandler) List(w http.ResponseWriter, r *http.Request) {
	f := query.EnrollmentFilter{
		StudentName:  r.URL.Query().Get("student"),
		DisciplineID: uint(formInt(r, "discipline")),
	}
	var mentors []models.Mentor
	if err := query.Mentors(h.DB, h.Year, f).
		Preload("Student").Preload("Discipline").Preload("Teacher").
		Find(&mentors).Error; err != nil {
		serverError(w, err)
		return
	}
	choices, err := formChoices(h.DB)
	if err != nil {
		serverError(w, err)
		return
	}
	data := map[string]any{"Mentors": mentors, "Filter": f, "ProgramYear": h.Year}
	for k, v := range choices {
		data[k] = v
	}
	renderOr500(w, "mentor_list.html", data)
}

// Details: GET /mentors/details?id=
func (h *MentorHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var mentor models.Mentor
	if err := h.DB.Preload("Student").Preload("Discipline").Preload("Teacher").
		First(&mentor, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	var contracts []models.Contract
	if err := h.DB.Where("mentor_id = ? AND year = ?", id, h.Year).
		Preload("EDA.Student").Preload("Discipline").
		Order("begin_date").Order("id").Find(&contracts).Error; err != nil {
		serverError(w, err)
		return
	}
	renderOr500(w, "mentor_details.html", map[string]any{
		"Mentor":    mentor,
		"Contracts": contracts,
	})
}

// Create: GET|POST /mentors/create?student_id=. Seeded from a student.
func (h *MentorHandler) Create(w http.ResponseWriter, r *http.Request) {
	studentID := formUint(r, "student_id")
	if studentID == 0 {
		notFound(w)
		return
	}
	var student models.Student
	if err := h.DB.First(&student, studentID).Error; err != nil {
		notFound(w)
		return
	}

	form, v := parseEnrollmentForm(r, h.Year)
	choices, cerr := formChoices(h.DB)
	if cerr != nil {
		serverError(w, cerr)
		return
	}
	data := map[string]any{"Status": "new", "Student": student, "Form": form, "Kind": "mentor"}
	for k, val := range choices {
		data[k] = val
	}

	if r.Method == http.MethodGet {
		renderOr500(w, "enrollment_form.html", data)
		return
	}
	if v.Empty() {
		mentor := models.Mentor{
			StudentID:       student.ID,
			DisciplineID:    form.DisciplineID,
			TeacherID:       form.TeacherID,
			Year:            form.Year,
			InscriptionDate: time.Now(),
			Remark:          form.Remark,
			IsActive:        form.IsActive,
		}
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			dv, err := validation.ValidateMentor(tx, &mentor)
			if err != nil {
				return err
			}
			if !dv.Empty() {
				for f, code := range dv {
					v.Add(f, code)
				}
				return errRejected
			}
			return tx.Create(&mentor).Error
		})
		if err == nil {
			http.Redirect(w, r, "/mentors", http.StatusSeeOther)
			return
		}
		if !errors.Is(err, errRejected) {
			serverError(w, err)
			return
		}
	}
	data["Errors"] = v
	renderOr500(w, "enrollment_form.html", data)
}

// Update: GET|POST /mentors/update?id=
func (h *MentorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var mentor models.Mentor
	if err := h.DB.Preload("Student").First(&mentor, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	choices, cerr := formChoices(h.DB)
	if cerr != nil {
		serverError(w, cerr)
		return
	}
	data := map[string]any{"Status": "update", "Student": mentor.Student, "Enrollment": mentor, "Kind": "mentor"}
	for k, val := range choices {
		data[k] = val
	}

	if r.Method == http.MethodGet {
		renderOr500(w, "enrollment_form.html", data)
		return
	}
	form, v := parseEnrollmentForm(r, h.Year)
	data["Form"] = form
	if v.Empty() {
		mentor.DisciplineID = form.DisciplineID
		mentor.TeacherID = form.TeacherID
		mentor.Year = form.Year
		mentor.Remark = form.Remark
		mentor.IsActive = form.IsActive
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			dv, err := validation.ValidateMentor(tx, &mentor)
			if err != nil {
				return err
			}
			if !dv.Empty() {
				for f, code := range dv {
					v.Add(f, code)
				}
				return errRejected
			}
			return tx.Save(&mentor).Error
		})
		if err == nil {
			http.Redirect(w, r, "/mentors", http.StatusSeeOther)
			return
		}
		if !errors.Is(err, errRejected) {
			serverError(w, err)
			return
		}
	}
	data["Errors"] = v
	renderOr500(w, "enrollment_form.html", data)
}
