package handlers

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/query"
	"github.com/gybn/mentorat/internal/validation"
)

type EDAHandler struct {
	DB   *gorm.DB
	Year int
}

func NewEDAHandler(db *gorm.DB, year int) *EDAHandler {
	return &EDAHandler{DB: db, Year: year}
}

// List: GET /edas?student=&discipline=. Active EDAs of the year, oldest
// requests first.
func (h *EDAHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// Waiting: GET /edas/waiting. EDAs with no open contract yet.
func (h *EDAHandler) Waiting(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *EDAHandler) list(w http.ResponseWriter, r *http.Request, waitingOnly bool) {
	f := query.EnrollmentFilter{
		StudentName:  r.URL.Query().Get("student"),
		DisciplineID: uint(formInt(r, "discipline")),
	}
	q := query.EDAs(h.DB, h.Year, f)
	title := "Liste des élèves demandeurs d'aide"
	if waitingOnly {
		q = query.EDAsWithoutOpenContract(h.DB, h.Year, f)
		title = "EDA sans contrat actif"
	}
	var edas []models.EDA
	if err := q.Preload("Student").Preload("Discipline").Preload("Teacher").
		Find(&edas).Error; err != nil {
		serverError(w, err)
		return
	}
	choices, err := formChoices(h.DB)
	if err != nil {
		serverError(w, err)
		return
	}
	data := map[string]any{
		"EDAs": edas, "Filter": f, "Title": title,
		"Waiting": waitingOnly, "ProgramYear": h.Year,
	}
	for k, v := range choices {
		data[k] = v
	}
	renderOr500(w, "eda_list.html", data)
}

// Details: GET /edas/details?id=
func (h *EDAHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var eda models.EDA
	if err := h.DB.Preload("Student").Preload("Discipline").Preload("Teacher").
		First(&eda, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	var contracts []models.Contract
	if err := h.DB.Where("eda_id = ? AND year = ?", id, h.Year).
		Preload("Mentor.Student").Preload("Discipline").
		Order("begin_date").Order("id").Find(&contracts).Error; err != nil {
		serverError(w, err)
		return
	}
	renderOr500(w, "eda_details.html", map[string]any{
		"EDA":       eda,
		"Contracts": contracts,
	})
}

// Create: GET|POST /edas/create?student_id=. Seeded from a student.
func (h *EDAHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	data := map[string]any{"Status": "new", "Student": student, "Form": form, "Kind": "eda"}
	for k, val := range choices {
		data[k] = val
	}

	if r.Method == http.MethodGet {
		renderOr500(w, "enrollment_form.html", data)
		return
	}
	if v.Empty() {
		eda := models.EDA{
			StudentID:       student.ID,
			DisciplineID:    form.DisciplineID,
			TeacherID:       form.TeacherID,
			Year:            form.Year,
			InscriptionDate: time.Now(),
			Remark:          form.Remark,
			IsActive:        form.IsActive,
		}
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			dv, err := validation.ValidateEDA(tx, &eda)
			if err != nil {
				return err
			}
			if !dv.Empty() {
				for f, code := range dv {
					v.Add(f, code)
				}
				return errRejected
			}
			return tx.Create(&eda).Error
		})
		if err == nil {
			http.Redirect(w, r, "/edas", http.StatusSeeOther)
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

// Update: GET|POST /edas/update?id=
func (h *EDAHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var eda models.EDA
	if err := h.DB.Preload("Student").First(&eda, id).Error; err != nil {
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
	data := map[string]any{"Status": "update", "Student": eda.Student, "Enrollment": eda, "Kind": "eda"}
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
		eda.DisciplineID = form.DisciplineID
		eda.TeacherID = form.TeacherID
		eda.Year = form.Year
		eda.Remark = form.Remark
		eda.IsActive = form.IsActive
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			dv, err := validation.ValidateEDA(tx, &eda)
			if err != nil {
				return err
			}
			if !dv.Empty() {
				for f, code := range dv {
					v.Add(f, code)
				}
				return errRejected
			}
			return tx.Save(&eda).Error
		})
		if err == nil {
			http.Redirect(w, r, "/edas", http.StatusSeeOther)
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
