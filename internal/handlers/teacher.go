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

type TeacherHandler struct{ DB *gorm.DB }

func NewTeacherHandler(db *gorm.DB) *TeacherHandler { return &TeacherHandler{DB: db} }

type teacherForm struct {
	Name    string `form:"name" validate:"required,max=50"`
	Vorname string `form:"vorname" validate:"required,max=50"`
	IDOD    string `form:"id_od" validate:"max=12"`
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	f := query.PersonFilter{
		Name:    r.URL.Query().Get("name"),
		Vorname: r.URL.Query().Get("vorname"),
	}
	var teachers []models.Teacher
	if err := query.Teachers(h.DB, f).Find(&teachers).Error; err != nil {
		serverError(w, err)
		return
	}
	renderOr500(w, "teacher_list.html", map[string]any{
		"Teachers": teachers,
		"Filter":   f,
	})
}

// Create: GET|POST /teachers/create
func (h *TeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderOr500(w, "teacher_form.html", map[string]any{"Status": "new"})
		return
	}
	form, v := h.parseForm(r)
	if !v.Empty() {
		renderOr500(w, "teacher_form.html", map[string]any{
			"Status": "new", "Form": form, "Errors": v,
		})
		return
	}
	teacher := models.Teacher{Name: form.Name, Vorname: form.Vorname}
	if form.IDOD != "" {
		teacher.IDOD = &form.IDOD
	}
	if err := h.DB.Create(&teacher).Error; err != nil {
		serverError(w, err)
		return
	}
	http.Redirect(w, r, "/teachers", http.StatusSeeOther)
}

// Update: GET|POST /teachers/update?id=
func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var teacher models.Teacher
	if err := h.DB.First(&teacher, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "teacher_form.html", map[string]any{"Status": "update", "Teacher": teacher})
		return
	}
	form, v := h.parseForm(r)
	if !v.Empty() {
		renderOr500(w, "teacher_form.html", map[string]any{
			"Status": "update", "Teacher": teacher, "Form": form, "Errors": v,
		})
		return
	}
	updates := map[string]any{"name": form.Name, "vorname": form.Vorname}
	if form.IDOD != "" {
		updates["id_od"] = form.IDOD
	}
	if err := h.DB.Model(&teacher).Updates(updates).Error; err != nil {
		serverError(w, err)
		return
	}
	http.Redirect(w, r, "/teachers", http.StatusSeeOther)
}

func (h *TeacherHandler) parseForm(r *http.Request) (teacherForm, validation.Violations) {
	_ = r.ParseForm()
	form := teacherForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Vorname: strings.TrimSpace(r.FormValue("vorname")),
		IDOD:    strings.TrimSpace(r.FormValue("id_od")),
	}
	return form, validation.Struct(form)
}

// Import: GET|POST /teachers/import
func (h *TeacherHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderOr500(w, "import_form.html", map[string]any{"Kind": "teachers"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		renderOr500(w, "import_form.html", map[string]any{
			"Kind": "teachers", "Error": "Fichier manquant.",
		})
		return
	}
	defer file.Close()
	rep, err := importer.Teachers(h.DB, file)
	if err != nil {
		renderOr500(w, "import_form.html", map[string]any{
			"Kind": "teachers", "Error": err.Error(),
		})
		return
	}
	renderOr500(w, "import_form.html", map[string]any{
		"Kind": "teachers", "Report": rep,
	})
}
