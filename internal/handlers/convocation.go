package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/pdf"
	"github.com/gybn/mentorat/internal/validation"
)

type ConvocationHandler struct {
	DB       *gorm.DB
	Renderer *pdf.Renderer
}

func NewConvocationHandler(db *gorm.DB, renderer *pdf.Renderer) *ConvocationHandler {
	return &ConvocationHandler{DB: db, Renderer: renderer}
}

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type convocationForm struct {
	Date    time.Time
	Time    string `form:"time"`
	Place   string `form:"place"`
	Message string `form:"message"`
}

func parseConvocationForm(r *http.Request) (convocationForm, validation.Violations) {
	_ = r.ParseForm()
	v := validation.Violations{}
	form := convocationForm{
		Time:    strings.TrimSpace(r.FormValue("time")),
		Place:   strings.TrimSpace(r.FormValue("place")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	d, ok := formDate(r, "date")
	if !ok {
		v.Add("date", validation.CodeRequired)
	}
	form.Date = d
	if form.Time == "" {
		v.Add("time", validation.CodeRequired)
	} else if !timeRe.MatchString(form.Time) {
		v.Add("time", validation.CodeInvalid)
	}
	if form.Place == "" {
		form.Place = models.DefaultConvocationPlace
	}
	return form, v
}

// CreateFromContract: GET|POST /convocations/create?contract_id=. On
// success the browser is sent straight to the generated PDF.
func (h *ConvocationHandler) CreateFromContract(w http.ResponseWriter, r *http.Request) {
	contractID := formUint(r, "contract_id")
	if contractID == 0 {
		notFound(w)
		return
	}
	var contract models.Contract
	if err := h.DB.Preload("EDA.Student").Preload("Mentor.Student").
		Preload("Discipline").First(&contract, contractID).Error; err != nil {
		notFound(w)
		return
	}
	data := map[string]any{
		"Status": "new", "Contract": contract,
		"DefaultPlace": models.DefaultConvocationPlace,
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "convocation_form.html", data)
		return
	}
	form, v := parseConvocationForm(r)
	data["Form"] = form
	if v.Empty() {
		convocation := models.Convocation{
			ContractID: contract.ID,
			Date:       form.Date,
			Time:       form.Time,
			Place:      form.Place,
			Message:    form.Message,
		}
		if err := h.DB.Create(&convocation).Error; err != nil {
			serverError(w, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/convocations/pdf?id=%d", convocation.ID), http.StatusSeeOther)
		return
	}
	data["Errors"] = v
	renderOr500(w, "convocation_form.html", data)
}

// Update: GET|POST /convocations/update?id=
func (h *ConvocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	convocation, ok := h.load(w, r)
	if !ok {
		return
	}
	data := map[string]any{
		"Status": "update", "Convocation": convocation, "Contract": convocation.Contract,
		"DefaultPlace": models.DefaultConvocationPlace,
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "convocation_form.html", data)
		return
	}
	form, v := parseConvocationForm(r)
	data["Form"] = form
	if v.Empty() {
		convocation.Date = form.Date
		convocation.Time = form.Time
		convocation.Place = form.Place
		convocation.Message = form.Message
		if err := h.DB.Save(&convocation).Error; err != nil {
			serverError(w, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/convocations/pdf?id=%d", convocation.ID), http.StatusSeeOther)
		return
	}
	data["Errors"] = v
	renderOr500(w, "convocation_form.html", data)
}

// Delete: GET shows a confirmation page, POST removes the convocation.
func (h *ConvocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	convocation, ok := h.load(w, r)
	if !ok {
		return
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "convocation_confirm_delete.html", map[string]any{
			"Convocation": convocation, "Contract": convocation.Contract,
		})
		return
	}
	if err := h.DB.Delete(&models.Convocation{}, convocation.ID).Error; err != nil {
		serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PDF: GET /convocations/pdf?id=. The letter date is the day the PDF is
// requested, not the day the convocation was recorded.
func (h *ConvocationHandler) PDF(w http.ResponseWriter, r *http.Request) {
	convocation, ok := h.load(w, r)
	if !ok {
		return
	}
	doc := pdf.ConvocationDoc{
		EDA:     personFromStudent(convocation.Contract.EDA.Student),
		Mentor:  personFromStudent(convocation.Contract.Mentor.Student),
		Date:    convocation.Date,
		Time:    convocation.Time,
		Place:   convocation.Place,
		Message: convocation.Message,
		Created: convocation.CreatedAt,
	}
	data, err := h.Renderer.Convocation(doc, time.Now())
	if err != nil {
		serverError(w, err)
		return
	}
	filename := "convocation_mentorat_" + slugify(convocation.Contract.EDA.Student.Name) +
		"_" + slugify(convocation.Contract.Mentor.Student.Name) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ConvocationHandler) load(w http.ResponseWriter, r *http.Request) (models.Convocation, bool) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return models.Convocation{}, false
	}
	var convocation models.Convocation
	if err := h.DB.Preload("Contract.EDA.Student").Preload("Contract.Mentor.Student").
		Preload("Contract.Discipline").First(&convocation, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return models.Convocation{}, false
	}
	return convocation, true
}
