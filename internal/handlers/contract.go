package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/pdf"
	"github.com/gybn/mentorat/internal/query"
	"github.com/gybn/mentorat/internal/validation"
)

type ContractHandler struct {
	DB       *gorm.DB
	Year     int
	Renderer *pdf.Renderer
}

func NewContractHandler(db *gorm.DB, year int, renderer *pdf.Renderer) *ContractHandler {
	return &ContractHandler{DB: db, Year: year, Renderer: renderer}
}

// contractForm: the EDA, discipline and year are seeded and locked; the
// operator picks the mentor and, on update, may close the contract by
// setting the end date.
type contractForm struct {
	MentorID uint `form:"mentor" validate:"required"`
	EndDate  *time.Time
	Remark   string `form:"remark"`
}

func parseContractForm(r *http.Request) (contractForm, validation.Violations) {
	_ = r.ParseForm()
	form := contractForm{
		MentorID: formUint(r, "mentor"),
		Remark:   strings.TrimSpace(r.FormValue("remark")),
	}
	if d, ok := formDate(r, "end_date"); ok {
		form.EndDate = &d
	}
	return form, validation.Struct(form)
}

// List: GET /contracts?eda=&mentor=&discipline=&begin_after=&end_before=
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	f := query.ContractFilter{
		EDAName:      r.URL.Query().Get("eda"),
		MentorName:   r.URL.Query().Get("mentor"),
		DisciplineID: uint(formInt(r, "discipline")),
	}
	if d, ok := formDate(r, "begin_after"); ok {
		f.BeginAfter = &d
	}
	if d, ok := formDate(r, "end_before"); ok {
		f.EndBefore = &d
	}
	var contracts []models.Contract
	if err := query.Contracts(h.DB, h.Year, f).
		Preload("EDA.Student").Preload("Mentor.Student").Preload("Discipline").
		Find(&contracts).Error; err != nil {
		serverError(w, err)
		return
	}
	choices, err := formChoices(h.DB)
	if err != nil {
		serverError(w, err)
		return
	}
	data := map[string]any{"Contracts": contracts, "Filter": f, "ProgramYear": h.Year}
	for k, v := range choices {
		data[k] = v
	}
	renderOr500(w, "contract_list.html", data)
}

// mentorChoices lists the active mentors able to take the contract's
// discipline, the same restriction the original form applied.
func (h *ContractHandler) mentorChoices(disciplineID uint, year int) ([]models.Mentor, error) {
	var mentors []models.Mentor
	err := query.Mentors(h.DB, year, query.EnrollmentFilter{DisciplineID: disciplineID}).
		Preload("Student").Find(&mentors).Error
	return mentors, err
}

// CreateFromEDA: GET|POST /contracts/create?eda_id=. Discipline and year
// come from the EDA and cannot be edited.
func (h *ContractHandler) CreateFromEDA(w http.ResponseWriter, r *http.Request) {
	edaID := formUint(r, "eda_id")
	if edaID == 0 {
		notFound(w)
		return
	}
	var eda models.EDA
	if err := h.DB.Preload("Student").Preload("Discipline").First(&eda, edaID).Error; err != nil {
		notFound(w)
		return
	}
	h.contractForm(w, r, contractSeed{
		EDA:          eda,
		DisciplineID: eda.DisciplineID,
		Year:         eda.Year,
	})
}

// Duplicate: GET|POST /contracts/duplicate?id=. A renewal seeded from the
// parent contract, keeping the same pairing and linking back via
// contract_parent.
func (h *ContractHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var parent models.Contract
	if err := h.DB.Preload("EDA.Student").Preload("EDA.Discipline").
		Preload("Mentor.Student").First(&parent, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	h.contractForm(w, r, contractSeed{
		EDA:          parent.EDA,
		DisciplineID: parent.EDA.DisciplineID,
		Year:         parent.EDA.Year,
		MentorID:     parent.MentorID,
		ParentID:     &parent.ID,
	})
}

type contractSeed struct {
	EDA          models.EDA
	DisciplineID uint
	Year         int
	MentorID     uint
	ParentID     *uint
}

func (h *ContractHandler) contractForm(w http.ResponseWriter, r *http.Request, seed contractSeed) {
	mentors, err := h.mentorChoices(seed.DisciplineID, seed.Year)
	if err != nil {
		serverError(w, err)
		return
	}
	var discipline models.Discipline
	if err := h.DB.First(&discipline, seed.DisciplineID).Error; err != nil {
		serverError(w, err)
		return
	}
	data := map[string]any{
		"Status": "new", "EDA": seed.EDA, "Discipline": discipline,
		"Year": seed.Year, "Mentors": mentors, "SeedMentorID": seed.MentorID,
		"ParentID": seed.ParentID,
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "contract_form.html", data)
		return
	}
	form, v := parseContractForm(r)
	data["Form"] = form
	if v.Empty() {
		contract := models.Contract{
			EDAID:            seed.EDA.ID,
			MentorID:         form.MentorID,
			DisciplineID:     seed.DisciplineID,
			ContractParentID: seed.ParentID,
			Year:             seed.Year,
			BeginDate:        time.Now(),
			EndDate:          form.EndDate,
			Remark:           form.Remark,
		}
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			dv, err := validation.ValidateContract(tx, &contract)
			if err != nil {
				return err
			}
			if !dv.Empty() {
				for f, code := range dv {
					v.Add(f, code)
				}
				return errRejected
			}
			return tx.Create(&contract).Error
		})
		if err == nil {
			http.Redirect(w, r, "/contracts", http.StatusSeeOther)
			return
		}
		if !errors.Is(err, errRejected) {
			serverError(w, err)
			return
		}
	}
	data["Errors"] = v
	renderOr500(w, "contract_form.html", data)
}

// Update: GET|POST /contracts/update?id=. Mentor, end date and remark are
// editable; setting the end date closes the contract for good.
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var contract models.Contract
	if err := h.DB.Preload("EDA.Student").Preload("Mentor.Student").
		Preload("Discipline").First(&contract, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	mentors, err := h.mentorChoices(contract.DisciplineID, contract.Year)
	if err != nil {
		serverError(w, err)
		return
	}
	data := map[string]any{
		"Status": "update", "Contract": contract, "EDA": contract.EDA,
		"Discipline": contract.Discipline, "Year": contract.Year,
		"Mentors": mentors, "SeedMentorID": contract.MentorID,
	}
	if r.Method == http.MethodGet {
		renderOr500(w, "contract_form.html", data)
		return
	}
	form, v := parseContractForm(r)
	data["Form"] = form
	if v.Empty() {
		contract.MentorID = form.MentorID
		contract.EndDate = form.EndDate
		contract.Remark = form.Remark
		err := h.DB.Transaction(func(tx *gorm.DB) error {
			dv, err := validation.ValidateContract(tx, &contract)
			if err != nil {
				return err
			}
			if !dv.Empty() {
				for f, code := range dv {
					v.Add(f, code)
				}
				return errRejected
			}
			return tx.Save(&contract).Error
		})
		if err == nil {
			http.Redirect(w, r, "/contracts", http.StatusSeeOther)
			return
		}
		if !errors.Is(err, errRejected) {
			serverError(w, err)
			return
		}
	}
	data["Errors"] = v
	renderOr500(w, "contract_form.html", data)
}

// PDF: GET /contracts/pdf?id=. Streams the printable contract form.
func (h *ContractHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		notFound(w)
		return
	}
	var contract models.Contract
	if err := h.DB.Preload("EDA.Student").Preload("Mentor.Student").
		Preload("Discipline").First(&contract, id).Error; err != nil {
		if isNotFound(err) {
			notFound(w)
			return
		}
		serverError(w, err)
		return
	}
	doc := pdf.ContractDoc{
		Discipline: contract.Discipline.Name,
		Mentor:     personFromStudent(contract.Mentor.Student),
		EDA:        personFromStudent(contract.EDA.Student),
		Created:    contract.CreatedAt,
	}
	data, err := h.Renderer.Contract(doc)
	if err != nil {
		serverError(w, err)
		return
	}
	filename := "contrat_mentorat_" + slugify(contract.EDA.Student.Name) + "_" + slugify(contract.Mentor.Student.Name) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func personFromStudent(s models.Student) pdf.Person {
	return pdf.Person{
		Name:     s.Name,
		Vorname:  s.Vorname,
		Classe:   s.Classe,
		Portable: s.Portable,
		Email:    s.Email,
	}
}
