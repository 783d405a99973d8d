package handlers

import (
	"net/http"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
	"github.com/gybn/mentorat/internal/query"
)

type StatsHandler struct {
	DB   *gorm.DB
	Year int
}

func NewStatsHandler(db *gorm.DB, year int) *StatsHandler {
	return &StatsHandler{DB: db, Year: year}
}

// classeGroups are the class-name prefixes the yearly report breaks
// enrollments down by (1C..3C école de culture générale, 1M..3M maturité).
var classeGroups = []string{"1C", "2C", "3C", "1M", "2M", "3M"}

type DisciplineStats struct {
	Discipline models.Discipline
	Mentors    int
	EDAs       int
	Contracts  int
}

type ClasseStats struct {
	Group   string
	Mentors int
	EDAs    int
}

// List: GET /stats. Per-discipline and per-classe counts for the current
// program year.
func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	var disciplines []models.Discipline
	if err := h.DB.Order("name").Find(&disciplines).Error; err != nil {
		serverError(w, err)
		return
	}
	var mentors []models.Mentor
	if err := query.Mentors(h.DB, h.Year, query.EnrollmentFilter{}).
		Preload("Student").Find(&mentors).Error; err != nil {
		serverError(w, err)
		return
	}
	var edas []models.EDA
	if err := query.EDAs(h.DB, h.Year, query.EnrollmentFilter{}).
		Preload("Student").Find(&edas).Error; err != nil {
		serverError(w, err)
		return
	}
	var contracts []models.Contract
	if err := h.DB.Where("year = ?", h.Year).Find(&contracts).Error; err != nil {
		serverError(w, err)
		return
	}

	perDiscipline := make(map[uint]*DisciplineStats, len(disciplines))
	for _, d := range disciplines {
		perDiscipline[d.ID] = &DisciplineStats{Discipline: d}
	}
	perClasse := make(map[string]*ClasseStats, len(classeGroups))
	for _, g := range classeGroups {
		perClasse[g] = &ClasseStats{Group: g}
	}
	for _, m := range mentors {
		if s := perDiscipline[m.DisciplineID]; s != nil {
			s.Mentors++
		}
		if s := perClasse[classeGroup(m.Student.Classe)]; s != nil {
			s.Mentors++
		}
	}
	for _, e := range edas {
		if s := perDiscipline[e.DisciplineID]; s != nil {
			s.EDAs++
		}
		if s := perClasse[classeGroup(e.Student.Classe)]; s != nil {
			s.EDAs++
		}
	}
	for _, c := range contracts {
		if s := perDiscipline[c.DisciplineID]; s != nil {
			s.Contracts++
		}
	}

	rows := make([]DisciplineStats, 0, len(disciplines))
	for _, d := range disciplines {
		rows = append(rows, *perDiscipline[d.ID])
	}
	classes := make([]ClasseStats, 0, len(classeGroups))
	for _, g := range classeGroups {
		classes = append(classes, *perClasse[g])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Discipline.Name < rows[j].Discipline.Name
	})

	renderOr500(w, "stats.html", map[string]any{
		"ProgramYear":    h.Year,
		"Disciplines":    rows,
		"Classes":        classes,
		"TotalMentors":   len(mentors),
		"TotalEDAs":      len(edas),
		"TotalContracts": len(contracts),
	})
}

// classeGroup maps a class name like "2M01" to its reporting group "2M".
func classeGroup(classe string) string {
	classe = strings.ToUpper(strings.TrimSpace(classe))
	if len(classe) < 2 {
		return ""
	}
	return classe[:2]
}
