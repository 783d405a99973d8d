// Package importer loads the yearly student and teacher exports from the
// school registry. Rows are keyed on id_OD: known people get their mutable
// fields refreshed, unknown ones are created, rows are never deleted.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

// Report counts what an import run did.
type Report struct {
	Created int
	Updated int
	Skipped int
}

var ErrMissingHeader = errors.New("colonne id_OD manquante dans l'en-tête")

// header resolves column positions from the first CSV record.
type header map[string]int

func readHeader(rec []string) (header, error) {
	h := header{}
	for i, name := range rec {
		h[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := h["id_od"]; !ok {
		return nil, ErrMissingHeader
	}
	return h, nil
}

func (h header) get(rec []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Students imports the registry export (id_OD, name, vorname, classe,
// email). Existing students keep their identity fields; classe and email
// are refreshed. The whole file applies in one transaction.
func Students(db *gorm.DB, r io.Reader) (Report, error) {
	var rep Report
	err := db.Transaction(func(tx *gorm.DB) error {
		cr := csv.NewReader(r)
		cr.TrimLeadingSpace = true
		head, err := cr.Read()
		if err != nil {
			return fmt.Errorf("lecture de l'en-tête: %w", err)
		}
		h, err := readHeader(head)
		if err != nil {
			return err
		}
		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("lecture csv: %w", err)
			}
			idOD := h.get(rec, "id_od")
			if idOD == "" {
				rep.Skipped++
				continue
			}
			var s models.Student
			err = tx.Where("id_od = ?", idOD).First(&s).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				s = models.Student{
					IDOD:    idOD,
					Name:    h.get(rec, "name"),
					Vorname: h.get(rec, "vorname"),
					Classe:  h.get(rec, "classe"),
					Email:   h.get(rec, "email"),
				}
				if s.Name == "" || s.Vorname == "" {
					rep.Skipped++
					continue
				}
				if err := tx.Create(&s).Error; err != nil {
					return err
				}
				rep.Created++
			case err != nil:
				return err
			default:
				classe, email := h.get(rec, "classe"), h.get(rec, "email")
				if classe == s.Classe && (email == "" || email == s.Email) {
					rep.Skipped++
					continue
				}
				updates := map[string]any{"classe": classe}
				if email != "" {
					updates["email"] = email
				}
				if err := tx.Model(&s).Updates(updates).Error; err != nil {
					return err
				}
				rep.Updated++
			}
		}
	})
	return rep, err
}

// Teachers imports the teacher export (id_OD, name, vorname).
func Teachers(db *gorm.DB, r io.Reader) (Report, error) {
	var rep Report
	err := db.Transaction(func(tx *gorm.DB) error {
		cr := csv.NewReader(r)
		cr.TrimLeadingSpace = true
		head, err := cr.Read()
		if err != nil {
			return fmt.Errorf("lecture de l'en-tête: %w", err)
		}
		h, err := readHeader(head)
		if err != nil {
			return err
		}
		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("lecture csv: %w", err)
			}
			idOD := h.get(rec, "id_od")
			if idOD == "" {
				rep.Skipped++
				continue
			}
			var t models.Teacher
			err = tx.Where("id_od = ?", idOD).First(&t).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				name, vorname := h.get(rec, "name"), h.get(rec, "vorname")
				if name == "" || vorname == "" {
					rep.Skipped++
					continue
				}
				id := idOD
				if err := tx.Create(&models.Teacher{IDOD: &id, Name: name, Vorname: vorname}).Error; err != nil {
					return err
				}
				rep.Created++
			case err != nil:
				return err
			default:
				rep.Skipped++
			}
		}
	})
	return rep, err
}
