package validation

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/models"
)

// ValidateContract enforces the cross-entity consistency of a contract with
// its EDA and mentor: same discipline on all three, same year on all three.
// Discipline mismatches are reported regardless of the years; year checks
// only run once the disciplines agree. It also rejects a dangling or
// cyclic contract_parent chain. Nothing is coerced: a mismatch is always a
// form error for the user to resolve.
func ValidateContract(tx *gorm.DB, c *models.Contract) (Violations, error) {
	v := Violations{}

	var eda models.EDA
	if err := tx.First(&eda, c.EDAID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			v.Add("eda", CodeNotFound)
			return v, nil
		}
		return nil, err
	}
	var mentor models.Mentor
	if err := tx.First(&mentor, c.MentorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			v.Add("mentor", CodeNotFound)
			return v, nil
		}
		return nil, err
	}

	if c.DisciplineID != eda.DisciplineID || c.DisciplineID != mentor.DisciplineID {
		v.Add("discipline", CodeInconsistentDiscipline)
	} else if c.Year != eda.Year || c.Year != mentor.Year {
		v.Add("year", CodeInconsistentYear)
	}

	if c.EndDate != nil && c.EndDate.Before(c.BeginDate) {
		v.Add("end_date", CodeEndBeforeBegin)
	}

	if c.ContractParentID != nil {
		if err := checkParentChain(tx, c, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// checkParentChain walks contract_parent links with a visited set. Renewal
// chains are short in practice; a revisited id is a data-integrity problem
// reported as a violation rather than an infinite loop.
func checkParentChain(tx *gorm.DB, c *models.Contract, v Violations) error {
	seen := map[uint]bool{}
	if c.ID != 0 {
		seen[c.ID] = true
	}
	next := c.ContractParentID
	for next != nil {
		if seen[*next] {
			v.Add("contract_parent", CodeParentCycle)
			return nil
		}
		seen[*next] = true
		var parent models.Contract
		if err := tx.Select("id", "contract_parent_id").First(&parent, *next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				v.Add("contract_parent", CodeNotFound)
				return nil
			}
			return err
		}
		next = parent.ContractParentID
	}
	return nil
}
