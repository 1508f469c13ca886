// Package types provides type definitions for structured data shared across the
// contract generation pipeline.
package types

import "strings"

// ContractCategory classifies the employment relationship of a record. The set
// is closed; every validated record carries exactly one category.
type ContractCategory string

const (
	CategoryFullTime ContractCategory = "FULL_TIME"
	CategoryPartTime ContractCategory = "PART_TIME"
	CategorySubsidy  ContractCategory = "SUBSIDY"
	CategoryApe      ContractCategory = "APE"
)

// ContractCategories lists every valid category in a stable order.
var ContractCategories = []ContractCategory{
	CategoryFullTime,
	CategoryPartTime,
	CategorySubsidy,
	CategoryApe,
}

// categoryAliases maps normalized free-text spellings from the spreadsheet to
// their category. Keys are lowercased with spaces, hyphens and underscores
// removed.
var categoryAliases = map[string]ContractCategory{
	"planilla":       CategoryFullTime,
	"fulltime":       CategoryFullTime,
	"tiempocompleto": CategoryFullTime,
	"parttime":       CategoryPartTime,
	"parcial":        CategoryPartTime,
	"tiempoparcial":  CategoryPartTime,
	"subsidio":       CategorySubsidy,
	"subsidiado":     CategorySubsidy,
	"subsidy":        CategorySubsidy,
	"ape":            CategoryApe,
	"suplencia":      CategoryApe,
}

// NormalizeCategory maps a free-text contract-category cell to its category.
// Matching ignores case, spaces, hyphens and underscores. The second return
// reports whether the text was recognized; unrecognized-but-present text falls
// back to FULL_TIME so the batch keeps flowing (callers should log it).
func NormalizeCategory(raw string) (ContractCategory, bool) {
	key := strings.ToLower(raw)
	for _, cut := range []string{" ", "-", "_"} {
		key = strings.ReplaceAll(key, cut, "")
	}
	if cat, ok := categoryAliases[key]; ok {
		return cat, true
	}
	return CategoryFullTime, false
}

// Folder returns the archive folder name for the category: lowercase, no
// spaces.
func (c ContractCategory) Folder() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "")
}

// Substitution carries the temporary-replacement metadata an APE contract
// references: who is being replaced and why.
type Substitution struct {
	ReplacedWorker string `json:"replacedWorker"`
	Reason         string `json:"reason"`
}

// EmployeeRecord is the canonical validated entity produced from one
// spreadsheet row. Records are immutable after validation; every document
// processor receives the same instance.
type EmployeeRecord struct {
	DNI             string           `json:"dni" validate:"required,dni"`
	FirstNames      string           `json:"firstNames" validate:"required,max=120"`
	PaternalSurname string           `json:"paternalSurname" validate:"required,max=80"`
	MaternalSurname string           `json:"maternalSurname" validate:"max=80"`
	Email           string           `json:"email,omitempty" validate:"omitempty,email"`
	Address         string           `json:"address" validate:"required,max=200"`
	District        string           `json:"district" validate:"required,max=80"`
	Province        string           `json:"province" validate:"required,max=80"`
	Department      string           `json:"department" validate:"required,max=80"`
	Salary          float64          `json:"salary" validate:"required,gt=0"`
	SalaryInWords   string           `json:"salaryInWords" validate:"required,max=200"`
	Position        string           `json:"position" validate:"required,max=120"`
	Division        string           `json:"division" validate:"max=120"`
	SubDivision     string           `json:"subDivision" validate:"max=120"`
	EntryDate       string           `json:"entryDate" validate:"required,slashdate"`
	EndDate         string           `json:"endDate" validate:"omitempty,slashdate"`
	Category        ContractCategory `json:"contractCategory"`
	SCTR            string           `json:"sctr" validate:"max=10"`
	Substitution    *Substitution    `json:"substitution,omitempty"`
}

// FullName returns the display name used in document headers.
func (r EmployeeRecord) FullName() string {
	parts := []string{r.FirstNames, r.PaternalSurname, r.MaternalSurname}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// HasSCTR reports whether the record is flagged for social-insurance coverage.
// The spreadsheet cell is free text; any casing of "si" counts.
func (r EmployeeRecord) HasSCTR() bool {
	return strings.EqualFold(strings.TrimSpace(r.SCTR), "SI")
}

// Signer is one of the two fixed identities stamped onto every generated
// document.
type Signer struct {
	Name  string `json:"name"`
	DNI   string `json:"dni"`
	Title string `json:"title"`
}

// Signers holds the company-side signatories for a generation run.
type Signers struct {
	Representative Signer `json:"representative"`
	HumanResources Signer `json:"humanResources"`
}
