package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

//go:embed documents/*.html
var documentFS embed.FS

// Template names resolvable through Fill.
const (
	ContractFullTime = "contract_fulltime.html"
	ContractPartTime = "contract_parttime.html"
	ContractSubsidy  = "contract_subsidy.html"
	ApeAgreement     = "ape_agreement.html"
	Annex            = "annex.html"
	Disclosure       = "disclosure.html"
)

// Data is the single shape every document template receives.
type Data struct {
	Record  types.EmployeeRecord
	Signers types.Signers
	Date    string // long-form generation date
	Salary  string // formatted numeric salary
}

// Engine holds the compiled template set. Compile once, fill many times; Fill
// is safe for concurrent use.
type Engine struct {
	set *template.Template
	now func() time.Time
}

// NewEngine parses the embedded document templates.
func NewEngine(now func() time.Time) (*Engine, error) {
	if now == nil {
		now = time.Now
	}
	set, err := template.ParseFS(documentFS, "documents/*.html")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse document templates", Cause: err}
	}
	return &Engine{set: set, now: now}, nil
}

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func longDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// Fill executes the named template for one record and returns the markup.
func (e *Engine) Fill(name string, rec types.EmployeeRecord, signers types.Signers) (string, error) {
	tmpl := e.set.Lookup(name)
	if tmpl == nil {
		return "", &TemplateError{Message: fmt.Sprintf("unknown document template %q", name)}
	}
	data := Data{
		Record:  rec,
		Signers: signers,
		Date:    longDate(e.now()),
		Salary:  fmt.Sprintf("S/ %.2f", rec.Salary),
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to execute template %q", name), Cause: err}
	}
	return out.String(), nil
}
