package types

// RawRow is the projection of a single spreadsheet data row: canonical field
// name -> raw cell text. Produced by the field mapper and consumed immediately
// by the record validator; absent optional fields are simply missing keys.
type RawRow map[string]string

// DocumentCategory identifies the kind of artifact a processor produces.
type DocumentCategory string

const (
	DocFullContract DocumentCategory = "FULL_CONTRACT"
	DocPartTime     DocumentCategory = "PART_TIME_CONTRACT"
	DocSubsidy      DocumentCategory = "SUBSIDY_CONTRACT"
	DocApe          DocumentCategory = "APE_AGREEMENT"
	DocAnnex        DocumentCategory = "ANNEX"
	DocDisclosure   DocumentCategory = "DISCLOSURE"
	DocCardID       DocumentCategory = "CARD_ID_REPORT"
	DocLawlife      DocumentCategory = "LAWLIFE_REPORT"
	DocSctr         DocumentCategory = "SCTR_REPORT"
	DocSctrApe      DocumentCategory = "SCTR_APE_REPORT"
)

// Subfolder returns the archive subfolder a document category is filed under.
func (d DocumentCategory) Subfolder() string {
	switch d {
	case DocAnnex:
		return "anexos"
	case DocDisclosure:
		return "declaraciones"
	case DocCardID, DocLawlife, DocSctr, DocSctrApe:
		return "reportes"
	default:
		return "contratos"
	}
}

// ValidationError describes one field-level violation found while validating a
// spreadsheet row. Row numbers are 1-based and include the header offset, so
// the first data row is row 2.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ContractResult is the outcome of one attempted artifact. Payload is present
// iff Success; Error is present iff not.
type ContractResult struct {
	Success  bool             `json:"success"`
	Filename string           `json:"filename"`
	Payload  []byte           `json:"-"`
	Error    string           `json:"error,omitempty"`
	Document DocumentCategory `json:"documentCategory"`
	Category ContractCategory `json:"contractCategory,omitempty"`
}

// Failed builds a failed ContractResult for an artifact that could not be
// generated.
func Failed(filename string, doc DocumentCategory, cat ContractCategory, err error) ContractResult {
	return ContractResult{
		Filename: filename,
		Error:    err.Error(),
		Document: doc,
		Category: cat,
	}
}
