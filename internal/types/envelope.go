package types

// ValidationData is the payload of a successful validation response.
type ValidationData struct {
	TotalRecords int              `json:"totalRecords"`
	Employees    []EmployeeRecord `json:"employees"`
}

// ValidationResponse is the envelope returned by the validation endpoint.
// Either Data (schema passed) or Errors (schema failed) is populated.
type ValidationResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *ValidationData   `json:"data,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// CategoryCount summarizes artifact outcomes for one document category.
type CategoryCount struct {
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// GenerationSummary is the caller-facing roll-up of one generation run.
type GenerationSummary struct {
	RunID        string                             `json:"runId"`
	TotalRows    int                                `json:"totalRows"`
	ValidRecords int                                `json:"validRecords"`
	Generated    int                                `json:"generated"`
	Failed       int                                `json:"failed"`
	ByDocument   map[DocumentCategory]CategoryCount `json:"byDocument"`
	Failures     []ContractResult                   `json:"failures,omitempty"`
	DurationMS   int64                              `json:"durationMs"`
}
