package model

// TemplateField is one field of the literal JSON-shaped answer template
// found in the instruction text, in the order it was written.
type TemplateField struct {
	// Name is the field name exactly as written in the template.
	Name string `json:"name"`

	// Placeholder is the literal value the template shows for the field.
	// It may be a concrete value (a real URL, a number) or descriptive
	// filler ("your secret", "the code you scraped").
	Placeholder string `json:"placeholder,omitempty"`
}

// TaskDescription is the interpreted task parsed out of a ContentReport.
type TaskDescription struct {
	// InstructionText is the combined instruction text: visible page text,
	// decoded blocks, and audio transcripts, in that order.
	InstructionText string `json:"instruction_text"`

	// Incomplete marks instruction text suspected of being cut off
	// (truncated transcript, partial sentence). The interpreter still
	// executes the unambiguous, literally stated parts of the task; it
	// never invents steps the source text does not state.
	Incomplete bool `json:"incomplete"`

	// RequiredFields lists answer field names in template order.
	// Names and order are preserved exactly as written on the page.
	RequiredFields []string `json:"required_fields"`

	// Template holds the parsed template fields, aligned with RequiredFields.
	Template []TemplateField `json:"template,omitempty"`

	// SubmissionURL is the absolute URL to POST the answer to.
	// Relative paths found on the page resolve against the page's origin,
	// never the caller's.
	SubmissionURL string `json:"submission_url"`

	// DerivedParams maps parameter names to values computed from literal
	// instruction text (e.g. a cutoff derived from a hash of the email
	// parameter). Absent when the page states no computation.
	DerivedParams map[string]int64 `json:"derived_params,omitempty"`
}

// RequiredField reports whether name is one of the task's required fields.
func (t *TaskDescription) RequiredField(name string) bool {
	for _, f := range t.RequiredFields {
		if f == name {
			return true
		}
	}
	return false
}

// PlaceholderFor returns the template placeholder for the named field,
// or the empty string when the template shows none.
func (t *TaskDescription) PlaceholderFor(name string) string {
	for _, f := range t.Template {
		if f.Name == name {
			return f.Placeholder
		}
	}
	return ""
}
