package domain

// NormalizeResume applies creation defaults to a client-submitted document.
// It is a pure function: no side effects, every branch yields a value.
// Required scalar fields (title, full_name, professional_summary) are
// validated in the delivery layer before this runs.
func NormalizeResume(userID string, doc *ResumeDocument) *ResumeDocument {
	out := *doc

	out.UserID = userID
	out.Version = 1
	if out.Status == "" {
		out.Status = StatusDraft
	}

	// Downstream consumers must never see a nil contact: substitute a
	// structurally complete empty one.
	if out.Contact == nil {
		out.Contact = &Contact{}
	}
	if out.StylingPreferences == nil {
		out.StylingPreferences = &StylingPreferences{Template: "default"}
	} else if out.StylingPreferences.Template == "" {
		out.StylingPreferences.Template = "default"
	}

	// StringList decoding already coerces malformed input to empty; here we
	// only guard against fields that were absent entirely.
	if out.Keywords == nil {
		out.Keywords = StringList{}
	}
	if out.IndustryFocus == nil {
		out.IndustryFocus = StringList{}
	}
	if out.JobTitlesTargeted == nil {
		out.JobTitlesTargeted = StringList{}
	}

	return &out
}
