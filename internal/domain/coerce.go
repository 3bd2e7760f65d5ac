package domain

import "encoding/json"

// Malformed embedded objects are coerced to empty values rather than failing
// the document bind; NormalizeResume then fills in creation defaults. This
// mirrors how list fields behave (see StringList).

func (c *Contact) UnmarshalJSON(data []byte) error {
	type alias Contact
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*c = Contact{}
		return nil
	}
	*c = Contact(a)
	return nil
}

func (s *StylingPreferences) UnmarshalJSON(data []byte) error {
	type alias StylingPreferences
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*s = StylingPreferences{Template: "default"}
		return nil
	}
	*s = StylingPreferences(a)
	return nil
}
