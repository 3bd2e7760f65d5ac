package domain

import "encoding/json"

// StringList is an ordered sequence of strings that tolerates malformed
// client input: anything that is not a JSON array of strings decodes to an
// empty list instead of failing the whole document bind.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an array (string, number, object, null) - coerce to empty.
		*s = StringList{}
		return nil
	}
	out := make(StringList, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			// Mixed-type arrays are treated as malformed wholesale.
			*s = StringList{}
			return nil
		}
		out = append(out, str)
	}
	*s = out
	return nil
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
