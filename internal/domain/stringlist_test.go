package domain_test

import (
	"encoding/json"
	"testing"

	"go-resume-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStringListUnmarshal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  domain.StringList
	}{
		{"array of strings", `["a","b"]`, domain.StringList{"a", "b"}},
		{"empty array", `[]`, domain.StringList{}},
		{"bare string", `"golang"`, domain.StringList{}},
		{"number", `7`, domain.StringList{}},
		{"object", `{"a":1}`, domain.StringList{}},
		{"null", `null`, domain.StringList{}},
		{"mixed array", `["a",1]`, domain.StringList{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got domain.StringList
			err := json.Unmarshal([]byte(tc.input), &got)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStringListMarshalNilAsEmptyArray(t *testing.T) {
	var s domain.StringList
	b, err := json.Marshal(s)
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
