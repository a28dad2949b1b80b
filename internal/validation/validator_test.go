package validation

import (
	"strings"
	"testing"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidator_ValidateArticleURL(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		url      string
		wantCode domain.ErrorCode
	}{
		{"valid", "https://en.wikipedia.org/wiki/Alan_Turing", ""},
		{"empty", "  ", domain.CodeMissingField},
		{"no scheme", "en.wikipedia.org/wiki/Alan_Turing", domain.CodeInvalidFormat},
		{"ftp scheme", "ftp://en.wikipedia.org/wiki/Alan_Turing", domain.CodeInvalidFormat},
		{"too long", "https://en.wikipedia.org/" + strings.Repeat("a", 2100), domain.CodeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateArticleURL(tt.url)
			if tt.wantCode == "" {
				assert.Empty(t, errs)
				return
			}
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.wantCode, errs[0].Code)
				assert.Equal(t, "url", errs[0].Field)
			}
		})
	}
}

func TestValidator_ValidateQuizRequest(t *testing.T) {
	v := NewValidator()
	url := "https://en.wikipedia.org/wiki/Alan_Turing"

	assert.Empty(t, v.ValidateQuizRequest(url, "Hard", []string{"Early Life"}))
	assert.Empty(t, v.ValidateQuizRequest(url, "", nil))

	errs := v.ValidateQuizRequest(url, "impossible", nil)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "difficulty", errs[0].Field)
	}

	errs = v.ValidateQuizRequest("", "easy", []string{strings.Repeat("x", 300)})
	assert.Len(t, errs, 2)
}

func TestValidator_ValidateID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	errs := v.ValidateID("")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, domain.CodeMissingField, errs[0].Code)
	}

	errs = v.ValidateID("not-a-ulid")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	}

	// I, L, O and U are outside the Crockford alphabet.
	assert.NotEmpty(t, v.ValidateID("01ARZ3NDEKTSV4RRFFQ69G5FAI"))
}
