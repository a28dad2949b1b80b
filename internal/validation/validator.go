package validation

import (
	"net/url"
	"regexp"
	"strings"

	"wikiquiz/internal/domain"
)

const (
	maxURLLength       = 2000
	maxSelectedSection = 50
	maxHeadingLength   = 200
)

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateArticleURL validates the url field of article, quiz and summary requests.
func (v *Validator) ValidateArticleURL(rawURL string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		errors = append(errors, domain.NewMissingFieldError("url"))
		return errors
	}
	if len(rawURL) > maxURLLength {
		errors = append(errors, domain.NewOutOfRangeError("url", len(rawURL), 1, maxURLLength))
		return errors
	}
	if !isValidHTTPURL(rawURL) {
		errors = append(errors, domain.NewInvalidFormatError("url", rawURL))
	}

	return errors
}

// ValidateQuizRequest validates the quiz generation request
func (v *Validator) ValidateQuizRequest(rawURL, difficulty string, sections []string) domain.ValidationErrors {
	errors := v.ValidateArticleURL(rawURL)

	if _, err := domain.ParseDifficulty(difficulty); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("difficulty", difficulty))
	}

	if len(sections) > maxSelectedSection {
		errors = append(errors, domain.NewOutOfRangeError("sections", len(sections), 0, maxSelectedSection))
	}
	for _, s := range sections {
		if len(s) > maxHeadingLength {
			errors = append(errors, domain.NewOutOfRangeError("sections", len(s), 0, maxHeadingLength))
			break
		}
	}

	return errors
}

// ValidateID validates an article ID path parameter
func (v *Validator) ValidateID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}

	return errors
}

// Helper functions for validation

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	return len(s) == 26 && validULID.MatchString(s)
}

func isValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
