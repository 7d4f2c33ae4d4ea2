package utils

import (
	"strings"
	"unicode/utf8"

	"tasknest/models"
)

const MaxTitleLength = 255

// ValidateTaskInput trims the title and returns it, or a *models.ValidationError
// when nothing is left or it is too long.
func ValidateTaskInput(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &models.ValidationError{Field: "title", Reason: "is required"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", &models.ValidationError{Field: "title", Reason: "must be at most 255 characters"}
	}
	return trimmed, nil
}

// ValidatePatch normalizes the title of a patch in place.
func ValidatePatch(patch *models.TaskPatch) error {
	if patch.Title == nil {
		return nil
	}
	title, err := ValidateTaskInput(*patch.Title)
	if err != nil {
		return err
	}
	patch.Title = &title
	return nil
}
