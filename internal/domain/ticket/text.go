package ticket

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"fastighet/internal/shared/errors"
)

const (
	TitleMinLength       = 5
	TitleMaxLength       = 255
	DescriptionMinLength = 10
	DescriptionMaxLength = 5000
	CommentMinLength     = 1
	CommentMaxLength     = 2000
)

// normalizeText trims surrounding whitespace and composes the text to NFC so
// that "å" typed as a+ring counts as one character.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// checkLength validates an already normalised value against a character range.
func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		if min == 1 {
			return errors.NewValidationError(fmt.Sprintf("%s is required", field))
		}
		return errors.NewValidationError(fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	if n > max {
		return errors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = normalizeText(title)
	return title, checkLength("title", title, TitleMinLength, TitleMaxLength)
}

func validateDescription(description string) (string, error) {
	description = normalizeText(description)
	return description, checkLength("description", description, DescriptionMinLength, DescriptionMaxLength)
}

func validateCommentContent(content string) (string, error) {
	content = normalizeText(content)
	return content, checkLength("content", content, CommentMinLength, CommentMaxLength)
}

func validationErr(message string) error {
	return errors.NewValidationError(message)
}
