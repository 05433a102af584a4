// utils/validator.go - Input validation
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// MinReviewCommentLength is the minimum combined length of the reviewer's
// comment fields before a review may be submitted.
const MinReviewCommentLength = 50

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// ValidateRatings checks every rating is inside the 1..5 scale.
func ValidateRatings(ratings []int) error {
	for i, r := range ratings {
		if r < 1 || r > 5 {
			return fmt.Errorf("rating %d out of range: %d (must be 1-5)", i+1, r)
		}
	}
	return nil
}

// ValidateDraftRatings checks only the ratings that have been set. A zero
// value means the reviewer has not picked that rating yet.
func ValidateDraftRatings(ratings []int) error {
	for i, r := range ratings {
		if r != 0 && (r < 1 || r > 5) {
			return fmt.Errorf("rating %d out of range: %d (must be 1-5)", i+1, r)
		}
	}
	return nil
}

// ValidateReviewComments enforces the minimum combined comment length.
func ValidateReviewComments(commentsToAuthor, confidentialComments string) error {
	combined := strings.TrimSpace(commentsToAuthor) + strings.TrimSpace(confidentialComments)
	if len(combined) < MinReviewCommentLength {
		return fmt.Errorf("combined review comments must be at least %d characters", MinReviewCommentLength)
	}
	return nil
}
