package domain

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MinTitleLength is the minimum trimmed title length, in characters.
	MinTitleLength = 2
	MinRating      = 0
	MaxRating      = 10
	// DefaultRating is the value the add form's rating control resets to.
	DefaultRating = 5
)

// TitleValidationMessage is reported on the title field when validation fails.
const TitleValidationMessage = "Title must be at least 2 characters long."

// ErrInvalidRating is returned when rating text is not a whole number.
var ErrInvalidRating = errors.New("domain: rating must be a whole number")

// Movie is one row of the movie table. Rows have no identity beyond their
// position, so duplicate titles are allowed.
type Movie struct {
	Title  string `json:"title"`
	Rating int    `json:"rating"`
}

// ValidateTitle reports whether the title has at least MinTitleLength
// characters once surrounding whitespace is trimmed.
func ValidateTitle(title string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(title)) >= MinTitleLength
}

// ValidateRating reports whether the rating lies in [MinRating, MaxRating].
func ValidateRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ParseRating converts user-entered rating text to an integer. Fractional
// values are rejected rather than truncated.
func ParseRating(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidRating
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidRating
	}
	return rating, nil
}
