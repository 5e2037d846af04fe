package model

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the maximum number of characters kept in a title.
const MaxTitleLength = 200

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.New().String()
}

// truncateTitle cuts s to MaxTitleLength characters.
func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxTitleLength])
}

func requireID(kind Kind, id string) error {
	if id == "" {
		return &ValidationError{Kind: kind, Field: "id", Reason: "must not be empty"}
	}
	return nil
}

func checkTitle(kind Kind, title string) error {
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return &ValidationError{
			Kind:   kind,
			Field:  "title",
			Reason: fmt.Sprintf("has %d characters, limit is %d", n, MaxTitleLength),
		}
	}
	return nil
}
