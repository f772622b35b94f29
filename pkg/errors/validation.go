package errors

import (
	"strings"
	"unicode"
)

// ValidateItemID validates an item id supplied on the command line or in a
// config file. Ids are opaque strings; this only rejects values that can
// never match a database key and that would be unsafe in cache paths.
func ValidateItemID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "item id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item id contains invalid control characters")
		}
	}

	return nil
}

// ValidatePlanID validates a stored plan id. Plan ids name files in the
// history directory, so anything that could escape it is rejected.
func ValidatePlanID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "plan id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "plan id too long (max 64 characters)")
	}

	for _, r := range id {
		if !(r == '-' || unicode.IsDigit(r) || unicode.IsLetter(r)) {
			return New(ErrCodeInvalidInput, "plan id contains invalid character %q", r)
		}
	}

	return nil
}
