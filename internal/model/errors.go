package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no vehicle exists for a requested id.
var ErrNotFound = errors.New("vehicle not found")

// ErrInvalidImage is returned when an inline image payload does not match the
// <mime-type>;base64,<data> pattern or its data fails to decode.
var ErrInvalidImage = errors.New("invalid inline image payload")

// ValidationError reports the create-request fields that were missing,
// empty, or failed numeric coercion.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}
