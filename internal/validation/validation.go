package validation

import (
	"fmt"
	"strings"
	"time"
)

// Error carries field-specific validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}

// validateDate checks a YYYY-MM-DD date string, recording problems in errs.
func validateDate(errs map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "date is required"
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		errs[field] = err.Error()
	}
}
