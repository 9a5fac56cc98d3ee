package usecase

import (
	"sort"
	"strings"
)

// FieldErrors carries per-field validation messages. Validation failures
// never reach the network layer; the page reports them next to each field
// without a round-trip.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(e))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}
