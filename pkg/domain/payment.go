package domain

import "fmt"

// PaymentMethod is one row returned by the upstream for a country.
// Its content is a passthrough; only the sequence matters to the workflow.
type PaymentMethod map[string]any

// Field returns the string form of a column, or "" if absent.
func (p PaymentMethod) Field(name string) string {
	v, ok := p[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		out := ""
		for i, item := range t {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprint(item)
		}
		return out
	default:
		return fmt.Sprint(t)
	}
}

// CloneMethods returns a shallow copy of the row slice.
func CloneMethods(rows []PaymentMethod) []PaymentMethod {
	if rows == nil {
		return nil
	}
	out := make([]PaymentMethod, len(rows))
	copy(out, rows)
	return out
}
